package bulk

import (
	"errors"
	"strings"

	"bulkdozer/core/entity"
	"bulkdozer/core/idstore"
	"bulkdozer/core/logger"
	"bulkdozer/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync jobs.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, logger: service.logger}
}

// RegisterRoutes registers the bulk routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/bulk")
	group.Post("/jobs", h.HandleInitializeJob)
	group.Get("/configs", h.HandleEntityConfigs)

	group.Post("/load", h.HandleLoad)
	group.Post("/push", h.HandlePush)
	group.Get("/hierarchy", h.HandleHierarchy)

	group.Post("/entities/:entity/identify", h.HandleIdentify)
	group.Post("/entities/:entity/fetch", h.HandleFetch)
	group.Post("/entities/:entity/load", h.HandleLoadEntity)
	group.Post("/entities/:entity/push", h.HandlePushEntity)

	group.Get("/idmap", h.HandleGetIDMap)
	group.Put("/idmap", h.HandleSaveIDMap)
	group.Delete("/idmap", h.HandleClearIDMap)
	group.Post("/idmap/backup", h.HandleBackupIDMap)
	group.Post("/idmap/restore", h.HandleRestoreIDMap)
}

func (h *Handler) fail(c *fiber.Ctx, status int, msg string, err error) error {
	logger.WithRayID(h.logger, c).Error(msg, zap.Error(err))
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusOf(err error) int {
	var verr *entity.ValidationError
	switch {
	case errors.Is(err, entity.ErrUnknownEntity):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNoStorage):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, storage.ErrObjectNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// jobFromRequest decodes the job body and binds it to the entity route
// parameter.
func jobFromRequest(c *fiber.Ctx) (*entity.Job, error) {
	job := entity.NewJob(c.Params("entity"))
	if len(c.Body()) > 0 {
		if err := c.BodyParser(job); err != nil {
			return nil, err
		}
	}
	job.Entity = c.Params("entity")
	return job, nil
}

// HandleInitializeJob starts a sync session.
// @Summary Initialize Job
// @Description Increments the session counter. The returned generation scopes the shared entity cache.
// @Tags bulk
// @Produce json
// @Success 200 {object} map[string]int64 "Generation"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulk/jobs [post]
func (h *Handler) HandleInitializeJob(c *fiber.Ctx) error {
	g, err := h.service.InitializeJob(c.Context())
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Job initialization failed", err)
	}
	return c.JSON(fiber.Map{"generation": g})
}

// HandleEntityConfigs returns the entity modes.
// @Summary Entity Configs
// @Description Reads the Entity Configs table, seeding it from the configured profile when missing.
// @Tags bulk
// @Produce json
// @Success 200 {object} map[string]string "Entity modes"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulk/configs [get]
func (h *Handler) HandleEntityConfigs(c *fiber.Ctx) error {
	configs, err := h.service.EntityConfigs(c.Context())
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Reading entity configs failed", err)
	}
	return c.JSON(configs)
}

// HandleLoad runs a full load.
// @Summary Load Workbook
// @Description Loads the campaigns of the Campaign table, plus the requested ones, and every dependent entity.
// @Tags bulk
// @Accept json
// @Produce json
// @Param request body LoadRequest false "Extra campaign ids"
// @Success 200 {object} Report "Load Report"
// @Failure 500 {object} Report "Partial Report"
// @Router /bulk/load [post]
func (h *Handler) HandleLoad(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	var req LoadRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	l.Info("Starting load", zap.Strings("campaign_ids", req.CampaignIDs))
	report, err := h.service.Load(c.Context(), req)
	if err != nil {
		l.Error("Load failed", zap.Error(err))
		if report == nil {
			return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "report": report})
	}
	return c.JSON(report)
}

// HandlePush runs a full push.
// @Summary Push Workbook
// @Description Pushes every entity table in dependency order. Use dry_run to only count rows.
// @Tags bulk
// @Produce json
// @Param dry_run query boolean false "Only report the rows that would be pushed"
// @Success 200 {object} Report "Push Report"
// @Failure 500 {object} Report "Partial Report"
// @Router /bulk/push [post]
func (h *Handler) HandlePush(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	req := PushRequest{DryRun: c.Query("dry_run") == "true"}

	l.Info("Starting push", zap.Bool("dry_run", req.DryRun))
	report, err := h.service.Push(c.Context(), req)
	if err != nil {
		l.Error("Push failed", zap.Error(err))
		if report == nil {
			return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "report": report})
	}
	return c.JSON(report)
}

// HandleHierarchy builds the campaign tree.
// @Summary Campaign Hierarchy
// @Description Fetches the workbook campaigns with their groups, placements, ads, creatives and landing pages and returns them as a tree. Use export to also upload it.
// @Tags bulk
// @Produce json
// @Param campaign_ids query string false "Comma separated extra campaign ids"
// @Param export query boolean false "Upload the tree to object storage"
// @Success 200 {object} map[string]interface{} "Hierarchy"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulk/hierarchy [get]
func (h *Handler) HandleHierarchy(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("campaign_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	tree, err := h.service.Hierarchy(c.Context(), ids)
	if err != nil {
		return h.fail(c, statusOf(err), "Hierarchy build failed", err)
	}

	resp := fiber.Map{"campaigns": tree.Campaigns, "orphans": tree.Orphans}
	if c.Query("export") == "true" {
		object, err := h.service.ExportHierarchy(c.Context(), tree)
		if err != nil {
			return h.fail(c, statusOf(err), "Hierarchy export failed", err)
		}
		resp["object"] = object
	}
	return c.JSON(resp)
}

// HandleIdentify collects the ids present in an entity table.
// @Summary Identify Items
// @Description Reads the entity table and returns the job with the concrete ids to load.
// @Tags bulk
// @Accept json
// @Produce json
// @Param entity path string true "Entity name, e.g. Campaigns"
// @Param job body entity.Job false "Job"
// @Success 200 {object} entity.Job "Job"
// @Failure 404 {object} map[string]string "Unknown Entity"
// @Router /bulk/entities/{entity}/identify [post]
func (h *Handler) HandleIdentify(c *fiber.Ctx) error {
	job, err := jobFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.IdentifyItemsToLoad(c.Context(), job); err != nil {
		return h.fail(c, statusOf(err), "Identify failed", err)
	}
	return c.JSON(job)
}

// HandleFetch fetches the remote items selected by a job.
// @Summary Fetch Items
// @Description Fetches the remote entities selected by the job ids and cascade filters without writing them.
// @Tags bulk
// @Accept json
// @Produce json
// @Param entity path string true "Entity name, e.g. Campaigns"
// @Param job body entity.Job false "Job"
// @Success 200 {object} map[string]interface{} "Items"
// @Failure 404 {object} map[string]string "Unknown Entity"
// @Router /bulk/entities/{entity}/fetch [post]
func (h *Handler) HandleFetch(c *fiber.Ctx) error {
	job, err := jobFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	items, err := h.service.FetchItemsToLoad(c.Context(), job)
	if err != nil {
		return h.fail(c, statusOf(err), "Fetch failed", err)
	}
	return c.JSON(fiber.Map{"job": job, "items": items})
}

// HandleLoadEntity loads one entity table.
// @Summary Load Entity
// @Description Fetches the entity items selected by the job (or by its table when no ids are given) and overwrites its table.
// @Tags bulk
// @Accept json
// @Produce json
// @Param entity path string true "Entity name, e.g. Campaigns"
// @Param job body entity.Job false "Job"
// @Success 200 {object} entity.Job "Job"
// @Failure 404 {object} map[string]string "Unknown Entity"
// @Router /bulk/entities/{entity}/load [post]
func (h *Handler) HandleLoadEntity(c *fiber.Ctx) error {
	job, err := jobFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.LoadEntity(c.Context(), job); err != nil {
		return h.fail(c, statusOf(err), "Load failed", err)
	}
	return c.JSON(job)
}

// HandlePushEntity pushes one entity table.
// @Summary Push Entity
// @Description Pushes every row of the entity table, writes the feed and the id map back and returns the job with its logs.
// @Tags bulk
// @Accept json
// @Produce json
// @Param entity path string true "Entity name, e.g. Campaigns"
// @Param job body entity.Job false "Job"
// @Success 200 {object} entity.Job "Job"
// @Failure 404 {object} map[string]string "Unknown Entity"
// @Failure 422 {object} map[string]interface{} "Row Failure"
// @Router /bulk/entities/{entity}/push [post]
func (h *Handler) HandlePushEntity(c *fiber.Ctx) error {
	job, err := jobFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	failed, err := h.service.PushEntity(c.Context(), job)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Push failed", zap.String("entity", job.Entity), zap.Error(err))
		status := statusOf(err)
		if status == fiber.StatusInternalServerError && len(job.Jobs) > 0 {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error(), "failed": failed, "job": job})
	}
	return c.JSON(job)
}

// HandleGetIDMap returns the persisted id map.
// @Summary Get ID Map
// @Tags bulk
// @Produce json
// @Success 200 {object} idstore.Data "ID Map"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /bulk/idmap [get]
func (h *Handler) HandleGetIDMap(c *fiber.Ctx) error {
	data, err := h.service.LoadIDMap(c.Context())
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Loading id map failed", err)
	}
	return c.JSON(data)
}

// HandleSaveIDMap replaces the persisted id map.
// @Summary Save ID Map
// @Tags bulk
// @Accept json
// @Produce json
// @Param idmap body idstore.Data true "ID Map"
// @Success 200 {object} map[string]string "Saved"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /bulk/idmap [put]
func (h *Handler) HandleSaveIDMap(c *fiber.Ctx) error {
	var data idstore.Data
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.SaveIDMap(c.Context(), data); err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Saving id map failed", err)
	}
	return c.JSON(fiber.Map{"status": "saved"})
}

// HandleClearIDMap empties the persisted id map.
// @Summary Clear ID Map
// @Tags bulk
// @Produce json
// @Success 200 {object} map[string]string "Cleared"
// @Router /bulk/idmap [delete]
func (h *Handler) HandleClearIDMap(c *fiber.Ctx) error {
	if err := h.service.ClearIDMap(c.Context()); err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "Clearing id map failed", err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

// HandleBackupIDMap uploads the id map to object storage.
// @Summary Backup ID Map
// @Tags bulk
// @Produce json
// @Success 200 {object} map[string]string "Object name"
// @Failure 503 {object} map[string]string "Storage Not Configured"
// @Router /bulk/idmap/backup [post]
func (h *Handler) HandleBackupIDMap(c *fiber.Ctx) error {
	object, err := h.service.BackupIDMap(c.Context())
	if err != nil {
		return h.fail(c, statusOf(err), "Id map backup failed", err)
	}
	return c.JSON(fiber.Map{"status": "backed_up", "object": object})
}

// HandleRestoreIDMap restores the id map from object storage.
// @Summary Restore ID Map
// @Tags bulk
// @Produce json
// @Param object query string false "Backup object name, defaults to the latest"
// @Success 200 {object} map[string]string "Object name"
// @Failure 404 {object} map[string]string "No Backup"
// @Router /bulk/idmap/restore [post]
func (h *Handler) HandleRestoreIDMap(c *fiber.Ctx) error {
	object, err := h.service.RestoreIDMap(c.Context(), c.Query("object"))
	if err != nil {
		return h.fail(c, statusOf(err), "Id map restore failed", err)
	}
	return c.JSON(fiber.Map{"status": "restored", "object": object})
}
