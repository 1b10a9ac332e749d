package integrity

import (
	"errors"

	"bulkdozer/core/logger"
	"bulkdozer/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.DatabaseReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/workbook", h.HandleWorkbookCheck)
	group.Get("/store", h.HandleStoreCheck)
	group.Get("/database", h.HandleDatabaseCheck)
	group.Get("/structure", h.HandleStructureCheck)
}

func unavailable(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, ErrNotConfigured) {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Workbook, Store, Database, Structure). Checks without a configured backend are skipped.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix what can be fixed"
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"
	l.Info("Triggering all integrity checks", zap.Bool("fix", fix))

	report := h.service.Run(c.Context(), fix)
	if !report.Matched {
		l.Warn("Integrity checks found problems")
	}
	return c.JSON(report)
}

// HandleWorkbookCheck checks and optionally fixes the entity tables.
// @Summary Check Workbook Tables
// @Description Checks that every entity has a table whose header holds its id and key fields. Optionally creates missing tables with their default headers.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create missing tables"
// @Success 200 {object} checks.WorkbookReport "Workbook Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/workbook [get]
func (h *Handler) HandleWorkbookCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckWorkbook(c.Context())
	if err != nil {
		l.Error("Workbook check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	missing := report.Missing()
	if len(missing) > 0 && fix {
		l.Info("Attempting to create missing tables", zap.Int("count", len(missing)))
		created, err := h.service.FixWorkbook(c.Context(), report)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create tables",
				"details": err.Error(),
				"created": created,
			})
		}
		return c.JSON(fiber.Map{
			"status": "fixed",
			"fixed":  created,
		})
	}

	return c.JSON(report)
}

// HandleStoreCheck checks and optionally fixes the id map table.
// @Summary Check ID Map
// @Description Checks that the id map table exists and decodes. Optionally writes an empty map when the table is missing.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create the table when missing"
// @Success 200 {object} checks.StoreReport "Store Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/store [get]
func (h *Handler) HandleStoreCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckStore(c.Context())
	if err != nil {
		l.Error("Store check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if fix {
		fixed, err := h.service.FixStore(c.Context(), report)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if fixed {
			return c.JSON(fiber.Map{"status": "fixed", "fixed": []string{report.Table}})
		}
	}
	return c.JSON(report)
}

// HandleDatabaseCheck checks the workbook database schema.
// @Summary Check Database Schema
// @Description Checks if the workbook database schema matches the expected models. Optionally migrates it.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Migrate the schema"
// @Success 200 {object} checks.DatabaseReport "Database Check Report"
// @Failure 503 {object} map[string]string "Database Not Configured"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting database schema check")

	report, err := h.service.CheckDatabase()
	if err != nil {
		l.Error("Database schema check failed", zap.Error(err))
		return unavailable(c, err)
	}

	if !report.Matched && c.Query("fix") == "true" {
		if err := h.service.FixDatabase(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if report, err = h.service.CheckDatabase(); err != nil {
			return unavailable(c, err)
		}
	}
	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the export folders.
// @Summary Check Structure
// @Description Checks if the export and backup folders exist in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 503 {object} map[string]string "Storage Not Configured"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return unavailable(c, err)
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}
