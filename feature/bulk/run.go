package bulk

import (
	"context"
	"errors"
	"fmt"

	"bulkdozer/core/entity"
	"bulkdozer/feature/cm"

	"go.uber.org/zap"
)

// PushOrder is the order entities are pushed in, so that every reference
// is committed before the rows pointing at it.
var PushOrder = []string{
	cm.LandingPages,
	cm.Campaigns,
	cm.EventTags,
	cm.Creatives,
	cm.PlacementGroups,
	cm.Placements,
	cm.Ads,
}

// LoadOrder is the order entities are loaded in. Each step narrows its
// fetch with the ids loaded by the steps before it.
var LoadOrder = []string{
	cm.Campaigns,
	cm.LandingPages,
	cm.PlacementGroups,
	cm.Placements,
	cm.PricingSchedules,
	cm.Ads,
	cm.AdCreativeAssignments,
	cm.AdPlacementAssignments,
	cm.AdEventTagAssignments,
	cm.Creatives,
	cm.EventTags,
}

// LoadRequest selects what a load run fetches.
type LoadRequest struct {
	// CampaignIDs are loaded on top of the ids found in the Campaign table.
	CampaignIDs []string `json:"campaignIds,omitempty"`
}

// PushRequest controls a push run.
type PushRequest struct {
	// DryRun only reads the tables and reports the rows that would be pushed.
	DryRun bool `json:"dryRun,omitempty"`
}

// EntityReport summarizes one entity of a run.
type EntityReport struct {
	Entity  string `json:"entity"`
	Skipped bool   `json:"skipped,omitempty"`
	Items   int    `json:"items"`
	Failed  int    `json:"failed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	Generation int64          `json:"generation"`
	Entities   []EntityReport `json:"entities"`
	LogRows    int            `json:"logRows"`
}

// cascade holds the ids loaded so far in a load run.
type cascade struct {
	campaigns  []string
	placements []string
	ads        []string
}

func (c *cascade) apply(job *entity.Job) {
	switch job.Entity {
	case cm.Campaigns:
	case cm.PricingSchedules:
		job.IDsToLoad = c.placements
	case cm.AdCreativeAssignments, cm.AdPlacementAssignments, cm.AdEventTagAssignments:
		job.IDsToLoad = c.ads
	case cm.EventTags:
		job.CampaignIDs = c.campaigns
		job.AdIDs = c.ads
	default:
		job.CampaignIDs = c.campaigns
	}
}

func (c *cascade) record(job *entity.Job) {
	switch job.Entity {
	case cm.Campaigns:
		c.campaigns = job.LoadedIDs
	case cm.Placements:
		c.placements = job.LoadedIDs
	case cm.Ads:
		c.ads = job.LoadedIDs
	}
}

// cascaded reports whether job has something to fetch.
func cascaded(job *entity.Job) bool {
	return len(job.IDsToLoad) > 0 || len(job.CampaignIDs) > 0 || len(job.AdIDs) > 0
}

// Load runs a full load: campaigns from the Campaign table and req, then
// every dependent entity of those campaigns. The first failure stops the run.
func (s *Service) Load(ctx context.Context, req LoadRequest) (*Report, error) {
	generation, err := s.InitializeJob(ctx)
	if err != nil {
		return nil, err
	}
	configs, err := s.EntityConfigs(ctx)
	if err != nil {
		return nil, err
	}
	activeOnly, err := s.ActiveOnly(ctx)
	if err != nil {
		return nil, err
	}

	e := s.Engine(generation)
	report := &Report{Generation: generation}
	var c cascade
	var runErr error

	for _, name := range LoadOrder {
		if !configs.Mode(name).Loads() {
			report.Entities = append(report.Entities, EntityReport{Entity: name, Skipped: true})
			continue
		}

		job := entity.NewJob(name)
		job.Generation = generation
		job.ActiveOnly = activeOnly
		job.PreFetchConfigs = cm.LoadPreFetch(name)

		if name == cm.Campaigns {
			if err := e.IdentifyItemsToLoad(ctx, job); err != nil {
				runErr = err
				break
			}
			for _, id := range req.CampaignIDs {
				job.IDsToLoad = entity.PushUnique(job.IDsToLoad, id)
			}
		} else {
			c.apply(job)
		}

		er := EntityReport{Entity: name}
		if !cascaded(job) {
			er.Skipped = true
			report.Entities = append(report.Entities, er)
			continue
		}

		err := e.Load(ctx, job)
		if err == nil {
			c.record(job)
			er.Items = len(job.LoadedIDs)
		} else {
			er.Error = err.Error()
			job.Log("Error loading %s: %s", name, err.Error())
		}
		report.Entities = append(report.Entities, er)

		if report.LogRows, err = s.writeLogs(ctx, report.LogRows, job); err != nil {
			return report, err
		}
		if er.Error != "" {
			runErr = fmt.Errorf("failed to load %s: %s", name, er.Error)
			break
		}
	}

	s.logger.Info("Load finished", zap.Int64("generation", generation), zap.Error(runErr))
	return report, runErr
}

// Push pushes every entity in PushOrder. A failed row stops the run unless
// continue on error is set.
func (s *Service) Push(ctx context.Context, req PushRequest) (*Report, error) {
	generation, err := s.InitializeJob(ctx)
	if err != nil {
		return nil, err
	}
	configs, err := s.EntityConfigs(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ids.Load(ctx); err != nil {
		return nil, err
	}

	e := s.Engine(generation)
	report := &Report{Generation: generation}
	var runErr error

	for _, name := range PushOrder {
		if !configs.Mode(name).Pushes() {
			report.Entities = append(report.Entities, EntityReport{Entity: name, Skipped: true})
			continue
		}

		job := entity.NewJob(name)
		job.Generation = generation
		job.PreFetchConfigs = cm.PushPreFetch(name)

		er := EntityReport{Entity: name}
		if req.DryRun {
			if err := e.CreatePushJobs(ctx, job); err != nil {
				return report, err
			}
			er.Items = len(job.Jobs)
			report.Entities = append(report.Entities, er)
			continue
		}

		failed, err := s.pushEntity(ctx, e, job)
		er.Items = len(job.Jobs)
		er.Failed = failed
		if err != nil {
			er.Error = err.Error()
		}
		report.Entities = append(report.Entities, er)

		var logErr error
		if report.LogRows, logErr = s.writeLogs(ctx, report.LogRows, job); logErr != nil {
			return report, logErr
		}
		if err != nil {
			runErr = fmt.Errorf("failed to push %s: %w", name, err)
			break
		}
	}

	if runErr == nil && !req.DryRun {
		for _, er := range report.Entities {
			if er.Failed > 0 {
				runErr = errors.Join(runErr, fmt.Errorf("%d %s rows failed", er.Failed, er.Entity))
			}
		}
	}

	s.logger.Info("Push finished",
		zap.Int64("generation", generation),
		zap.Bool("dry_run", req.DryRun),
		zap.Error(runErr))
	return report, runErr
}

func (s *Service) writeLogs(ctx context.Context, offset int, job *entity.Job) (int, error) {
	return WriteLogs(ctx, s.store, offset, DrainLogs(job))
}
