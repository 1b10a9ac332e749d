package bulk

import (
	"context"
	"fmt"
	"path"
	"time"

	"bulkdozer/core/entity"
	"bulkdozer/core/hierarchy"
	"bulkdozer/core/remote"
	"bulkdozer/core/storage"
	"bulkdozer/feature/cm"

	"go.uber.org/zap"
)

// Hierarchy fetches the campaigns listed in the Campaign table, plus
// campaignIDs, with their dependent entities and assembles the tree.
// Orphans are logged as warnings.
func (s *Service) Hierarchy(ctx context.Context, campaignIDs []string) (*hierarchy.Tree, error) {
	generation, err := s.InitializeJob(ctx)
	if err != nil {
		return nil, err
	}
	e := s.Engine(generation)

	root := entity.NewJob(cm.Campaigns)
	root.Generation = generation
	if err := e.IdentifyItemsToLoad(ctx, root); err != nil {
		return nil, err
	}
	for _, id := range campaignIDs {
		root.IDsToLoad = entity.PushUnique(root.IDsToLoad, id)
	}

	var in hierarchy.Input
	if in.Campaigns, err = e.FetchItemsToLoad(ctx, root); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(in.Campaigns))
	for _, c := range in.Campaigns {
		ids = append(ids, remote.ID(c))
	}

	fetch := func(name string) ([]remote.Entity, error) {
		if len(ids) == 0 {
			return nil, nil
		}
		job := entity.NewJob(name)
		job.Generation = generation
		job.CampaignIDs = ids
		items, err := e.FetchItemsToLoad(ctx, job)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
		}
		return items, nil
	}

	if in.PlacementGroups, err = fetch(cm.PlacementGroups); err != nil {
		return nil, err
	}
	if in.Placements, err = fetch(cm.Placements); err != nil {
		return nil, err
	}
	if in.Ads, err = fetch(cm.Ads); err != nil {
		return nil, err
	}
	if in.Creatives, err = fetch(cm.Creatives); err != nil {
		return nil, err
	}
	if in.LandingPages, err = fetch(cm.LandingPages); err != nil {
		return nil, err
	}

	tree := hierarchy.Build(in)
	for _, o := range tree.Orphans {
		s.logger.Warn("Orphan entity left out of hierarchy",
			zap.String("kind", o.Kind),
			zap.String("id", o.ID),
			zap.String("parent_kind", o.ParentKind),
			zap.String("parent_id", o.ParentID))
	}
	return tree, nil
}

// ExportHierarchy uploads tree as JSON under the export prefix and returns
// the object name.
func (s *Service) ExportHierarchy(ctx context.Context, tree *hierarchy.Tree) (string, error) {
	if s.storage == nil {
		return "", ErrNoStorage
	}
	name := path.Join(s.sync.ExportPrefix, "hierarchy", timestamp()+".json")
	if err := storage.PutJSON(ctx, s.storage, s.bucket, name, tree); err != nil {
		return "", err
	}
	s.logger.Info("Exported hierarchy", zap.String("object", name), zap.Int("campaigns", len(tree.Campaigns)))
	return name, nil
}

// timestamp renders now so that object names sort chronologically.
var timestamp = func() string {
	return time.Now().UTC().Format("20060102T150405.000Z")
}
