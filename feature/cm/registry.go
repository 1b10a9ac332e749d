package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

// Strategies returns one strategy per Campaign Manager entity.
func Strategies() []entity.Strategy {
	return []entity.Strategy{
		campaignStrategy{},
		landingPageStrategy{},
		eventTagStrategy{},
		creativeStrategy{},
		placementGroupStrategy{},
		placementStrategy{},
		adStrategy{},
		pricingScheduleStrategy{},
		adCreativeStrategy{},
		adPlacementStrategy{},
		adEventTagStrategy{},
	}
}

// NewRegistry returns a registry holding every Campaign Manager strategy.
func NewRegistry() *entity.Registry {
	return entity.NewRegistry(Strategies()...)
}

// get fetches typ/id, returning nil for an empty id.
func get(ctx context.Context, env *entity.Env, typ string, id any) (remote.Entity, error) {
	if !utils.IsTruthy(id) {
		return nil, nil
	}
	return env.Client.Get(ctx, typ, id)
}

// nameOf returns the name of typ/id, or nil when id is empty.
func nameOf(ctx context.Context, env *entity.Env, typ string, id any) (any, error) {
	obj, err := get(ctx, env, typ, id)
	if err != nil || obj == nil {
		return nil, err
	}
	return obj["name"], nil
}

// child returns obj[field] as a map, creating it when missing.
func child(obj map[string]any, field string) map[string]any {
	if m, ok := obj[field].(map[string]any); ok {
		return m
	}
	m := map[string]any{}
	obj[field] = m
	return m
}

func nested(obj map[string]any, path ...string) any {
	var cur any = obj
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

func list(v any) []map[string]any {
	items, _ := v.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func withCampaigns(job *entity.Job, opts remote.Options) bool {
	if len(job.CampaignIDs) == 0 {
		return false
	}
	opts["campaignIds"] = job.CampaignIDs
	return true
}
