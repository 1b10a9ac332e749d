package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

type eventTagStrategy struct{}

func (eventTagStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       EventTags,
		Label:      "Event Tag",
		Tables:     []string{TableEventTag},
		IDField:    FieldEventTagID,
		RemoteType: EventTags,
		ListField:  "eventTags",
		References: []entity.Reference{{Table: TableCampaign, Field: FieldCampaignID}},
		Columns: []string{
			FieldAdvertiserID, FieldCampaignID, FieldCampaignName, FieldEventTagID, FieldEventTagName,
			FieldEventTagStatus, FieldEnableByDefault, FieldEventTagType, FieldEventTagURL,
		},
	}
}

// FetchItemsToLoad gathers event tags by id, by campaign and through the
// overrides of ads. Overrides can only be listed per advertiser, so the
// advertisers of the ads are listed and filtered to the overridden tags.
func (eventTagStrategy) FetchItemsToLoad(ctx context.Context, env *entity.Env, job *entity.Job) ([]remote.Entity, error) {
	var found orderedSet

	for _, id := range job.IDsToLoad {
		if found.has(id) {
			continue
		}
		tag, err := env.Client.Get(ctx, EventTags, id)
		if err != nil {
			return nil, err
		}
		found.add(tag)
	}

	for _, campaignID := range job.CampaignIDs {
		tags, err := env.Client.List(ctx, EventTags, "eventTags", remote.Options{"campaignId": campaignID})
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			found.add(tag)
		}
	}

	if len(job.AdIDs) > 0 {
		ads, err := env.Client.ChunkFetch(ctx, Ads, "ads", job.AdIDs)
		if err != nil {
			return nil, err
		}

		var advertisers, overridden []string
		for _, ad := range ads {
			overrides := list(ad["eventTagOverrides"])
			if len(overrides) == 0 {
				continue
			}
			advertisers = entity.PushUnique(advertisers, utils.ToString(ad["advertiserId"]))
			for _, o := range overrides {
				overridden = entity.PushUnique(overridden, utils.ToString(o["id"]))
			}
		}

		for _, advertiserID := range advertisers {
			tags, err := env.Client.List(ctx, EventTags, "eventTags", remote.Options{"advertiserId": advertiserID})
			if err != nil {
				return nil, err
			}
			for _, tag := range tags {
				if contains(overridden, remote.ID(tag)) {
					found.add(tag)
				}
			}
		}
	}

	return found.items, nil
}

func (eventTagStrategy) MapRow(ctx context.Context, env *entity.Env, tag remote.Entity) ([]map[string]any, error) {
	row := map[string]any{
		FieldAdvertiserID:    tag["advertiserId"],
		FieldEventTagID:      tag["id"],
		FieldEventTagName:    tag["name"],
		FieldEventTagStatus:  tag["status"],
		FieldEnableByDefault: tag["enabledByDefault"],
		FieldEventTagType:    tag["type"],
		FieldEventTagURL:     tag["url"],
	}

	campaign, err := get(ctx, env, Campaigns, tag["campaignId"])
	if err != nil {
		return nil, err
	}
	if campaign != nil {
		row[FieldCampaignID] = campaign["id"]
		row[FieldCampaignName] = campaign["name"]
	}
	return []map[string]any{row}, nil
}

func (eventTagStrategy) ProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	entity.Assign(job.Remote, "advertiserId", row, FieldAdvertiserID, true, nil)
	entity.Assign(job.Remote, "campaignId", row, FieldCampaignID, false, nil)
	entity.Assign(job.Remote, "name", row, FieldEventTagName, true, nil)
	entity.Assign(job.Remote, "type", row, FieldEventTagType, true, nil)
	entity.Assign(job.Remote, "url", row, FieldEventTagURL, true, nil)
	entity.Assign(job.Remote, "status", row, FieldEventTagStatus, true, nil)
	job.Remote["enabledByDefault"] = entity.IsTrue(row[FieldEnableByDefault])
	return nil
}

func (eventTagStrategy) PostProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	if !utils.IsTruthy(job.Remote["campaignId"]) {
		return nil
	}
	name, err := nameOf(ctx, env, Campaigns, job.Remote["campaignId"])
	if err != nil {
		return err
	}
	job.Row.Set(FieldCampaignName, name)
	return nil
}

// orderedSet keeps entities unique by id in first seen order.
type orderedSet struct {
	seen  map[string]bool
	items []remote.Entity
}

func (s *orderedSet) has(id string) bool {
	return s.seen[id]
}

func (s *orderedSet) add(e remote.Entity) {
	if e == nil {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	id := remote.ID(e)
	if s.seen[id] {
		return
	}
	s.seen[id] = true
	s.items = append(s.items, e)
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
