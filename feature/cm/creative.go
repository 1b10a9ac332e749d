package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

type creativeStrategy struct{}

func (creativeStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       Creatives,
		Label:      "Creative",
		Tables:     []string{TableCreative, entity.QATable},
		Keys:       []string{FieldCreativeID},
		IDField:    FieldCreativeID,
		RemoteType: Creatives,
		ListField:  "creatives",
		References: []entity.Reference{{Table: TableCampaign, Field: FieldCampaignID}},
		Columns: []string{
			FieldAdvertiserID, FieldCampaignID, FieldCampaignName,
			FieldCreativeID, FieldCreativeName, FieldCreativeType,
		},
	}
}

// FetchItemsToLoad gets creatives by id and lists the creatives of each
// campaign, tagging them with the campaign they were listed for.
func (creativeStrategy) FetchItemsToLoad(ctx context.Context, env *entity.Env, job *entity.Job) ([]remote.Entity, error) {
	var found orderedSet

	for _, id := range job.IDsToLoad {
		if found.has(id) {
			continue
		}
		creative, err := env.Client.Get(ctx, Creatives, id)
		if err != nil {
			return nil, err
		}
		found.add(creative)
	}

	for _, campaignID := range job.CampaignIDs {
		creatives, err := env.Client.List(ctx, Creatives, "creatives", remote.Options{"campaignId": campaignID})
		if err != nil {
			return nil, err
		}
		for _, creative := range creatives {
			creative["campaignId"] = campaignID
			found.add(creative)
		}
	}

	return found.items, nil
}

func (creativeStrategy) MapRow(ctx context.Context, env *entity.Env, creative remote.Entity) ([]map[string]any, error) {
	row := map[string]any{
		FieldCreativeID:   creative["id"],
		FieldCreativeName: creative["name"],
		FieldCreativeType: CreativeType(creative),
	}

	campaign, err := get(ctx, env, Campaigns, creative["campaignId"])
	if err != nil {
		return nil, err
	}
	if campaign != nil {
		row[FieldAdvertiserID] = campaign["advertiserId"]
		row[FieldCampaignID] = campaign["id"]
		row[FieldCampaignName] = campaign["name"]
	}
	if utils.IsTruthy(creative["advertiserId"]) {
		row[FieldAdvertiserID] = creative["advertiserId"]
	}
	return []map[string]any{row}, nil
}

// CreativeType collapses the remote creative types to VIDEO and DISPLAY.
func CreativeType(creative remote.Entity) string {
	if utils.ToString(creative["type"]) == "INSTREAM_VIDEO" {
		return "VIDEO"
	}
	return "DISPLAY"
}

func (creativeStrategy) ProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	if name := job.Row.Get(FieldCreativeName); utils.IsTruthy(name) {
		job.Remote["name"] = name
	}
	return nil
}

// PostProcessPush associates the creative with its campaign.
func (creativeStrategy) PostProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	campaign, err := get(ctx, env, Campaigns, job.Row.Get(FieldCampaignID))
	if err != nil || campaign == nil {
		return err
	}
	if err := env.Client.AssociateCreativeToCampaign(ctx, remote.ID(campaign), remote.ID(job.Remote)); err != nil {
		return err
	}
	job.Row.Set(FieldCampaignName, campaign["name"])
	return nil
}
