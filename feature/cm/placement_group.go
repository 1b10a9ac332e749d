package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
)

type placementGroupStrategy struct{}

func (placementGroupStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       PlacementGroups,
		Label:      "Placement Group",
		Tables:     []string{TablePlacementGroup, entity.QATable},
		Keys:       []string{FieldPlacementGroupID},
		IDField:    FieldPlacementGroupID,
		RemoteType: PlacementGroups,
		ListField:  "placementGroups",
		References: []entity.Reference{{Table: TableCampaign, Field: FieldCampaignID}},
		Columns: []string{
			FieldAdvertiserID, FieldCampaignID, FieldCampaignName, FieldSiteID, FieldSiteName,
			FieldPlacementGroupID, FieldPlacementGroupName, FieldPlacementGroupType,
			FieldPlacementGroupStartDate, FieldPlacementGroupEndDate, FieldPlacementGroupPricing,
		},
	}
}

func (placementGroupStrategy) ProcessSearchOptions(job *entity.Job, opts remote.Options) bool {
	return withCampaigns(job, opts)
}

func (placementGroupStrategy) MapRow(ctx context.Context, env *entity.Env, group remote.Entity) ([]map[string]any, error) {
	siteName, err := nameOf(ctx, env, sitesType, group["siteId"])
	if err != nil {
		return nil, err
	}
	campaignName, err := nameOf(ctx, env, Campaigns, group["campaignId"])
	if err != nil {
		return nil, err
	}

	return []map[string]any{{
		FieldAdvertiserID:            group["advertiserId"],
		FieldCampaignID:              group["campaignId"],
		FieldCampaignName:            campaignName,
		FieldSiteID:                  group["siteId"],
		FieldSiteName:                siteName,
		FieldPlacementGroupID:        group["id"],
		FieldPlacementGroupName:      group["name"],
		FieldPlacementGroupType:      group["placementGroupType"],
		FieldPlacementGroupStartDate: nested(group, "pricingSchedule", "startDate"),
		FieldPlacementGroupEndDate:   nested(group, "pricingSchedule", "endDate"),
		FieldPlacementGroupPricing:   nested(group, "pricingSchedule", "pricingType"),
	}}, nil
}

func (placementGroupStrategy) PreProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	formatDates(job.Row.Data, FieldPlacementGroupStartDate, FieldPlacementGroupEndDate)
	return nil
}

func (placementGroupStrategy) ProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	group := job.Remote
	entity.Assign(group, "advertiserId", row, FieldAdvertiserID, true, nil)
	entity.Assign(group, "campaignId", row, FieldCampaignID, true, nil)
	entity.Assign(group, "siteId", row, FieldSiteID, true, nil)
	entity.Assign(group, "name", row, FieldPlacementGroupName, true, nil)
	entity.Assign(group, "placementGroupType", row, FieldPlacementGroupType, true, nil)

	schedule := child(group, "pricingSchedule")
	entity.Assign(schedule, "startDate", row, FieldPlacementGroupStartDate, true, nil)
	entity.Assign(schedule, "endDate", row, FieldPlacementGroupEndDate, true, nil)
	entity.Assign(schedule, "pricingType", row, FieldPlacementGroupPricing, true, nil)
	return nil
}

func (placementGroupStrategy) PostProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	campaignName, err := nameOf(ctx, env, Campaigns, job.Row.Get(FieldCampaignID))
	if err != nil {
		return err
	}
	siteName, err := nameOf(ctx, env, sitesType, job.Row.Get(FieldSiteID))
	if err != nil {
		return err
	}
	job.Row.Set(FieldCampaignName, campaignName)
	job.Row.Set(FieldSiteName, siteName)
	return nil
}
