package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
)

type campaignStrategy struct{}

func (campaignStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       Campaigns,
		Label:      "Campaign",
		Tables:     []string{TableCampaign, entity.QATable},
		Keys:       []string{FieldCampaignID},
		IDField:    FieldCampaignID,
		RemoteType: Campaigns,
		ListField:  "campaigns",
		References: []entity.Reference{{Table: TableLandingPage, Field: FieldLandingPageID}},
		Columns: []string{
			FieldCampaignID, FieldCampaignName, FieldAdvertiserID, FieldLandingPageID,
			FieldLandingPageName, FieldCampaignStartDate, FieldCampaignEndDate,
		},
	}
}

func (campaignStrategy) MapRow(ctx context.Context, env *entity.Env, campaign remote.Entity) ([]map[string]any, error) {
	lpName, err := nameOf(ctx, env, LandingPages, campaign["defaultLandingPageId"])
	if err != nil {
		return nil, err
	}
	return []map[string]any{{
		FieldCampaignID:        campaign["id"],
		FieldCampaignName:      campaign["name"],
		FieldAdvertiserID:      campaign["advertiserId"],
		FieldLandingPageID:     campaign["defaultLandingPageId"],
		FieldLandingPageName:   lpName,
		FieldCampaignStartDate: campaign["startDate"],
		FieldCampaignEndDate:   campaign["endDate"],
	}}, nil
}

func (campaignStrategy) PreProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	formatDates(job.Row.Data, FieldCampaignStartDate, FieldCampaignEndDate)
	return nil
}

func (campaignStrategy) ProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	entity.Assign(job.Remote, "name", row, FieldCampaignName, true, nil)
	entity.Assign(job.Remote, "advertiserId", row, FieldAdvertiserID, true, nil)
	entity.Assign(job.Remote, "defaultLandingPageId", row, FieldLandingPageID, true, nil)
	entity.Assign(job.Remote, "startDate", row, FieldCampaignStartDate, true, nil)
	entity.Assign(job.Remote, "endDate", row, FieldCampaignEndDate, true, nil)
	return nil
}

func (campaignStrategy) PostProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	name, err := nameOf(ctx, env, LandingPages, job.Remote["defaultLandingPageId"])
	if err != nil {
		return err
	}
	job.Row.Set(FieldLandingPageName, name)
	return nil
}

func formatDates(row map[string]any, fields ...string) {
	for _, f := range fields {
		row[f] = entity.FormatDate(row[f])
	}
}
