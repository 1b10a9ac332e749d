package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
)

type landingPageStrategy struct{}

func (landingPageStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       LandingPages,
		Label:      "Landing Page",
		Tables:     []string{TableLandingPage, entity.QATable},
		Keys:       []string{FieldLandingPageID},
		IDField:    FieldLandingPageID,
		RemoteType: LandingPages,
		ListField:  "landingPages",
		Columns:    []string{FieldLandingPageID, FieldLandingPageName, FieldAdvertiserID, FieldLandingPageURL},
	}
}

func (landingPageStrategy) ProcessSearchOptions(job *entity.Job, opts remote.Options) bool {
	return withCampaigns(job, opts)
}

func (landingPageStrategy) MapRow(_ context.Context, _ *entity.Env, lp remote.Entity) ([]map[string]any, error) {
	return []map[string]any{{
		FieldLandingPageID:   lp["id"],
		FieldLandingPageName: lp["name"],
		FieldAdvertiserID:    lp["advertiserId"],
		FieldLandingPageURL:  lp["url"],
	}}, nil
}

func (landingPageStrategy) ProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	entity.Assign(job.Remote, "name", row, FieldLandingPageName, true, nil)
	entity.Assign(job.Remote, "url", row, FieldLandingPageURL, true, nil)
	entity.Assign(job.Remote, "advertiserId", row, FieldAdvertiserID, true, nil)
	return nil
}
