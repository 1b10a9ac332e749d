package cm

import (
	"context"

	"bulkdozer/core/entity"
	"bulkdozer/core/feed"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

// Names under which assignment rows are attached to ad rows.
const (
	PlacementAssignmentsField = "placementAssignments"
	CreativeAssignmentsField  = "creativeAssignments"
	EventTagAssignmentsField  = "eventTagAssignments"
)

const defaultAdType = "AD_SERVING_DEFAULT_AD"

type adStrategy struct{}

func (adStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       Ads,
		Label:      "Ad",
		Tables:     []string{TableAd, entity.QATable},
		Keys:       []string{FieldAdID},
		IDField:    FieldAdID,
		RemoteType: Ads,
		ListField:  "ads",
		References: []entity.Reference{{Table: TableCampaign, Field: FieldCampaignID}},
		Children: []entity.ChildRelationship{
			{Tables: []string{TableAdPlacement, entity.QATable}, ListField: PlacementAssignmentsField, JoinField: FieldAdID},
			{Tables: []string{TableAdCreative, entity.QATable}, ListField: CreativeAssignmentsField, JoinField: FieldAdID},
			{Tables: []string{TableAdEventTag}, ListField: EventTagAssignmentsField, JoinField: FieldAdID},
		},
		Columns: []string{
			FieldCampaignID, FieldCampaignName, FieldAdID, FieldAdName, FieldAdType, FieldAdActive,
			FieldAdArchived, FieldAdStartDate, FieldAdEndDate, FieldAdPriority, FieldHardCutoff,
			FieldCreativeRotation,
		},
	}
}

func (adStrategy) ProcessSearchOptions(job *entity.Job, opts remote.Options) bool {
	result := withCampaigns(job, opts)
	if len(job.PlacementIDs) > 0 {
		opts["placementIds"] = job.PlacementIDs
		result = true
	}
	if job.ActiveOnly {
		opts["active"] = true
	}
	return result
}

func (adStrategy) MapRow(ctx context.Context, env *entity.Env, ad remote.Entity) ([]map[string]any, error) {
	campaign, err := get(ctx, env, Campaigns, ad["campaignId"])
	if err != nil {
		return nil, err
	}

	row := map[string]any{
		FieldCampaignID:       ad["campaignId"],
		FieldAdActive:         ad["active"],
		FieldCreativeRotation: RotationOption(ad["creativeRotation"]),
		FieldAdArchived:       ad["archived"],
		FieldAdPriority:       nested(ad, "deliverySchedule", "priority"),
		FieldAdID:             ad["id"],
		FieldAdName:           ad["name"],
		FieldAdStartDate:      formatTime(ad["startTime"]),
		FieldAdEndDate:        formatTime(ad["endTime"]),
		FieldAdType:           ad["type"],
	}
	if campaign != nil {
		row[FieldCampaignID] = campaign["id"]
		row[FieldCampaignName] = campaign["name"]
	}
	if schedule, ok := ad["deliverySchedule"].(map[string]any); ok {
		row[FieldHardCutoff] = schedule["hardCutoff"]
	}
	return []map[string]any{row}, nil
}

func (adStrategy) PreProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	row[FieldAdStartDate] = entity.FormatDateTime(row[FieldAdStartDate])
	row[FieldAdEndDate] = entity.FormatDateTime(row[FieldAdEndDate])
	return nil
}

func (adStrategy) ProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	ad := job.Remote

	if v, ok := row[FieldAdActive]; ok {
		ad["active"] = entity.IsTrue(v)
	}
	ad["campaignId"] = row[FieldCampaignID]
	ad["archived"] = entity.IsTrue(row[FieldAdArchived])
	ad["startTime"] = row[FieldAdStartDate]
	ad["endTime"] = row[FieldAdEndDate]
	ad["name"] = row[FieldAdName]
	ad["type"] = row[FieldAdType]

	if utils.ToString(ad["type"]) != defaultAdType {
		schedule, ok := ad["deliverySchedule"].(map[string]any)
		if !ok {
			schedule = map[string]any{"impressionRatio": 1}
			ad["deliverySchedule"] = schedule
		}
		schedule["priority"] = row[FieldAdPriority]
		if v, ok := row[FieldHardCutoff]; ok && utils.ToString(v) != "" {
			schedule["hardCutoff"] = entity.IsTrue(v)
		}
	}

	rotation, err := Rotation(row[FieldCreativeRotation])
	if err != nil {
		return err
	}
	ad["creativeRotation"] = rotation

	if err := applyCreativeAssignments(ctx, env, job, rotation); err != nil {
		return err
	}
	if err := applyPlacementAssignments(ctx, env, job); err != nil {
		return err
	}
	return applyEventTagOverrides(ctx, env, job)
}

func applyCreativeAssignments(ctx context.Context, env *entity.Env, job *entity.PushJob, rotation remote.Entity) error {
	rows, ok := job.Row.Children[CreativeAssignmentsField]
	if !ok {
		return nil
	}

	assignments := make([]any, 0, len(rows))
	for _, r := range rows {
		if !utils.IsTruthy(r.Get(FieldCreativeID)) {
			continue
		}
		creativeID, err := env.ResolveID(ctx, job, TableCreative, FieldCreativeID, r.Get(FieldCreativeID))
		if err != nil {
			return err
		}
		r.Set(FieldCreativeID, creativeID)
		r.Set(FieldAssignmentStartDate, entity.FormatDateTime(r.Get(FieldAssignmentStartDate)))
		r.Set(FieldAssignmentEndDate, entity.FormatDateTime(r.Get(FieldAssignmentEndDate)))

		assignment := map[string]any{
			"active":     true,
			"creativeId": creativeID,
			"startTime":  r.Get(FieldAssignmentStartDate),
			"endTime":    r.Get(FieldAssignmentEndDate),
		}
		if w := r.Get(FieldCreativeRotationWeight); utils.IsTruthy(w) {
			assignment["weight"] = w
		}
		if s := r.Get(FieldCreativeRotationSequence); utils.IsTruthy(s) {
			assignment["sequence"] = s
		}

		clickThrough := map[string]any{}
		landingPage := r.Get(FieldLandingPageID)
		custom := r.Get(FieldCustomURL)
		switch {
		case utils.IsTruthy(landingPage):
			lpID, err := env.ResolveID(ctx, job, TableLandingPage, FieldLandingPageID, landingPage)
			if err != nil {
				return err
			}
			r.Set(FieldLandingPageID, lpID)
			clickThrough["defaultLandingPage"] = false
			clickThrough["landingPageId"] = lpID
		case utils.IsTruthy(custom):
			clickThrough["defaultLandingPage"] = false
			clickThrough["customClickThroughUrl"] = custom
		default:
			clickThrough["defaultLandingPage"] = true
		}
		assignment["clickThroughUrl"] = clickThrough

		assignments = append(assignments, assignment)
	}
	rotation["creativeAssignments"] = assignments
	return nil
}

func applyPlacementAssignments(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	rows, ok := job.Row.Children[PlacementAssignmentsField]
	if !ok {
		return nil
	}

	assignments := make([]any, 0, len(rows))
	for _, r := range rows {
		if !utils.IsTruthy(r.Get(FieldPlacementID)) {
			continue
		}
		placement, err := resolveAndGet(ctx, env, job, r, TablePlacement, FieldPlacementID, Placements)
		if err != nil {
			return err
		}
		assignments = append(assignments, map[string]any{
			"active":      true,
			"placementId": placement["id"],
		})
	}
	job.Remote["placementAssignments"] = assignments
	return nil
}

func applyEventTagOverrides(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	overrides := []any{}
	for _, r := range job.Row.Children[EventTagAssignmentsField] {
		tag, err := resolveAndGet(ctx, env, job, r, TableEventTag, FieldEventTagID, EventTags)
		if err != nil {
			return err
		}
		overrides = append(overrides, map[string]any{
			"enabled": entity.IsTrue(r.Get(FieldEnabled)),
			"id":      tag["id"],
		})
	}
	job.Remote["eventTagOverrides"] = overrides
	return nil
}

// resolveAndGet translates r[field] against table, fetches the entity and
// writes its concrete id back to the row.
func resolveAndGet(ctx context.Context, env *entity.Env, job *entity.PushJob, r *feed.Row, table, field, typ string) (remote.Entity, error) {
	id, err := env.ResolveID(ctx, job, table, field, r.Get(field))
	if err != nil {
		return nil, err
	}
	obj, err := env.Client.Get(ctx, typ, id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, &entity.ValidationError{Field: field, Value: r.Get(field)}
	}
	r.Set(field, obj["id"])
	return obj, nil
}

// PostProcessPush refreshes the names on the ad row and its assignments.
func (adStrategy) PostProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	ad := job.Remote
	adID := remote.ID(ad)

	campaignName, err := nameOf(ctx, env, Campaigns, ad["campaignId"])
	if err != nil {
		return err
	}
	job.Row.Set(FieldCampaignName, campaignName)

	for _, r := range job.Row.Children[CreativeAssignmentsField] {
		creativeName, err := nameOf(ctx, env, Creatives, r.Get(FieldCreativeID))
		if err != nil {
			return err
		}
		r.Set(FieldAdName, ad["name"])
		r.Set(FieldAdID, adID)
		r.Set(FieldCreativeName, creativeName)
		if lp := r.Get(FieldLandingPageID); utils.IsTruthy(lp) {
			lpName, err := nameOf(ctx, env, LandingPages, lp)
			if err != nil {
				return err
			}
			r.Set(FieldLandingPageName, lpName)
		}
	}

	for _, r := range job.Row.Children[PlacementAssignmentsField] {
		placement, err := get(ctx, env, Placements, r.Get(FieldPlacementID))
		if err != nil {
			return err
		}
		if placement != nil {
			r.Set(FieldPlacementName, placement["name"])
			r.Set(FieldPlacementID, placement["id"])
		}
		r.Set(FieldAdID, adID)
		r.Set(FieldAdName, job.Row.Get(FieldAdName))
	}

	for _, r := range job.Row.Children[EventTagAssignmentsField] {
		tag, err := get(ctx, env, EventTags, r.Get(FieldEventTagID))
		if err != nil {
			return err
		}
		if tag != nil {
			r.Set(FieldEventTagID, tag["id"])
			r.Set(FieldEventTagName, tag["name"])
		}
		r.Set(FieldAdID, adID)
		r.Set(FieldAdName, ad["name"])
	}
	return nil
}

// formatTime renders a remote timestamp in the workbook date-time layout.
func formatTime(v any) any {
	if ts, ok := entity.ParseTime(v); ok {
		return entity.FormatDateTime(ts)
	}
	return v
}
