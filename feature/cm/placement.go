package cm

import (
	"context"
	"fmt"
	"strings"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

// PricingScheduleField is the name under which pricing period rows are
// attached to placement rows.
const PricingScheduleField = "pricingSchedule"

type placementStrategy struct{}

func (placementStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       Placements,
		Label:      "Placement",
		Tables:     []string{TablePlacement, entity.QATable},
		Keys:       []string{FieldPlacementID},
		IDField:    FieldPlacementID,
		RemoteType: Placements,
		ListField:  "placements",
		References: []entity.Reference{
			{Table: TableCampaign, Field: FieldCampaignID},
			{Table: TablePlacementGroup, Field: FieldPlacementGroupID},
		},
		Children: []entity.ChildRelationship{
			{Tables: []string{TablePricingSchedule}, ListField: PricingScheduleField, JoinField: FieldPlacementID},
		},
		Columns: []string{
			FieldCampaignID, FieldCampaignName, FieldSiteID, FieldSiteName,
			FieldPlacementGroupID, FieldPlacementGroupName, FieldPlacementID, FieldPlacementName,
			FieldPlacementType, FieldAssetSize, FieldPlacementStartDate, FieldPlacementEndDate,
			FieldPricingScheduleCost, FieldPricingScheduleTestingStart, FieldActiveView, FieldAdBlocking,
			FieldArchived, FieldPlacementAdditionalKeyValues, FieldSkippable, FieldSkipOffsetSeconds,
			FieldSkipOffsetPercentage, FieldProgressOffsetSeconds, FieldProgressOffsetPercentage,
		},
	}
}

func (placementStrategy) ProcessSearchOptions(job *entity.Job, opts remote.Options) bool {
	result := withCampaigns(job, opts)
	if len(job.PlacementGroupIDs) > 0 {
		opts["groupIds"] = job.PlacementGroupIDs
		result = true
	}
	return result
}

func (placementStrategy) MapRow(ctx context.Context, env *entity.Env, placement remote.Entity) ([]map[string]any, error) {
	campaign, err := get(ctx, env, Campaigns, placement["campaignId"])
	if err != nil {
		return nil, err
	}
	site, err := get(ctx, env, sitesType, placement["siteId"])
	if err != nil {
		return nil, err
	}
	group, err := get(ctx, env, PlacementGroups, placement["placementGroupId"])
	if err != nil {
		return nil, err
	}

	row := map[string]any{
		FieldPlacementID:                 placement["id"],
		FieldPlacementName:               placement["name"],
		FieldArchived:                    placement["archived"],
		FieldActiveView:                  ActiveView(placement),
		FieldAdBlocking:                  placement["adBlockingOptOut"],
		FieldSiteID:                      placement["siteId"],
		FieldCampaignID:                  placement["campaignId"],
		FieldPlacementStartDate:          nested(placement, "pricingSchedule", "startDate"),
		FieldPlacementEndDate:            nested(placement, "pricingSchedule", "endDate"),
		FieldPricingScheduleCost:         nested(placement, "pricingSchedule", "pricingType"),
		FieldPricingScheduleTestingStart: nested(placement, "pricingSchedule", "testingStartDate"),
		FieldPlacementType:               placement["compatibility"],
	}
	if site != nil {
		row[FieldSiteID] = site["id"]
		row[FieldSiteName] = site["name"]
	}
	if campaign != nil {
		row[FieldCampaignID] = campaign["id"]
		row[FieldCampaignName] = campaign["name"]
	}
	if tag, ok := placement["tagSetting"].(map[string]any); ok {
		row[FieldPlacementAdditionalKeyValues] = tag["additionalKeyValues"]
	}
	if skip, ok := nested(placement, "videoSettings", "skippableSettings").(map[string]any); ok {
		row[FieldSkippable] = skip["skippable"]
		row[FieldSkipOffsetSeconds] = nested(skip, "skipOffset", "offsetSeconds")
		row[FieldSkipOffsetPercentage] = nested(skip, "skipOffset", "offsetPercentage")
		row[FieldProgressOffsetSeconds] = nested(skip, "progressOffset", "offsetSeconds")
		row[FieldProgressOffsetPercentage] = nested(skip, "progressOffset", "offsetPercentage")
	}
	if group != nil {
		row[FieldPlacementGroupID] = group["id"]
		row[FieldPlacementGroupName] = group["name"]
	}
	if sizes := SizeText(placement); sizes != "" {
		row[FieldAssetSize] = sizes
	}
	return []map[string]any{row}, nil
}

func (placementStrategy) PreProcessPush(_ context.Context, _ *entity.Env, job *entity.PushJob) error {
	formatDates(job.Row.Data, FieldPlacementStartDate, FieldPlacementEndDate)
	return nil
}

func (placementStrategy) ProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	row := job.Row.Data
	placement := job.Remote

	entity.Assign(placement, "name", row, FieldPlacementName, true, nil)
	placement["archived"] = entity.IsTrue(row[FieldArchived])
	placement["adBlockingOptOut"] = entity.IsTrue(row[FieldAdBlocking])
	entity.Assign(placement, "siteId", row, FieldSiteID, true, nil)
	entity.Assign(placement, "placementGroupId", row, FieldPlacementGroupID, false, nil)
	entity.Assign(placement, "campaignId", row, FieldCampaignID, true, nil)
	entity.Assign(child(placement, "tagSetting"), "additionalKeyValues", row, FieldPlacementAdditionalKeyValues, false, nil)
	placement["paymentSource"] = "PLACEMENT_AGENCY_PAID"

	if err := ApplyActiveView(placement, row[FieldActiveView]); err != nil {
		return err
	}
	applyPricingSchedule(job)
	if err := applyCompatibility(ctx, env, placement, row); err != nil {
		return err
	}
	applySkippability(placement, row)
	return nil
}

func (placementStrategy) PostProcessPush(ctx context.Context, env *entity.Env, job *entity.PushJob) error {
	row := job.Row
	if utils.IsTruthy(row.Get(FieldPlacementGroupID)) {
		name, err := nameOf(ctx, env, PlacementGroups, row.Get(FieldPlacementGroupID))
		if err != nil {
			return err
		}
		row.Set(FieldPlacementGroupName, name)
	}
	siteName, err := nameOf(ctx, env, sitesType, row.Get(FieldSiteID))
	if err != nil {
		return err
	}
	campaignName, err := nameOf(ctx, env, Campaigns, row.Get(FieldCampaignID))
	if err != nil {
		return err
	}
	row.Set(FieldSiteName, siteName)
	row.Set(FieldCampaignName, campaignName)

	if periods := PricingPeriodRows(job.Remote); periods != nil {
		row.SetChildren(PricingScheduleField, periods)
	}
	return nil
}

// Active view settings.
const (
	ActiveViewOn     = "ON"
	ActiveViewOff    = "OFF"
	ActiveViewDecide = "LET_DCM_DECIDE"
)

// ActiveView derives the active view setting of a placement.
func ActiveView(placement remote.Entity) string {
	choice := utils.ToString(placement["vpaidAdapterChoice"])
	optOut := utils.IsTruthy(placement["videoActiveViewOptOut"])
	switch {
	case choice == "HTML5" && !optOut:
		return ActiveViewOn
	case choice == "DEFAULT" && optOut:
		return ActiveViewOff
	default:
		return ActiveViewDecide
	}
}

// ApplyActiveView writes the adapter choice and opt out matching value.
func ApplyActiveView(placement remote.Entity, value any) error {
	switch v := utils.ToString(value); v {
	case ActiveViewOn:
		placement["vpaidAdapterChoice"] = "HTML5"
		placement["videoActiveViewOptOut"] = false
	case ActiveViewOff:
		placement["vpaidAdapterChoice"] = "DEFAULT"
		placement["videoActiveViewOptOut"] = true
	case ActiveViewDecide, "":
		placement["vpaidAdapterChoice"] = "DEFAULT"
		placement["videoActiveViewOptOut"] = false
	default:
		return &entity.ValidationError{
			Field:  FieldActiveView,
			Value:  v,
			Reason: fmt.Sprintf("%s is not a valid value for the placement %s field", v, FieldActiveView),
		}
	}
	return nil
}

// SizeText renders the size and additional sizes as "WxH, WxH".
func SizeText(placement remote.Entity) string {
	size, ok := placement["size"].(map[string]any)
	if !ok {
		return ""
	}
	sizes := []string{dimensions(size)}
	for _, s := range list(placement["additionalSizes"]) {
		sizes = append(sizes, dimensions(s))
	}
	return strings.Join(sizes, ", ")
}

func dimensions(size map[string]any) string {
	return utils.ToString(size["width"]) + "x" + utils.ToString(size["height"])
}

// displayTagFormats are the tag formats of display placements.
var displayTagFormats = []any{
	"PLACEMENT_TAG_STANDARD", "PLACEMENT_TAG_JAVASCRIPT",
	"PLACEMENT_TAG_IFRAME_JAVASCRIPT", "PLACEMENT_TAG_IFRAME_ILAYER",
	"PLACEMENT_TAG_INTERNAL_REDIRECT", "PLACEMENT_TAG_TRACKING",
	"PLACEMENT_TAG_TRACKING_IFRAME", "PLACEMENT_TAG_TRACKING_JAVASCRIPT",
}

func applyCompatibility(ctx context.Context, env *entity.Env, placement remote.Entity, row map[string]any) error {
	switch utils.ToString(row[FieldPlacementType]) {
	case "VIDEO", "IN_STREAM_VIDEO":
		placement["compatibility"] = "IN_STREAM_VIDEO"
		placement["size"] = map[string]any{"width": "0", "height": "0"}
		placement["tagFormats"] = []any{"PLACEMENT_TAG_INSTREAM_VIDEO_PREFETCH"}
		return nil
	}

	placement["compatibility"] = "DISPLAY"
	if err := applySizes(ctx, env, placement, utils.ToString(row[FieldAssetSize])); err != nil {
		return err
	}
	placement["tagFormats"] = append([]any(nil), displayTagFormats...)
	return nil
}

// applySizes resolves each "WxH" entry to a known size id when the remote
// has one, and to raw dimensions otherwise. Entries without an "x" are 1x1.
func applySizes(ctx context.Context, env *entity.Env, placement remote.Entity, text string) error {
	var resolved []any
	for _, raw := range strings.Split(text, ",") {
		width, height := 1, 1
		if lower := strings.ToLower(strings.TrimSpace(raw)); strings.Contains(lower, "x") {
			parts := strings.SplitN(lower, "x", 2)
			width = utils.ToInt(parts[0])
			height = utils.ToInt(parts[1])
		}

		sizes, err := env.Client.GetSize(ctx, width, height)
		if err != nil {
			return err
		}
		var match map[string]any
		for _, s := range sizes {
			if utils.ToInt(s["width"]) == width && utils.ToInt(s["height"]) == height {
				match = map[string]any{"id": s["id"]}
				break
			}
		}
		if match == nil {
			match = map[string]any{"width": width, "height": height}
		}
		resolved = append(resolved, match)
	}

	placement["size"] = resolved[0]
	placement["additionalSizes"] = append([]any{}, resolved[1:]...)
	return nil
}

func applySkippability(placement remote.Entity, row map[string]any) {
	if !entity.IsTrue(row[FieldSkippable]) {
		if video, ok := placement["videoSettings"].(map[string]any); ok {
			delete(video, "skippableSettings")
		}
		return
	}

	skipOffset := map[string]any{}
	progressOffset := map[string]any{}
	entity.Assign(skipOffset, "offsetSeconds", row, FieldSkipOffsetSeconds, false, nil)
	entity.Assign(skipOffset, "offsetPercentage", row, FieldSkipOffsetPercentage, false, nil)
	entity.Assign(progressOffset, "offsetSeconds", row, FieldProgressOffsetSeconds, false, nil)
	entity.Assign(progressOffset, "offsetPercentage", row, FieldProgressOffsetPercentage, false, nil)

	child(placement, "videoSettings")["skippableSettings"] = map[string]any{
		"skippable":      true,
		"skipOffset":     skipOffset,
		"progressOffset": progressOffset,
	}
}
