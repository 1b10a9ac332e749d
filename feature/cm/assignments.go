package cm

import (
	"context"
	"fmt"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"
)

func pushedWithAd(label string) error {
	return fmt.Errorf("%w: %s rows are pushed with their ad", entity.ErrPushNotSupported, label)
}

type adPlacementStrategy struct{}

func (adPlacementStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       AdPlacementAssignments,
		Label:      "Ad Placement Assignment",
		Tables:     []string{TableAdPlacement, entity.QATable},
		Keys:       []string{FieldAdID, FieldPlacementID},
		IDField:    FieldAdID,
		RemoteType: Ads,
		ListField:  "ads",
		Columns:    []string{FieldAdID, FieldAdName, FieldPlacementID, FieldPlacementName},
	}
}

func (adPlacementStrategy) MapRow(ctx context.Context, env *entity.Env, ad remote.Entity) ([]map[string]any, error) {
	var rows []map[string]any
	for _, a := range list(ad["placementAssignments"]) {
		placement, err := get(ctx, env, Placements, a["placementId"])
		if err != nil {
			return nil, err
		}
		row := map[string]any{
			FieldAdID:        ad["id"],
			FieldAdName:      ad["name"],
			FieldPlacementID: a["placementId"],
		}
		if placement != nil {
			row[FieldPlacementID] = placement["id"]
			row[FieldPlacementName] = placement["name"]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (adPlacementStrategy) ProcessPush(context.Context, *entity.Env, *entity.PushJob) error {
	return pushedWithAd("placement assignment")
}

type adCreativeStrategy struct{}

func (adCreativeStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       AdCreativeAssignments,
		Label:      "Ad Creative Assignment",
		Tables:     []string{TableAdCreative, entity.QATable},
		Keys:       []string{FieldAdID, FieldCreativeID},
		IDField:    FieldAdID,
		RemoteType: Ads,
		ListField:  "ads",
		Columns: []string{
			FieldAdID, FieldAdName, FieldCreativeID, FieldCreativeName,
			FieldCreativeRotationWeight, FieldCreativeRotationSequence, FieldLandingPageID,
			FieldLandingPageName, FieldCustomURL, FieldAssignmentStartDate, FieldAssignmentEndDate,
		},
	}
}

func (adCreativeStrategy) MapRow(ctx context.Context, env *entity.Env, ad remote.Entity) ([]map[string]any, error) {
	var rows []map[string]any
	for _, a := range list(nested(ad, "creativeRotation", "creativeAssignments")) {
		creative, err := get(ctx, env, Creatives, a["creativeId"])
		if err != nil {
			return nil, err
		}
		row := map[string]any{
			FieldAdID:                     ad["id"],
			FieldAdName:                   ad["name"],
			FieldCreativeID:               a["creativeId"],
			FieldCreativeRotationWeight:   a["weight"],
			FieldCreativeRotationSequence: a["sequence"],
			FieldLandingPageID:            nested(a, "clickThroughUrl", "landingPageId"),
			FieldCustomURL:                nested(a, "clickThroughUrl", "customClickThroughUrl"),
		}
		if creative != nil {
			row[FieldCreativeID] = creative["id"]
			row[FieldCreativeName] = creative["name"]
		}
		if a["startTime"] != nil {
			row[FieldAssignmentStartDate] = formatTime(a["startTime"])
		}
		if a["endTime"] != nil {
			row[FieldAssignmentEndDate] = formatTime(a["endTime"])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (adCreativeStrategy) ProcessPush(context.Context, *entity.Env, *entity.PushJob) error {
	return pushedWithAd("creative assignment")
}

type adEventTagStrategy struct{}

func (adEventTagStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       AdEventTagAssignments,
		Label:      "Ad Event Tag Assignment",
		Tables:     []string{TableAdEventTag},
		IDField:    FieldAdID,
		RemoteType: Ads,
		ListField:  "ads",
		Columns:    []string{FieldEventTagID, FieldEventTagName, FieldAdID, FieldAdName, FieldEnabled},
	}
}

func (adEventTagStrategy) MapRow(ctx context.Context, env *entity.Env, ad remote.Entity) ([]map[string]any, error) {
	var rows []map[string]any
	for _, o := range list(ad["eventTagOverrides"]) {
		tag, err := get(ctx, env, EventTags, o["id"])
		if err != nil {
			return nil, err
		}
		row := map[string]any{
			FieldEventTagID: o["id"],
			FieldAdID:       ad["id"],
			FieldAdName:     ad["name"],
			FieldEnabled:    o["enabled"],
		}
		if tag != nil {
			row[FieldEventTagName] = tag["name"]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (adEventTagStrategy) ProcessPush(context.Context, *entity.Env, *entity.PushJob) error {
	return pushedWithAd("event tag assignment")
}
