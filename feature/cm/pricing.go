package cm

import (
	"context"
	"fmt"
	"math"

	"bulkdozer/core/entity"
	"bulkdozer/core/feed"
	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

const nanos = 1e9

// applyPricingSchedule builds the pricing schedule of a placement. Attached
// pricing rows replace the periods; without rows or existing periods a
// single period spanning the placement dates is created.
func applyPricingSchedule(job *entity.PushJob) {
	row := job.Row.Data
	schedule := child(job.Remote, "pricingSchedule")

	schedule["startDate"] = entity.FormatDate(row[FieldPlacementStartDate])
	schedule["endDate"] = entity.FormatDate(row[FieldPlacementEndDate])
	entity.Assign(schedule, "pricingType", row, FieldPricingScheduleCost, false, "PRICING_TYPE_CPM")

	rows, attached := job.Row.Children[PricingScheduleField]
	switch {
	case attached:
		periods := make([]any, 0, len(rows))
		for _, r := range rows {
			periods = append(periods, map[string]any{
				"startDate":       entity.FormatDate(r.Get(FieldPricingPeriodStart)),
				"endDate":         entity.FormatDate(r.Get(FieldPricingPeriodEnd)),
				"rateOrCostNanos": RateToNanos(r.Get(FieldPricingPeriodRate)),
				"units":           r.Get(FieldPricingPeriodUnits),
			})
		}
		schedule["pricingPeriods"] = periods
	case schedule["pricingPeriods"] == nil:
		schedule["pricingPeriods"] = []any{map[string]any{
			"startDate": schedule["startDate"],
			"endDate":   schedule["endDate"],
		}}
	}
}

// RateToNanos converts a rate to nanos, truncating toward negative infinity.
func RateToNanos(rate any) int64 {
	return int64(math.Floor(utils.ToFloat(rate) * nanos))
}

// NanosToRate converts nanos to a rate.
func NanosToRate(v any) float64 {
	return utils.ToFloat(v) / nanos
}

// PricingPeriodRows renders the pricing periods of placement as rows of the
// pricing schedule table. It returns nil when the placement has none.
func PricingPeriodRows(placement remote.Entity) []*feed.Row {
	data := pricingPeriodData(placement)
	if data == nil {
		return nil
	}
	rows := make([]*feed.Row, len(data))
	for i, d := range data {
		rows[i] = feed.NewRow(d)
	}
	return rows
}

func pricingPeriodData(placement remote.Entity) []map[string]any {
	raw, ok := nested(placement, "pricingSchedule", "pricingPeriods").([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, p := range list(raw) {
		out = append(out, map[string]any{
			FieldPlacementName:      placement["name"],
			FieldPlacementID:        placement["id"],
			FieldPricingPeriodStart: p["startDate"],
			FieldPricingPeriodEnd:   p["endDate"],
			FieldPricingPeriodRate:  NanosToRate(p["rateOrCostNanos"]),
			FieldPricingPeriodUnits: p["units"],
		})
	}
	return out
}

type pricingScheduleStrategy struct{}

func (pricingScheduleStrategy) Descriptor() entity.Descriptor {
	return entity.Descriptor{
		Name:       PricingSchedules,
		Label:      "Placement Pricing Schedule",
		Tables:     []string{TablePricingSchedule},
		IDField:    FieldPlacementID,
		RemoteType: Placements,
		ListField:  "placements",
		Columns: []string{
			FieldPlacementID, FieldPlacementName, FieldPricingPeriodStart,
			FieldPricingPeriodEnd, FieldPricingPeriodRate, FieldPricingPeriodUnits,
		},
	}
}

func (pricingScheduleStrategy) MapRow(_ context.Context, _ *entity.Env, placement remote.Entity) ([]map[string]any, error) {
	return pricingPeriodData(placement), nil
}

func (pricingScheduleStrategy) ProcessPush(context.Context, *entity.Env, *entity.PushJob) error {
	return fmt.Errorf("%w: pricing periods are pushed with their placement", entity.ErrPushNotSupported)
}
