package cm

import (
	"context"
	"testing"

	"bulkdozer/core/entity"
	"bulkdozer/core/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveView(t *testing.T) {
	tests := []struct {
		value   string
		adapter string
		optOut  bool
	}{
		{ActiveViewOn, "HTML5", false},
		{ActiveViewOff, "DEFAULT", true},
		{ActiveViewDecide, "DEFAULT", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			p := remote.Entity{}
			require.NoError(t, ApplyActiveView(p, tt.value))
			assert.Equal(t, tt.adapter, p["vpaidAdapterChoice"])
			assert.Equal(t, tt.optOut, p["videoActiveViewOptOut"])
			assert.Equal(t, tt.value, ActiveView(p))
		})
	}
}

func TestActiveViewInvalid(t *testing.T) {
	err := ApplyActiveView(remote.Entity{}, "SOMETIMES")
	var verr *entity.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "SOMETIMES is not a valid value for the placement Active View and Verification field", err.Error())
}

func TestApplySizes(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.svc.Seed("Sizes", remote.Entity{"id": "7", "width": 300, "height": 250})

	tests := []struct {
		name       string
		text       string
		size       any
		additional []any
	}{
		{
			name:       "KnownAndUnknown",
			text:       "300x250, 728x90",
			size:       map[string]any{"id": "7"},
			additional: []any{map[string]any{"width": 728, "height": 90}},
		},
		{
			name:       "Empty",
			text:       "",
			size:       map[string]any{"width": 1, "height": 1},
			additional: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := remote.Entity{}
			require.NoError(t, applySizes(context.Background(), f.env, p, tt.text))
			assert.Equal(t, tt.size, p["size"])
			assert.Equal(t, tt.additional, p["additionalSizes"])
		})
	}
}

func TestSizeText(t *testing.T) {
	p := remote.Entity{
		"size":            map[string]any{"width": float64(300), "height": float64(250)},
		"additionalSizes": []any{map[string]any{"width": float64(728), "height": float64(90)}},
	}
	assert.Equal(t, "300x250, 728x90", SizeText(p))
	assert.Equal(t, "", SizeText(remote.Entity{}))
}

func TestPricingNanos(t *testing.T) {
	assert.Equal(t, int64(1500000000), RateToNanos("1.5"))
	assert.Equal(t, int64(0), RateToNanos(""))
	assert.InDelta(t, 2.5, NanosToRate(float64(2500000000)), 1e-9)
}

func TestPlacementPushPricingSchedule(t *testing.T) {
	f := newFixture(t, map[string][]string{
		TablePlacement: {
			FieldCampaignID, FieldPlacementID, FieldPlacementName, FieldSiteID, FieldPlacementType,
			FieldAssetSize, FieldPlacementStartDate, FieldPlacementEndDate, FieldActiveView,
		},
		TablePricingSchedule: {
			FieldPlacementID, FieldPricingPeriodStart, FieldPricingPeriodEnd,
			FieldPricingPeriodRate, FieldPricingPeriodUnits,
		},
	}, map[string][]map[string]any{
		TablePlacement: {{
			FieldCampaignID:         "10",
			FieldPlacementID:        "ext-p",
			FieldPlacementName:      "Homepage",
			FieldSiteID:             "5",
			FieldPlacementType:      "VIDEO",
			FieldPlacementStartDate: "2024-01-01",
			FieldPlacementEndDate:   "2024-03-31",
			FieldActiveView:         ActiveViewOn,
		}},
		TablePricingSchedule: {{
			FieldPlacementID:        "ext-p",
			FieldPricingPeriodStart: "2024-01-01",
			FieldPricingPeriodEnd:   "2024-03-31",
			FieldPricingPeriodRate:  "2.25",
			FieldPricingPeriodUnits: "1000",
		}},
	})
	f.svc.Seed(Campaigns, remote.Entity{"id": "10", "name": "Spring"})
	f.svc.Seed(sitesType, remote.Entity{"id": "5", "name": "Publisher"})

	jobs := f.push(t, Placements, nil)
	require.Len(t, jobs, 1)
	require.Equal(t, entity.StateDone, jobs[0].State, jobs[0].Logs)

	stored := f.svc.All(Placements)
	require.Len(t, stored, 1)
	p := stored[0]
	assert.Equal(t, "IN_STREAM_VIDEO", p["compatibility"])
	assert.Equal(t, "HTML5", p["vpaidAdapterChoice"])

	schedule := p["pricingSchedule"].(map[string]any)
	assert.Equal(t, "PRICING_TYPE_CPM", schedule["pricingType"])
	periods := list(schedule["pricingPeriods"])
	require.Len(t, periods, 1)
	assert.Equal(t, float64(2250000000), periods[0]["rateOrCostNanos"])
	assert.Equal(t, "2024-01-01", periods[0]["startDate"])

	pricing := f.rows(t, TablePricingSchedule)
	require.Len(t, pricing, 1)
	assert.Equal(t, remote.ID(p), pricing[0][FieldPlacementID])
}
