package bulk

import (
	"context"
	"testing"

	"bulkdozer/core/hierarchy"
	"bulkdozer/core/remote"
	"bulkdozer/core/storage/mocks"
	"bulkdozer/feature/cm"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHierarchy(t *testing.T) {
	f := newFixture(t,
		map[string][]string{cm.TableCampaign: campaignHeader},
		map[string][]map[string]any{cm.TableCampaign: {{cm.FieldCampaignID: "1"}, {cm.FieldCampaignID: "ext-new"}}})
	f.remote.
		Seed(cm.Campaigns, remote.Entity{"id": "1", "name": "Launch", "defaultLandingPageId": "5"}).
		Seed(cm.PlacementGroups, remote.Entity{"id": "10", "campaignId": "1"}).
		Seed(cm.Placements,
			remote.Entity{"id": "20", "campaignId": "1", "placementGroupId": "10"},
			remote.Entity{"id": "21", "campaignId": "1"}).
		Seed(cm.Ads,
			remote.Entity{"id": "30", "campaignId": "1", "placementAssignments": []any{map[string]any{"placementId": "20"}}},
			remote.Entity{"id": "31", "campaignId": "1", "placementAssignments": []any{map[string]any{"placementId": "99"}}}).
		Seed(cm.LandingPages, remote.Entity{"id": "5", "campaignId": "1"})

	tree, err := f.svc.Hierarchy(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tree.Campaigns, 1)

	c := tree.Campaigns[0]
	require.Len(t, c.PlacementGroups, 1)
	require.Len(t, c.PlacementGroups[0].Placements, 1)
	assert.Len(t, c.PlacementGroups[0].Placements[0].Ads, 1)
	require.Len(t, c.Placements, 1)
	assert.Equal(t, "21", remote.ID(c.Placements[0].Entity))

	require.Len(t, tree.Orphans, 1)
	assert.Equal(t, hierarchy.Orphan{Kind: "ad", ID: "31", ParentKind: "placement", ParentID: "99"}, tree.Orphans[0])
}

func TestHierarchyWithoutCampaigns(t *testing.T) {
	f := newFixture(t, nil, nil)

	tree, err := f.svc.Hierarchy(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tree.Campaigns)
	assert.Empty(t, f.remote.Calls)
}

func TestExportHierarchy(t *testing.T) {
	ctx := context.Background()
	fixedTimestamp(t, "20240501T103000.000Z")

	m := new(mocks.Client)
	m.On("PutObject", ctx, "test-bucket", "exports/hierarchy/20240501T103000.000Z.json", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	f := newFixture(t, nil, nil, withStorage(m))

	name, err := f.svc.ExportHierarchy(ctx, &hierarchy.Tree{})
	require.NoError(t, err)
	assert.Equal(t, "exports/hierarchy/20240501T103000.000Z.json", name)
	m.AssertExpectations(t)
}
