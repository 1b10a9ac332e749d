package bulk

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bulkdozer/core/remote"
	"bulkdozer/feature/cm"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, f *fixture) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHandler(f.svc).RegisterRoutes(app)
	return app
}

func decode(t *testing.T, r io.Reader, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r).Decode(v))
}

func TestHandleInitializeJob(t *testing.T) {
	app := setupTestApp(t, newFixture(t, nil, nil))

	for want := 1; want <= 2; want++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/bulk/jobs", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]int64
		decode(t, resp.Body, &body)
		assert.Equal(t, int64(want), body["generation"])
	}
}

func TestHandleIDMap(t *testing.T) {
	f := newFixture(t, nil, nil)
	app := setupTestApp(t, f)

	req := httptest.NewRequest("PUT", "/bulk/idmap", strings.NewReader(`{"Campaign":{"ext1":"1","1":"ext1"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/bulk/idmap", nil))
	require.NoError(t, err)
	var data map[string]map[string]string
	decode(t, resp.Body, &data)
	assert.Equal(t, "1", data["Campaign"]["ext1"])

	resp, err = app.Test(httptest.NewRequest("DELETE", "/bulk/idmap", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/bulk/idmap", nil))
	require.NoError(t, err)
	data = nil
	decode(t, resp.Body, &data)
	assert.Empty(t, data)
}

func TestHandleEntityRoutes(t *testing.T) {
	f := newFixture(t,
		map[string][]string{cm.TableCampaign: campaignHeader},
		map[string][]map[string]any{cm.TableCampaign: {{cm.FieldCampaignID: "1"}, {cm.FieldCampaignID: "ext2"}}})
	f.remote.Seed(cm.Campaigns, remote.Entity{"id": "7", "name": "Seven"})
	app := setupTestApp(t, f)

	resp, err := app.Test(httptest.NewRequest("POST", "/bulk/entities/Campaigns/identify", nil))
	require.NoError(t, err)
	var job map[string]any
	decode(t, resp.Body, &job)
	assert.Equal(t, []any{"1"}, job["idsToLoad"])

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"Identify", "/bulk/entities/Campaigns/identify", "", 200},
		{"Fetch", "/bulk/entities/Campaigns/fetch", `{"idsToLoad":["7"]}`, 200},
		{"Load", "/bulk/entities/Campaigns/load", `{"idsToLoad":["7"]}`, 200},
		{"UnknownEntity", "/bulk/entities/Nope/identify", "", 404},
		{"BadBody", "/bulk/entities/Campaigns/load", `{"idsToLoad":`, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}

	rows := f.rows(t, cm.TableCampaign)
	require.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0][cm.FieldCampaignID])
}

func TestHandlePushEntityFailure(t *testing.T) {
	f := newFixture(t,
		map[string][]string{cm.TableLandingPage: landingPageHeader},
		map[string][]map[string]any{cm.TableLandingPage: {landingPage("ext-a", "A")}})
	f.remote.Fail("insert", &remote.Error{Op: "insert", StatusCode: 400, Message: "bad"})
	app := setupTestApp(t, f)

	resp, err := app.Test(httptest.NewRequest("POST", "/bulk/entities/"+cm.LandingPages+"/push", nil))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)

	var body map[string]any
	decode(t, resp.Body, &body)
	assert.Equal(t, float64(1), body["failed"])
}

func TestHandlePushDryRun(t *testing.T) {
	f := newFixture(t,
		map[string][]string{cm.TableLandingPage: landingPageHeader},
		map[string][]map[string]any{cm.TableLandingPage: {landingPage("ext-a", "A")}})
	app := setupTestApp(t, f)

	resp, err := app.Test(httptest.NewRequest("POST", "/bulk/push?dry_run=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var r Report
	decode(t, resp.Body, &r)
	assert.Equal(t, 1, report(t, &r, cm.LandingPages).Items)
	assert.Zero(t, f.remote.Count("insert", cm.LandingPages))
}

func TestHandleBackupWithoutStorage(t *testing.T) {
	app := setupTestApp(t, newFixture(t, nil, nil))

	resp, err := app.Test(httptest.NewRequest("POST", "/bulk/idmap/backup", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(Deps{})
	assert.Equal(t, "bulk", feature.Name())
	assert.False(t, feature.IsEnabled())

	f := newFixture(t, nil, nil)
	feature = NewFeature(Deps{Remote: f.remote, Store: f.store})
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
	assert.NotNil(t, feature.Service())
}
