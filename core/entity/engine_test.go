package entity

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"bulkdozer/core/idstore"
	"bulkdozer/core/remote"
	"bulkdozer/core/remote/remotetest"
	"bulkdozer/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type parentStrategy struct {
	failWith error
}

func (*parentStrategy) Descriptor() Descriptor {
	return Descriptor{
		Name:       "Parents",
		Label:      "Parent",
		Tables:     []string{"Parent", QATable},
		Keys:       []string{"Parent ID"},
		IDField:    "Parent ID",
		RemoteType: "Parents",
		ListField:  "parents",
		References: []Reference{{Table: "Other", Field: "Other ID"}},
		Children:   []ChildRelationship{{Tables: []string{"Child"}, ListField: "children", JoinField: "Parent ID"}},
		Columns:    []string{"Parent ID", "Name", "Other ID"},
	}
}

func (*parentStrategy) MapRow(_ context.Context, _ *Env, item remote.Entity) ([]map[string]any, error) {
	return []map[string]any{{"Parent ID": item["id"], "Name": item["name"]}}, nil
}

func (*parentStrategy) ProcessSearchOptions(job *Job, opts remote.Options) bool {
	if len(job.CampaignIDs) == 0 {
		return false
	}
	opts["campaignIds"] = job.CampaignIDs
	return true
}

func (s *parentStrategy) ProcessPush(_ context.Context, _ *Env, job *PushJob) error {
	if s.failWith != nil {
		return s.failWith
	}
	Assign(job.Remote, "name", job.Row.Data, "Name", true, "unnamed")
	Assign(job.Remote, "otherId", job.Row.Data, "Other ID", false, nil)
	job.Remote["childCount"] = len(job.Row.Children["children"])
	return nil
}

type otherStrategy struct{}

func (otherStrategy) Descriptor() Descriptor {
	return Descriptor{
		Name:       "Others",
		Label:      "Other",
		Tables:     []string{"Other"},
		Keys:       []string{"Other ID"},
		IDField:    "Other ID",
		RemoteType: "Others",
		ListField:  "others",
	}
}

func (otherStrategy) ProcessPush(_ context.Context, _ *Env, job *PushJob) error {
	Assign(job.Remote, "name", job.Row.Data, "Name", true, nil)
	return nil
}

type fixture struct {
	svc    *remotetest.Service
	store  *tabular.Memory
	env    *Env
	engine *Engine
	parent *parentStrategy
}

func newFixture(headers map[string][]string, rows map[string][]map[string]any) *fixture {
	svc := remotetest.New()
	store := tabular.NewMemoryWith(headers, rows)
	env := &Env{
		Client: remote.NewClient(svc, remote.WithRetryPolicy(remote.RetryPolicy{})),
		IDs:    idstore.New(store, ""),
		Store:  store,
		Logger: zap.NewNop(),
	}
	parent := &parentStrategy{}
	return &fixture{
		svc:    svc,
		store:  store,
		env:    env,
		engine: NewEngine(env, NewRegistry(parent, otherStrategy{})),
		parent: parent,
	}
}

var parentHeader = map[string][]string{
	"Parent": {"Parent ID", "Name", "Other ID"},
	"Other":  {"Other ID", "Name"},
	"Child":  {"Parent ID", "Value"},
}

func messages(logs []LogEntry) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Message
	}
	return out
}

func TestEngine_IdentifyItemsToLoad(t *testing.T) {
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {
			{"Parent ID": float64(1)},
			{"Parent ID": "ext2"},
			{"Parent ID": "NULL"},
			{"Parent ID": " EXT3 "},
			{"Parent ID": "4", "Name": "x"},
			{"Parent ID": "4", "Name": "y"},
		},
	})

	job := NewJob("Parents")
	require.NoError(t, fx.engine.IdentifyItemsToLoad(context.Background(), job))
	assert.Equal(t, []string{"1", "4"}, job.IDsToLoad)
	assert.Contains(t, messages(job.Logs), "Identifying items to load: Parent")
}

func TestEngine_UnknownEntity(t *testing.T) {
	fx := newFixture(parentHeader, nil)
	err := fx.engine.Load(context.Background(), NewJob("Nope"))
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestEngine_FetchItemsToLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("NoFilterFetchesNothing", func(t *testing.T) {
		fx := newFixture(parentHeader, nil)
		fx.svc.Seed("Parents", remote.Entity{"id": "1"})

		items, err := fx.engine.FetchItemsToLoad(ctx, NewJob("Parents"))
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, fx.svc.Count("list", "Parents"))
	})

	t.Run("IdsOnlyAreChunked", func(t *testing.T) {
		fx := newFixture(parentHeader, nil)
		job := NewJob("Parents")
		for i := 1; i <= 600; i++ {
			id := strconv.Itoa(i)
			fx.svc.Seed("Parents", remote.Entity{"id": id})
			job.IDsToLoad = append(job.IDsToLoad, id)
		}

		items, err := fx.engine.FetchItemsToLoad(ctx, job)
		require.NoError(t, err)
		assert.Len(t, items, 600)
		assert.Equal(t, 2, fx.svc.Count("list", "Parents"))
	})

	t.Run("CascadeFilter", func(t *testing.T) {
		fx := newFixture(parentHeader, nil)
		fx.svc.Seed("Parents",
			remote.Entity{"id": "1", "campaignId": "10"},
			remote.Entity{"id": "2", "campaignId": "11"},
		)
		job := NewJob("Parents")
		job.CampaignIDs = []string{"10"}

		items, err := fx.engine.FetchItemsToLoad(ctx, job)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "1", remote.ID(items[0]))
	})
}

func TestEngine_Load(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {{"Parent ID": "1", "Name": "stale"}},
	})
	fx.svc.Seed("Parents",
		remote.Entity{"id": "1", "name": "one", "otherId": "7"},
		remote.Entity{"id": "2", "name": "two", "otherId": "7"},
	)
	fx.svc.Seed("Others", remote.Entity{"id": "7", "name": "seven"})

	job := NewJob("Parents")
	job.IDsToLoad = []string{"1", "2"}
	job.PreFetchConfigs = []PreFetchConfig{{Entity: "Others", ListField: "others", FilterName: "ids", FieldName: "otherId"}}

	require.NoError(t, fx.engine.Load(ctx, job))
	assert.Equal(t, []string{"1", "2"}, job.LoadedIDs)
	assert.Equal(t, 1, fx.svc.Count("list", "Others"))

	rows, err := fx.store.ReadRows(ctx, "Parent")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0]["Name"])
	assert.Equal(t, "two", rows[1]["Name"])
}

func TestEngine_LoadFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {{"Parent ID": "1", "Name": "kept"}},
	})
	fx.svc.Fail("list", &remote.Error{Op: "list", Type: "Parents", StatusCode: 403, Message: "forbidden"})

	job := NewJob("Parents")
	job.IDsToLoad = []string{"1"}
	require.Error(t, fx.engine.Load(ctx, job))

	rows, err := fx.store.ReadRows(ctx, "Parent")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0]["Name"])
}

func TestEngine_LoadCreatesMissingTable(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(map[string][]string{}, nil)
	fx.svc.Seed("Parents", remote.Entity{"id": "1", "name": "one"})

	job := NewJob("Parents")
	job.IDsToLoad = []string{"1"}
	require.NoError(t, fx.engine.Load(ctx, job))

	header, err := fx.store.Header(ctx, "Parent")
	require.NoError(t, err)
	assert.Equal(t, []string{"Parent ID", "Name", "Other ID"}, header)

	rows, err := fx.store.ReadRows(ctx, "Parent")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["Parent ID"])
}

func pushAll(t *testing.T, fx *fixture, job *Job) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, fx.engine.CreatePushJobs(ctx, job))
	for _, pj := range job.Jobs {
		require.NoError(t, fx.engine.Push(ctx, pj))
	}
}

func TestEngine_PushInsertAndUpdate(t *testing.T) {
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {
			{"Parent ID": "ext1", "Name": "new"},
			{"Parent ID": "5", "Name": "renamed"},
		},
	})
	fx.svc.Seed("Parents", remote.Entity{"id": "5", "name": "old", "keep": "me"})

	job := NewJob("Parents")
	pushAll(t, fx, job)

	require.Len(t, job.Jobs, 2)
	inserted := job.Jobs[0]
	assert.Equal(t, StateDone, inserted.State)
	assert.Equal(t, "1001", inserted.Row.Get("Parent ID"))
	assert.Equal(t, "new", fx.svc.Stored("Parents", "1001")["name"])

	id, ok := fx.env.IDs.Translate("Parent", "ext1")
	assert.True(t, ok)
	assert.Equal(t, "1001", id)
	assert.Equal(t, "1001", job.IDMap["Parent"]["ext1"])

	updated := fx.svc.Stored("Parents", "5")
	assert.Equal(t, "renamed", updated["name"])
	assert.Equal(t, "me", updated["keep"], "update starts from the fetched entity")
	assert.Equal(t, 1, fx.svc.Count("update", "Parents"))
	assert.Equal(t, 1, fx.svc.Count("insert", "Parents"))

	assert.Equal(t, []string{"Processing Parent: ext1"}, messages(inserted.Logs))
}

func TestEngine_PushSkipsUnkeyed(t *testing.T) {
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {{"Parent ID": "", "Name": "orphan"}},
	})

	job := NewJob("Parents")
	pushAll(t, fx, job)

	require.Len(t, job.Jobs, 1)
	assert.Equal(t, []string{"Parent ID is empty for Parent. Skipping"}, messages(job.Jobs[0].Logs))
	assert.Zero(t, fx.svc.Count("insert", "Parents"))
}

func TestEngine_PushFailure(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(fx *fixture)
		message string
	}{
		{
			name: "Remote",
			setup: func(fx *fixture) {
				fx.svc.Fail("insert", &remote.Error{Op: "insert", Type: "Parents", StatusCode: 400, Message: "bad name"})
			},
			message: "bad name",
		},
		{
			name: "Validation",
			setup: func(fx *fixture) {
				fx.parent.failWith = &ValidationError{Field: "Name", Value: "??"}
			},
			message: "?? is not a valid value for the Name field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(parentHeader, map[string][]map[string]any{
				"Parent": {{"Parent ID": "ext1", "Name": "x"}},
			})
			tt.setup(fx)

			job := NewJob("Parents")
			require.NoError(t, fx.engine.CreatePushJobs(ctx, job))
			pj := job.Jobs[0]

			err := fx.engine.Push(ctx, pj)
			require.Error(t, err)
			assert.Equal(t, StateFailed, pj.State)

			logs := messages(pj.Logs)
			assert.Contains(t, logs, "Error processing Parent: ext1")
			found := false
			for _, l := range logs {
				if strings.HasPrefix(l, "Error Message: ") && strings.Contains(l, tt.message) {
					found = true
				}
			}
			assert.True(t, found, "error message logged: %v", logs)

			_, ok := fx.env.IDs.Translate("Parent", "ext1")
			assert.False(t, ok)
		})
	}
}

func TestEngine_ValidationErrorIsTyped(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {{"Parent ID": "ext1"}},
	})
	fx.parent.failWith = &ValidationError{Field: "Name", Value: "x"}

	job := NewJob("Parents")
	require.NoError(t, fx.engine.CreatePushJobs(ctx, job))
	err := fx.engine.Push(ctx, job.Jobs[0])

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Name", verr.Field)
}

func TestEngine_SameBatchReferenceOrdering(t *testing.T) {
	rows := map[string][]map[string]any{
		"Other":  {{"Other ID": "extO", "Name": "other"}},
		"Parent": {{"Parent ID": "extP", "Name": "parent", "Other ID": "extO"}},
	}

	t.Run("ReferencedRowFirst", func(t *testing.T) {
		fx := newFixture(parentHeader, rows)
		idMap := idstore.Data{}

		others := NewJob("Others")
		others.IDMap = idMap
		pushAll(t, fx, others)

		parents := NewJob("Parents")
		parents.IDMap = idMap
		pushAll(t, fx, parents)

		otherID := others.Jobs[0].Row.Get("Other ID")
		assert.Equal(t, "1001", otherID)
		assert.Equal(t, otherID, fx.svc.Stored("Parents", "1002")["otherId"])
	})

	t.Run("ReferencedRowLater", func(t *testing.T) {
		fx := newFixture(parentHeader, rows)

		parents := NewJob("Parents")
		pushAll(t, fx, parents)

		assert.Equal(t, "extO", fx.svc.Stored("Parents", "1001")["otherId"])
		assert.Contains(t, messages(parents.Jobs[0].Logs), "Warning: Other ID extO has no match in Other")
	})
}

func TestEngine_ChildrenAndUpdateFeed(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {
			{"Parent ID": "ext1", "Name": "p"},
			{"Parent ID": "ext1", "Name": "p"},
		},
		"Child": {
			{"Parent ID": "ext1", "Value": "a"},
			{"Parent ID": "9", "Value": "keep"},
			{"Parent ID": "ext1", "Value": "b"},
		},
	})

	job := NewJob("Parents")
	pushAll(t, fx, job)
	assert.Equal(t, float64(2), toFloat(fx.svc.Stored("Parents", "1001")["childCount"]))

	require.NoError(t, fx.engine.UpdateFeed(ctx, job))

	parents, err := fx.store.ReadRows(ctx, "Parent")
	require.NoError(t, err)
	require.Len(t, parents, 2, "duplicates are written back")
	assert.Equal(t, "1001", parents[0]["Parent ID"])
	assert.Equal(t, "1001", parents[1]["Parent ID"])

	children, err := fx.store.ReadRows(ctx, "Child")
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "a", children[0]["Value"])
	assert.Equal(t, "1001", children[0]["Parent ID"])
	assert.Equal(t, "b", children[1]["Value"])
	assert.Equal(t, "keep", children[2]["Value"])
	assert.Equal(t, "9", children[2]["Parent ID"])
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func TestEngine_CreatePushJobsPreFetchesNumericValues(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(parentHeader, map[string][]map[string]any{
		"Parent": {
			{"Parent ID": "1", "Other ID": float64(7)},
			{"Parent ID": "2", "Other ID": "ext7"},
			{"Parent ID": "3", "Other ID": float64(7)},
		},
	})
	fx.svc.Seed("Others", remote.Entity{"id": "7"})

	job := NewJob("Parents")
	job.PreFetchConfigs = []PreFetchConfig{{Entity: "Others", ListField: "others", FilterName: "ids", FieldName: "Other ID"}}
	require.NoError(t, fx.engine.CreatePushJobs(ctx, job))

	assert.Len(t, job.Jobs, 3)
	require.Equal(t, 1, fx.svc.Count("list", "Others"))
	last := fx.svc.Calls[len(fx.svc.Calls)-1]
	assert.Equal(t, []string{"7"}, last.Params["ids"])
}
