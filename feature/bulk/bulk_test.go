package bulk

import (
	"context"
	"testing"

	"bulkdozer/core/config"
	"bulkdozer/core/remote"
	"bulkdozer/core/remote/remotetest"
	"bulkdozer/core/storage"
	"bulkdozer/core/tabular"
	"bulkdozer/feature/cm"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc     *Service
	remote  *remotetest.Service
	store   *tabular.Memory
	storage storage.Client
}

func newFixture(t *testing.T, headers map[string][]string, rows map[string][]map[string]any, opts ...func(*Deps)) *fixture {
	t.Helper()
	rs := remotetest.New()
	store := tabular.NewMemoryWith(headers, rows)
	deps := Deps{
		Remote:       rs,
		Store:        store,
		Registry:     cm.NewRegistry(),
		Bucket:       "test-bucket",
		Logger:       zap.NewNop(),
		RemoteConfig: remote.Config{Retries: 0},
		Sync:         config.SyncConfig{StoreTable: "Store", ExportPrefix: "exports"},
	}
	for _, o := range opts {
		o(&deps)
	}
	return &fixture{svc: NewService(deps), remote: rs, store: store, storage: deps.Storage}
}

func (f *fixture) rows(t *testing.T, table string) []map[string]any {
	t.Helper()
	rows, err := f.store.ReadRows(context.Background(), table)
	require.NoError(t, err)
	return rows
}

func withContinueOnError(d *Deps) { d.Sync.ContinueOnError = true }
