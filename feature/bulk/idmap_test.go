package bulk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"bulkdozer/core/idstore"
	"bulkdozer/core/storage"
	"bulkdozer/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func withStorage(m *mocks.Client) func(*Deps) {
	return func(d *Deps) { d.Storage = m }
}

func fixedTimestamp(t *testing.T, ts string) {
	t.Helper()
	orig := timestamp
	timestamp = func() string { return ts }
	t.Cleanup(func() { timestamp = orig })
}

func TestBackupIDMap(t *testing.T) {
	ctx := context.Background()
	fixedTimestamp(t, "20240501T103000.000Z")

	m := new(mocks.Client)
	f := newFixture(t, nil, nil, withStorage(m))
	require.NoError(t, f.svc.SaveIDMap(ctx, idstore.Data{"Campaign": {"ext1": "1", "1": "ext1"}}))

	var uploaded idstore.Data
	m.On("PutObject", ctx, "test-bucket", "exports/idmap/20240501T103000.000Z.json", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			b, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(b, &uploaded))
		}).
		Return(minio.UploadInfo{}, nil)

	name, err := f.svc.BackupIDMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exports/idmap/20240501T103000.000Z.json", name)
	assert.Equal(t, "1", uploaded["Campaign"]["ext1"])
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestBackupIDMap_Prune(t *testing.T) {
	ctx := context.Background()
	fixedTimestamp(t, "20240501T103000.000Z")
	keep := func(d *Deps) { d.Sync.BackupKeep = 2 }

	t.Run("RemovesOldest", func(t *testing.T) {
		m := new(mocks.Client)
		f := newFixture(t, nil, nil, withStorage(m), keep)
		m.On("PutObject", ctx, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		m.On("ListObjects", ctx, "test-bucket", minio.ListObjectsOptions{Prefix: "exports/idmap/", Recursive: true}).
			Return(mocks.Listing(
				"exports/idmap/20240101T000000.000Z.json",
				"exports/idmap/20240301T000000.000Z.json",
				"exports/idmap/20240501T103000.000Z.json",
			))
		m.On("RemoveObject", ctx, "test-bucket", "exports/idmap/20240101T000000.000Z.json", minio.RemoveObjectOptions{}).
			Return(nil)

		_, err := f.svc.BackupIDMap(ctx)
		require.NoError(t, err)
		m.AssertExpectations(t)
		m.AssertNumberOfCalls(t, "RemoveObject", 1)
	})

	t.Run("PruneFailureKeepsBackup", func(t *testing.T) {
		m := new(mocks.Client)
		f := newFixture(t, nil, nil, withStorage(m), keep)
		m.On("PutObject", ctx, "test-bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, nil)
		m.On("ListObjects", ctx, "test-bucket", mock.Anything).
			Return(mocks.Listing("exports/idmap/a.json", "exports/idmap/b.json", "exports/idmap/c.json"))
		m.On("RemoveObject", ctx, "test-bucket", mock.Anything, mock.Anything).Return(errors.New("denied"))

		name, err := f.svc.BackupIDMap(ctx)
		require.NoError(t, err)
		assert.Equal(t, "exports/idmap/20240501T103000.000Z.json", name)
	})
}

func TestRestoreIDMap(t *testing.T) {
	ctx := context.Background()
	backup, err := json.Marshal(idstore.Data{"Ad": {"ext9": "9", "9": "ext9"}})
	require.NoError(t, err)

	t.Run("Latest", func(t *testing.T) {
		m := new(mocks.Client)
		f := newFixture(t, nil, nil, withStorage(m))
		m.On("ListObjects", ctx, "test-bucket", minio.ListObjectsOptions{Prefix: "exports/idmap/", Recursive: true}).
			Return(mocks.Listing("exports/idmap/20240101T000000.000Z.json", "exports/idmap/20240301T000000.000Z.json"))
		m.On("GetObject", ctx, "test-bucket", "exports/idmap/20240301T000000.000Z.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader(backup)), nil)

		name, err := f.svc.RestoreIDMap(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "exports/idmap/20240301T000000.000Z.json", name)

		ids, err := f.svc.LoadIDMap(ctx)
		require.NoError(t, err)
		assert.Equal(t, "9", ids["Ad"]["ext9"])
	})

	t.Run("Named", func(t *testing.T) {
		m := new(mocks.Client)
		f := newFixture(t, nil, nil, withStorage(m))
		m.On("GetObject", ctx, "test-bucket", "exports/idmap/old.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader(backup)), nil)

		name, err := f.svc.RestoreIDMap(ctx, "exports/idmap/old.json")
		require.NoError(t, err)
		assert.Equal(t, "exports/idmap/old.json", name)
		m.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoBackups", func(t *testing.T) {
		m := new(mocks.Client)
		f := newFixture(t, nil, nil, withStorage(m))
		m.On("ListObjects", ctx, "test-bucket", mock.Anything).Return(mocks.Listing())

		_, err := f.svc.RestoreIDMap(ctx, "")
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("DownloadFails", func(t *testing.T) {
		m := new(mocks.Client)
		f := newFixture(t, nil, nil, withStorage(m))
		require.NoError(t, f.svc.SaveIDMap(ctx, idstore.Data{"Ad": {"ext1": "1", "1": "ext1"}}))
		m.On("GetObject", ctx, "test-bucket", "x.json", mock.Anything).Return(nil, errors.New("boom"))

		_, err := f.svc.RestoreIDMap(ctx, "x.json")
		require.Error(t, err)

		ids, err := f.svc.LoadIDMap(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1", ids["Ad"]["ext1"])
	})
}

func TestStorageNotConfigured(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil, nil)

	_, err := f.svc.BackupIDMap(ctx)
	assert.ErrorIs(t, err, ErrNoStorage)
	_, err = f.svc.RestoreIDMap(ctx, "")
	assert.ErrorIs(t, err, ErrNoStorage)
	_, err = f.svc.ExportHierarchy(ctx, nil)
	assert.ErrorIs(t, err, ErrNoStorage)
}
