package bulk

import (
	"context"
	"testing"
	"time"

	"bulkdozer/core/entity"
	"bulkdozer/core/tabular"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrainLogs(t *testing.T) {
	job := entity.NewJob("Campaigns")
	job.Log("first")
	pj := &entity.PushJob{}
	pj.Log("second")
	job.Jobs = []*entity.PushJob{pj}

	logs := DrainLogs(job)
	require.Len(t, logs, 2)
	assert.Equal(t, "first", logs[0].Message)
	assert.Equal(t, "second", logs[1].Message)
	assert.Empty(t, job.Logs)
	assert.Empty(t, pj.Logs)
}

func TestWriteLogs(t *testing.T) {
	ctx := context.Background()
	store := tabular.NewMemory()
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	offset, err := WriteLogs(ctx, store, 0, []entity.LogEntry{{Time: ts, Message: "a"}, {Time: ts, Message: "b"}})
	require.NoError(t, err)
	assert.Equal(t, 2, offset)

	offset, err = WriteLogs(ctx, store, offset, []entity.LogEntry{{Time: ts, Message: "c"}})
	require.NoError(t, err)
	assert.Equal(t, 3, offset)

	v, err := store.ReadCell(ctx, LogTable, "B3")
	require.NoError(t, err)
	assert.Equal(t, "c", v)
	v, err = store.ReadCell(ctx, LogTable, "A1")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 10:30:00", v)

	offset, err = WriteLogs(ctx, store, 0, []entity.LogEntry{{Time: ts, Message: "fresh"}})
	require.NoError(t, err)
	assert.Equal(t, 1, offset)
	v, err = store.ReadCell(ctx, LogTable, "B2")
	require.NoError(t, err)
	assert.Nil(t, v)
}
