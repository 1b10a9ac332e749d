package bulk

import (
	"context"
	"errors"
	"fmt"

	"bulkdozer/core/entity"
	"bulkdozer/core/tabular"
)

// LogTable receives the job logs of a sync run.
const LogTable = "Log"

// DrainLogs collects the logs of job and its push jobs, in that order, and
// empties them.
func DrainLogs(job *entity.Job) []entity.LogEntry {
	out := job.Logs
	job.Logs = nil
	for _, pj := range job.Jobs {
		out = append(out, pj.Logs...)
		pj.Logs = nil
	}
	return out
}

// WriteLogs writes logs as (time, message) rows into the Log table starting
// below offset rows and returns the new offset. Offset zero clears the table
// first.
func WriteLogs(ctx context.Context, store tabular.Store, offset int, logs []entity.LogEntry) (int, error) {
	if offset == 0 {
		err := store.ClearRange(ctx, LogTable, "A1:B")
		if err != nil && !errors.Is(err, tabular.ErrTableNotFound) {
			return offset, fmt.Errorf("failed to clear %s: %w", LogTable, err)
		}
	}
	if len(logs) == 0 {
		return offset, nil
	}

	values := make([][]any, len(logs))
	for i, l := range logs {
		values[i] = []any{l.Time.UTC().Format("2006-01-02 15:04:05"), l.Message}
	}
	if err := store.WriteCells(ctx, LogTable, fmt.Sprintf("A%d", offset+1), values); err != nil {
		return offset, fmt.Errorf("failed to write %s: %w", LogTable, err)
	}
	return offset + len(logs), nil
}
