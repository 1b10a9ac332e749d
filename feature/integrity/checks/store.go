package checks

import (
	"context"
	"fmt"

	"bulkdozer/core/idstore"
	"bulkdozer/core/tabular"

	"go.uber.org/zap"
)

// StoreReport is the check result of the id map table.
type StoreReport struct {
	Table   string `json:"table"`
	Exists  bool   `json:"exists"`
	Tables  int    `json:"tables"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
	Status  string `json:"status"` // "ok", "missing", "error"
}

// CheckStore verifies that the id map table exists and decodes.
func CheckStore(ctx context.Context, store tabular.Store, table string) (*StoreReport, error) {
	ids := idstore.New(store, table)
	report := &StoreReport{Table: ids.Table(), Status: "ok"}

	exists, err := store.TableExists(ctx, report.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to check table %s: %w", report.Table, err)
	}
	report.Exists = exists
	if !exists {
		report.Status = "missing"
		return report, nil
	}

	if err := ids.Load(ctx); err != nil {
		report.Status = "error"
		report.Error = err.Error()
		return report, nil
	}
	data := ids.Data()
	report.Tables = len(data)
	for _, m := range data {
		report.Entries += len(m) / 2
	}
	return report, nil
}

// FixStore writes an empty id map when the table is missing. An id map
// that fails to decode is left for a restore.
func FixStore(ctx context.Context, store tabular.Store, logger *zap.Logger, report *StoreReport) (bool, error) {
	if report.Exists {
		return false, nil
	}
	if err := idstore.New(store, report.Table).Clear(ctx); err != nil {
		return false, err
	}
	logger.Info("Created empty id map", zap.String("table", report.Table))
	return true, nil
}
