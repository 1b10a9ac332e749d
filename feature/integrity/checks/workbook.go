package checks

import (
	"context"
	"fmt"

	"bulkdozer/core/entity"
	"bulkdozer/core/tabular"

	"go.uber.org/zap"
)

// EntityTable is the check result of one entity table.
type EntityTable struct {
	Entity         string   `json:"entity"`
	Table          string   `json:"table"`
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// WorkbookReport lists the entity tables of a workbook.
type WorkbookReport struct {
	Matched bool          `json:"matched"`
	Tables  []EntityTable `json:"tables"`
}

// Missing returns the tables that do not exist.
func (r *WorkbookReport) Missing() []EntityTable {
	var out []EntityTable
	for _, t := range r.Tables {
		if !t.Exists {
			out = append(out, t)
		}
	}
	return out
}

// RequiredColumns returns the id and key fields of d.
func RequiredColumns(d entity.Descriptor) []string {
	var cols []string
	for _, c := range append([]string{d.IDField}, d.Keys...) {
		if c != "" {
			cols = entity.PushUnique(cols, c)
		}
	}
	return cols
}

// CheckWorkbook verifies that every registered entity has a table whose
// header holds its id and key fields.
func CheckWorkbook(ctx context.Context, store tabular.Workbook, registry *entity.Registry) (*WorkbookReport, error) {
	report := &WorkbookReport{Matched: true, Tables: []EntityTable{}}

	for _, d := range registry.Descriptors() {
		if len(d.Tables) == 0 {
			continue
		}

		table, err := tabular.WhichTable(ctx, store, d.Tables...)
		if err != nil {
			return nil, fmt.Errorf("failed to find table of %s: %w", d.Name, err)
		}

		et := EntityTable{Entity: d.Name, Table: table, Exists: table != "", MissingColumns: []string{}, Status: "ok"}
		if !et.Exists {
			et.Table = d.Tables[0]
			et.Status = "missing"
			report.Matched = false
			report.Tables = append(report.Tables, et)
			continue
		}

		header, err := store.Header(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read header of %s: %w", table, err)
		}
		present := make(map[string]bool, len(header))
		for _, h := range header {
			present[h] = true
		}
		for _, col := range RequiredColumns(d) {
			if !present[col] {
				et.MissingColumns = append(et.MissingColumns, col)
				et.Status = "error"
				report.Matched = false
			}
		}
		report.Tables = append(report.Tables, et)
	}

	return report, nil
}

// FixWorkbook creates the missing tables of report with their default
// headers and returns their names. Tables with missing columns are left
// untouched.
func FixWorkbook(ctx context.Context, store tabular.Workbook, registry *entity.Registry, logger *zap.Logger, report *WorkbookReport) ([]string, error) {
	var created []string
	for _, et := range report.Missing() {
		s, ok := registry.Get(et.Entity)
		if !ok {
			continue
		}
		d := s.Descriptor()
		header := d.Columns
		if len(header) == 0 {
			header = RequiredColumns(d)
		}
		if err := store.EnsureTable(ctx, et.Table, header); err != nil {
			logger.Error("Failed to create table", zap.String("table", et.Table), zap.Error(err))
			return created, err
		}
		logger.Info("Created missing table", zap.String("table", et.Table), zap.String("entity", et.Entity))
		created = append(created, et.Table)
	}
	return created, nil
}
