package tabular

import (
	"context"
	"errors"
)

// ErrTableNotFound is returned when an operation needs a table that does not exist.
var ErrTableNotFound = errors.New("table not found")

// Store is the grid I/O contract the sync engine consumes.
// Ranges and cells use A1 notation.
type Store interface {
	// TableExists reports whether a table with the given name exists.
	TableExists(ctx context.Context, name string) (bool, error)
	// ReadRows returns the data rows keyed by header name.
	// Reading stops at the first empty row.
	ReadRows(ctx context.Context, name string) ([]map[string]any, error)
	// WriteRows replaces every data row (A2:AZ) with rows, laid out by header.
	WriteRows(ctx context.Context, name string, rows []map[string]any) error
	// ClearRange blanks the cells of an A1 range.
	ClearRange(ctx context.Context, name, a1Range string) error
	// ReadCell returns the value of one cell, or nil when blank.
	ReadCell(ctx context.Context, name, a1Cell string) (any, error)
	// WriteCells writes a block of values anchored at an A1 cell.
	// The table is created when it does not exist yet.
	WriteCells(ctx context.Context, name, a1Cell string, values [][]any) error
}

// Workbook is a Store that can also enumerate and create tables.
type Workbook interface {
	Store
	// Tables lists the table names in lexical order.
	Tables(ctx context.Context) ([]string, error)
	// Header returns the header row of a table.
	Header(ctx context.Context, name string) ([]string, error)
	// EnsureTable creates the table when missing and writes the header row
	// when the table has none.
	EnsureTable(ctx context.Context, name string, header []string) error
}

// WhichTable returns the first candidate table that exists, or "" when none do.
func WhichTable(ctx context.Context, s Store, candidates ...string) (string, error) {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		ok, err := s.TableExists(ctx, name)
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}
	return "", nil
}

func headerList(g grid) []string {
	h := g.header()
	width := 0
	for col := range h {
		if col+1 > width {
			width = col + 1
		}
	}
	out := make([]string, width)
	for col, name := range h {
		out[col] = name
	}
	return out
}

func headerBlock(header []string) [][]any {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return [][]any{row}
}
