package feed

import (
	"context"
	"fmt"
	"strings"

	"bulkdozer/core/tabular"
	"bulkdozer/core/utils"
)

// Feed is a deduplicated row view over one table.
type Feed struct {
	store tabular.Store
	table string
	keys  []string
	rows  []*Row
	index int
}

// New creates a feed over table. Rows sharing the values of keys are
// collapsed into one visible row; with no keys every row is visible.
// An empty table name yields a feed whose Load and Save do nothing.
func New(store tabular.Store, table string, keys ...string) *Feed {
	return &Feed{store: store, table: table, keys: keys, index: -1}
}

// Open resolves the first existing candidate table and creates a feed over it.
func Open(ctx context.Context, store tabular.Store, tables []string, keys ...string) (*Feed, error) {
	table, err := tabular.WhichTable(ctx, store, tables...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve table %v: %w", tables, err)
	}
	return New(store, table, keys...), nil
}

// Table returns the underlying table name.
func (f *Feed) Table() string {
	return f.table
}

// Load reads the table and rebuilds the feed.
func (f *Feed) Load(ctx context.Context) error {
	if f.table == "" {
		f.SetFeed(nil)
		return nil
	}
	rows, err := f.store.ReadRows(ctx, f.table)
	if err != nil {
		return fmt.Errorf("failed to read table %s: %w", f.table, err)
	}
	f.SetFeed(rows)
	return nil
}

// SetFeed replaces the feed content with rows and rewinds the cursor.
func (f *Feed) SetFeed(rows []map[string]any) {
	f.index = -1
	f.rows = nil

	if len(f.keys) == 0 {
		for _, data := range rows {
			f.rows = append(f.rows, NewRow(data))
		}
		return
	}

	reps := make(map[string]*Row)
	for _, data := range rows {
		row := NewRow(data)
		key := f.Key(data)
		// Unkeyed rows are never merged: Save would copy one blank row's
		// edits over every other blank row.
		if key == UnkeyedKey {
			row.Unkeyed = true
			f.rows = append(f.rows, row)
			continue
		}
		if rep, ok := reps[key]; ok {
			rep.Duplicates = append(rep.Duplicates, row)
			continue
		}
		reps[key] = row
		f.rows = append(f.rows, row)
	}
}

// SetRows replaces the feed content with already built rows, keeping their
// snapshots and duplicates, and rewinds the cursor.
func (f *Feed) SetRows(rows []*Row) {
	f.index = -1
	f.rows = rows
}

// Key returns the dedup key of data, or UnkeyedKey when every key field is empty.
func (f *Feed) Key(data map[string]any) string {
	parts := make([]string, len(f.keys))
	empty := true
	for i, k := range f.keys {
		parts[i] = utils.ToString(data[k])
		if parts[i] != "" {
			empty = false
		}
	}
	if empty {
		return UnkeyedKey
	}
	return strings.Join(parts, "|")
}

// Rows returns the visible rows.
func (f *Feed) Rows() []*Row {
	return f.rows
}

// Len returns the number of visible rows.
func (f *Feed) Len() int {
	return len(f.rows)
}

// Next advances the cursor and returns the next visible row, or nil at the end.
func (f *Feed) Next() *Row {
	if f.index+1 >= len(f.rows) {
		f.index = len(f.rows)
		return nil
	}
	f.index++
	return f.rows[f.index]
}

// Reset rewinds the cursor.
func (f *Feed) Reset() {
	f.index = -1
}

// IsEmpty reports whether the feed has no visible rows.
func (f *Feed) IsEmpty() bool {
	return len(f.rows) == 0
}

// Save fans out representative edits to duplicates, overwrites the table
// and reloads the feed from what was written.
func (f *Feed) Save(ctx context.Context) error {
	if f.table == "" {
		return nil
	}
	for _, row := range f.rows {
		row.propagate()
	}
	if err := f.store.WriteRows(ctx, f.table, Flatten(f.rows)); err != nil {
		return fmt.Errorf("failed to write table %s: %w", f.table, err)
	}
	return f.Load(ctx)
}

// Flatten expands each row followed by its duplicates into plain records.
func Flatten(rows []*Row) []map[string]any {
	var out []map[string]any
	for _, row := range rows {
		out = append(out, row.Data)
		for _, dup := range row.Duplicates {
			out = append(out, dup.Data)
		}
	}
	return out
}
