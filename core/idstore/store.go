package idstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bulkdozer/core/tabular"
	"bulkdozer/core/utils"
)

const (
	// DefaultTable is the table holding the serialized mapping.
	DefaultTable = "Store"
	// SegmentSize is the largest number of characters written to one cell.
	SegmentSize = 50000
	// maxSegments is the width of the A1:Z1 storage row.
	maxSegments = 26
	storageRange = "A1:Z1"
)

// Data maps table name to a symmetric id mapping (temporary <-> concrete).
type Data map[string]map[string]string

// Store reconciles temporary ids ("ext...") assigned in the workbook with
// the concrete ids issued by the remote API.
type Store struct {
	mu    sync.RWMutex
	tab   tabular.Store
	table string
	data  Data
}

// New creates a store persisted into the given table of tab.
func New(tab tabular.Store, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{tab: tab, table: table, data: make(Data)}
}

// Table returns the table holding the serialized mapping.
func (s *Store) Table() string {
	return s.table
}

// Translate returns the counterpart of id within table.
func (s *Store) Translate(table string, id any) (string, bool) {
	key := utils.ToString(id)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[table][key]
	return v, ok
}

// AddID records concreteID <-> temporaryID in both directions.
// Stale counterparts of either id are dropped so that no id maps to two values.
func (s *Store) AddID(table, concreteID, temporaryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.data[table]
	if m == nil {
		m = make(map[string]string)
		s.data[table] = m
	}
	for _, id := range []string{concreteID, temporaryID} {
		if old, ok := m[id]; ok {
			delete(m, old)
		}
	}
	m[concreteID] = temporaryID
	m[temporaryID] = concreteID
}

// Initialize replaces the in-session mapping without touching persistence.
// The map is used by reference, so later AddID calls are visible to the caller.
func (s *Store) Initialize(data Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if data == nil {
		data = make(Data)
	}
	s.data = data
}

// Data returns the in-session mapping.
func (s *Store) Data() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Load reads the mapping from the storage row. An empty row loads as {}.
func (s *Store) Load(ctx context.Context) error {
	var sb strings.Builder
	for col := 0; col < maxSegments; col++ {
		cell := tabular.ColumnName(col) + "1"
		v, err := s.tab.ReadCell(ctx, s.table, cell)
		if errors.Is(err, tabular.ErrTableNotFound) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read id map segment %s: %w", cell, err)
		}
		str := utils.ToString(v)
		if str == "" {
			break
		}
		sb.WriteString(str)
	}

	raw := sb.String()
	if raw == "" {
		raw = "{}"
	}

	data := make(Data)
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return fmt.Errorf("failed to decode id map: %w", err)
	}
	s.Initialize(data)
	return nil
}

// Store writes the mapping into the storage row, split into segments.
func (s *Store) Store(ctx context.Context) error {
	s.mu.RLock()
	b, err := json.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode id map: %w", err)
	}

	segments := Split(string(b), SegmentSize)
	if len(segments) > maxSegments {
		return fmt.Errorf("id map needs %d segments, storage holds %d", len(segments), maxSegments)
	}

	if err := s.tab.ClearRange(ctx, s.table, storageRange); err != nil {
		return fmt.Errorf("failed to clear id map: %w", err)
	}

	row := make([]any, len(segments))
	for i, seg := range segments {
		row[i] = seg
	}
	if err := s.tab.WriteCells(ctx, s.table, "A1", [][]any{row}); err != nil {
		return fmt.Errorf("failed to write id map: %w", err)
	}
	return nil
}

// Clear empties the mapping and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.Initialize(nil)
	return s.Store(ctx)
}

// Split cuts s into chunks of at most size runes. An empty string yields
// one segment holding "{}".
func Split(s string, size int) []string {
	if s == "" || s == "null" {
		return []string{"{}"}
	}
	runes := []rune(s)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
