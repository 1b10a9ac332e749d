package tabular

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Workbook.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]grid
}

var _ Workbook = (*Memory)(nil)

// NewMemory creates an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string]grid)}
}

// NewMemoryWith creates a workbook seeded with tables of rows.
// The header of each table is taken from the headers argument.
func NewMemoryWith(headers map[string][]string, rows map[string][]map[string]any) *Memory {
	m := NewMemory()
	for name, header := range headers {
		g := make(grid)
		for k, v := range block(Cell{}, headerBlock(header)) {
			g[k] = v
		}
		for k, v := range g.layout(rows[name]) {
			g[k] = v
		}
		m.tables[name] = g
	}
	return m
}

func (m *Memory) TableExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[name]
	return ok, nil
}

func (m *Memory) ReadRows(_ context.Context, name string) ([]map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return g.rows(), nil
}

func (m *Memory) WriteRows(_ context.Context, name string, rows []map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	g.clear(Range{Start: Cell{Row: 1}, EndRow: -1, EndCol: MaxWidth - 1})
	for k, v := range g.layout(rows) {
		g[k] = v
	}
	return nil
}

func (m *Memory) ClearRange(_ context.Context, name, a1Range string) error {
	r, err := ParseRange(a1Range)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.tables[name]; ok {
		g.clear(r)
	}
	return nil
}

func (m *Memory) ReadCell(_ context.Context, name, a1Cell string) (any, error) {
	c, err := ParseCell(a1Cell)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return g[c], nil
}

func (m *Memory) WriteCells(_ context.Context, name, a1Cell string, values [][]any) error {
	start, err := ParseCell(a1Cell)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.tables[name]
	if !ok {
		g = make(grid)
		m.tables[name] = g
	}
	for c, v := range block(start, values) {
		if isBlank(v) {
			delete(g, c)
			continue
		}
		g[c] = v
	}
	return nil
}

func (m *Memory) Tables(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedNames(m.tables), nil
}

func (m *Memory) Header(_ context.Context, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return headerList(g), nil
}

func (m *Memory) EnsureTable(_ context.Context, name string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.tables[name]
	if !ok {
		g = make(grid)
		m.tables[name] = g
	}
	if len(g.header()) == 0 {
		for k, v := range block(Cell{}, headerBlock(header)) {
			g[k] = v
		}
	}
	return nil
}
