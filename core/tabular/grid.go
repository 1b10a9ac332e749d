package tabular

import (
	"sort"

	"bulkdozer/core/utils"
)

// grid is a sparse cell map shared by the store implementations.
// Row 0 holds the header; data rows start at row 1.
type grid map[Cell]any

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// header returns column names by index; blank header cells are skipped.
func (g grid) header() map[int]string {
	h := make(map[int]string)
	for col := 0; col < MaxWidth; col++ {
		if v, ok := g[Cell{Row: 0, Col: col}]; ok && !isBlank(v) {
			h[col] = utils.ToString(v)
		}
	}
	return h
}

// rows reads data rows until the first row whose header columns are all blank.
func (g grid) rows() []map[string]any {
	header := g.header()
	if len(header) == 0 {
		return nil
	}

	var out []map[string]any
	for r := 1; ; r++ {
		row := make(map[string]any, len(header))
		empty := true
		for col, name := range header {
			v, ok := g[Cell{Row: r, Col: col}]
			if !ok || isBlank(v) {
				row[name] = ""
				continue
			}
			row[name] = v
			empty = false
		}
		if empty {
			return out
		}
		out = append(out, row)
	}
}

// layout places rows under the header. Fields unknown to the header are dropped.
func (g grid) layout(rows []map[string]any) grid {
	header := g.header()
	out := make(grid)
	for i, row := range rows {
		for col, name := range header {
			if v, ok := row[name]; ok && !isBlank(v) {
				out[Cell{Row: i + 1, Col: col}] = v
			}
		}
	}
	return out
}

func (g grid) clear(r Range) {
	for c := range g {
		if r.Contains(c) {
			delete(g, c)
		}
	}
}

// block expands a 2D value slice anchored at start into cells.
func block(start Cell, values [][]any) map[Cell]any {
	out := make(map[Cell]any)
	for i, row := range values {
		for j, v := range row {
			out[Cell{Row: start.Row + i, Col: start.Col + j}] = v
		}
	}
	return out
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
