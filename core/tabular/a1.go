package tabular

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxWidth is the widest row the stores read or write (columns A..AZ).
const MaxWidth = 52

// Cell addresses one cell by zero-based row and column.
type Cell struct {
	Row int
	Col int
}

// Range is a rectangular block of cells. An EndRow of -1 means the range
// is open towards the bottom of the table ("A2:AZ").
type Range struct {
	Start  Cell
	EndRow int
	EndCol int
}

// Contains reports whether c falls inside the range.
func (r Range) Contains(c Cell) bool {
	if c.Row < r.Start.Row || c.Col < r.Start.Col || c.Col > r.EndCol {
		return false
	}
	return r.EndRow < 0 || c.Row <= r.EndRow
}

// ColumnName renders a zero-based column index in A1 letters.
func ColumnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// ColumnIndex parses A1 column letters into a zero-based index.
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("empty column reference")
	}
	idx := 0
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column reference %q", letters)
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1, nil
}

// ParseCell parses an A1 cell reference such as "B2".
func ParseCell(ref string) (Cell, error) {
	col, row, err := splitRef(ref)
	if err != nil {
		return Cell{}, err
	}
	if row < 0 {
		return Cell{}, fmt.Errorf("cell reference %q has no row", ref)
	}
	return Cell{Row: row, Col: col}, nil
}

// ParseRange parses an A1 range such as "A1:Z1" or "A2:AZ".
// A single cell reference is accepted as a one-cell range.
func ParseRange(ref string) (Range, error) {
	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return Range{}, fmt.Errorf("invalid range %q", ref)
	}

	startCol, startRow, err := splitRef(parts[0])
	if err != nil {
		return Range{}, err
	}
	if startRow < 0 {
		startRow = 0
	}
	if len(parts) == 1 {
		return Range{Start: Cell{Row: startRow, Col: startCol}, EndRow: startRow, EndCol: startCol}, nil
	}

	endCol, endRow, err := splitRef(parts[1])
	if err != nil {
		return Range{}, err
	}
	if endCol < startCol || (endRow >= 0 && endRow < startRow) {
		return Range{}, fmt.Errorf("range %q ends before it starts", ref)
	}
	return Range{Start: Cell{Row: startRow, Col: startCol}, EndRow: endRow, EndCol: endCol}, nil
}

// splitRef returns the column index and zero-based row of "AB12".
// The row is -1 when the reference carries column letters only.
func splitRef(ref string) (int, int, error) {
	ref = strings.TrimSpace(ref)
	i := 0
	for i < len(ref) && (ref[i] < '0' || ref[i] > '9') {
		i++
	}
	col, err := ColumnIndex(ref[:i])
	if err != nil {
		return 0, 0, err
	}
	if i == len(ref) {
		return col, -1, nil
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid row in reference %q", ref)
	}
	return col, row - 1, nil
}
