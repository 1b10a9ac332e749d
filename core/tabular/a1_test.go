package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnName(tt.col))
			idx, err := ColumnIndex(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.col, idx)
		})
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    Range
		wantErr bool
	}{
		{"RowOne", "A1:Z1", Range{Start: Cell{0, 0}, EndRow: 0, EndCol: 25}, false},
		{"OpenEnded", "A2:AZ", Range{Start: Cell{1, 0}, EndRow: -1, EndCol: 51}, false},
		{"LogColumns", "A5:B", Range{Start: Cell{4, 0}, EndRow: -1, EndCol: 1}, false},
		{"SingleCell", "B2", Range{Start: Cell{1, 1}, EndRow: 1, EndCol: 1}, false},
		{"Backwards", "C1:A1", Range{}, true},
		{"Garbage", "1A", Range{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRange(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCell(t *testing.T) {
	c, err := ParseCell("B5")
	require.NoError(t, err)
	assert.Equal(t, Cell{Row: 4, Col: 1}, c)

	_, err = ParseCell("B")
	assert.Error(t, err)
}
