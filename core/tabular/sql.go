package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TabModel is one workbook table.
type TabModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"column:name;size:191;uniqueIndex;not null"`
}

// TableName overrides the default table name.
func (TabModel) TableName() string { return "workbook_tabs" }

// CellModel is one non-blank cell. Values are stored JSON encoded so that
// numbers and booleans survive a round trip.
type CellModel struct {
	TabID uint   `gorm:"column:tab_id;primaryKey"`
	Row   int    `gorm:"column:row_index;primaryKey"`
	Col   int    `gorm:"column:col_index;primaryKey"`
	Value string `gorm:"column:value;type:text"`
}

// TableName overrides the default table name.
func (CellModel) TableName() string { return "workbook_cells" }

// Expected columns, used by the workbook integrity check.
var (
	TabColumns  = []string{"id", "name"}
	CellColumns = []string{"tab_id", "row_index", "col_index", "value"}
)

// SQLStore is a Workbook persisted in a relational database through GORM.
type SQLStore struct {
	db *gorm.DB
}

var _ Workbook = (*SQLStore)(nil)

// NewSQLStore wraps db. Call Migrate before first use on a fresh database.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB exposes the underlying connection.
func (s *SQLStore) DB() *gorm.DB { return s.db }

// Migrate creates or updates the workbook tables.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&TabModel{}, &CellModel{}); err != nil {
		return fmt.Errorf("failed to migrate workbook schema: %w", err)
	}
	return nil
}

func (s *SQLStore) TableExists(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&TabModel{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	return count > 0, nil
}

func (s *SQLStore) ReadRows(ctx context.Context, name string) ([]map[string]any, error) {
	tab, err := s.tab(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, err
	}
	g, err := s.load(s.db.WithContext(ctx), tab.ID)
	if err != nil {
		return nil, err
	}
	return g.rows(), nil
}

func (s *SQLStore) WriteRows(ctx context.Context, name string, rows []map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := s.tab(tx, name)
		if err != nil {
			return err
		}
		g, err := s.loadRow(tx, tab.ID, 0)
		if err != nil {
			return err
		}
		if err := s.deleteRange(tx, tab.ID, Range{Start: Cell{Row: 1}, EndRow: -1, EndCol: MaxWidth - 1}); err != nil {
			return err
		}
		return s.insert(tx, tab.ID, g.layout(rows))
	})
}

func (s *SQLStore) ClearRange(ctx context.Context, name, a1Range string) error {
	r, err := ParseRange(a1Range)
	if err != nil {
		return err
	}
	tab, err := s.tab(s.db.WithContext(ctx), name)
	if errors.Is(err, ErrTableNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.deleteRange(s.db.WithContext(ctx), tab.ID, r)
}

func (s *SQLStore) ReadCell(ctx context.Context, name, a1Cell string) (any, error) {
	c, err := ParseCell(a1Cell)
	if err != nil {
		return nil, err
	}
	tab, err := s.tab(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, err
	}

	var cells []CellModel
	err = s.db.WithContext(ctx).
		Where("tab_id = ? AND row_index = ? AND col_index = ?", tab.ID, c.Row, c.Col).
		Limit(1).Find(&cells).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s!%s: %w", name, a1Cell, err)
	}
	if len(cells) == 0 {
		return nil, nil
	}
	return decodeValue(cells[0].Value)
}

func (s *SQLStore) WriteCells(ctx context.Context, name, a1Cell string, values [][]any) error {
	start, err := ParseCell(a1Cell)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := s.createTab(tx, name)
		if err != nil {
			return err
		}
		for c, v := range block(start, values) {
			if isBlank(v) {
				err = tx.Where("tab_id = ? AND row_index = ? AND col_index = ?", tab.ID, c.Row, c.Col).
					Delete(&CellModel{}).Error
				if err != nil {
					return fmt.Errorf("failed to clear %s cell: %w", name, err)
				}
				continue
			}
			encoded, err := encodeValue(v)
			if err != nil {
				return err
			}
			cell := CellModel{TabID: tab.ID, Row: c.Row, Col: c.Col, Value: encoded}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "tab_id"}, {Name: "row_index"}, {Name: "col_index"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&cell).Error
			if err != nil {
				return fmt.Errorf("failed to write %s cell: %w", name, err)
			}
		}
		return nil
	})
}

func (s *SQLStore) Tables(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&TabModel{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

func (s *SQLStore) Header(ctx context.Context, name string) ([]string, error) {
	tab, err := s.tab(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, err
	}
	g, err := s.loadRow(s.db.WithContext(ctx), tab.ID, 0)
	if err != nil {
		return nil, err
	}
	return headerList(g), nil
}

func (s *SQLStore) EnsureTable(ctx context.Context, name string, header []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tab, err := s.createTab(tx, name)
		if err != nil {
			return err
		}
		g, err := s.loadRow(tx, tab.ID, 0)
		if err != nil {
			return err
		}
		if len(g.header()) > 0 {
			return nil
		}
		return s.insert(tx, tab.ID, block(Cell{}, headerBlock(header)))
	})
}

func (s *SQLStore) tab(db *gorm.DB, name string) (*TabModel, error) {
	var tabs []TabModel
	if err := db.Where("name = ?", name).Limit(1).Find(&tabs).Error; err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	if len(tabs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return &tabs[0], nil
}

func (s *SQLStore) createTab(db *gorm.DB, name string) (*TabModel, error) {
	tab, err := s.tab(db, name)
	if err == nil {
		return tab, nil
	}
	if !errors.Is(err, ErrTableNotFound) {
		return nil, err
	}
	tab = &TabModel{Name: name}
	if err := db.Create(tab).Error; err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return tab, nil
}

func (s *SQLStore) load(db *gorm.DB, tabID uint) (grid, error) {
	var cells []CellModel
	if err := db.Where("tab_id = ?", tabID).Find(&cells).Error; err != nil {
		return nil, fmt.Errorf("failed to read cells: %w", err)
	}
	return toGrid(cells)
}

func (s *SQLStore) loadRow(db *gorm.DB, tabID uint, row int) (grid, error) {
	var cells []CellModel
	if err := db.Where("tab_id = ? AND row_index = ?", tabID, row).Find(&cells).Error; err != nil {
		return nil, fmt.Errorf("failed to read cells: %w", err)
	}
	return toGrid(cells)
}

func (s *SQLStore) deleteRange(db *gorm.DB, tabID uint, r Range) error {
	q := db.Where("tab_id = ? AND row_index >= ? AND col_index >= ? AND col_index <= ?",
		tabID, r.Start.Row, r.Start.Col, r.EndCol)
	if r.EndRow >= 0 {
		q = q.Where("row_index <= ?", r.EndRow)
	}
	if err := q.Delete(&CellModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear cells: %w", err)
	}
	return nil
}

func (s *SQLStore) insert(db *gorm.DB, tabID uint, g grid) error {
	if len(g) == 0 {
		return nil
	}
	cells := make([]CellModel, 0, len(g))
	for c, v := range g {
		encoded, err := encodeValue(v)
		if err != nil {
			return err
		}
		cells = append(cells, CellModel{TabID: tabID, Row: c.Row, Col: c.Col, Value: encoded})
	}
	if err := db.CreateInBatches(cells, 500).Error; err != nil {
		return fmt.Errorf("failed to write cells: %w", err)
	}
	return nil
}

func toGrid(cells []CellModel) (grid, error) {
	g := make(grid, len(cells))
	for _, c := range cells {
		v, err := decodeValue(c.Value)
		if err != nil {
			return nil, err
		}
		g[Cell{Row: c.Row, Col: c.Col}] = v
	}
	return g, nil
}

func encodeValue(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode cell value: %w", err)
	}
	return string(b), nil
}

func decodeValue(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("failed to decode cell value: %w", err)
	}
	return v, nil
}
