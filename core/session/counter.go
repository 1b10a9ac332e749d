package session

import (
	"context"
	"fmt"
	"sync/atomic"

	"gorm.io/gorm"
)

// DefaultName is the counter used for job generations.
const DefaultName = "job"

// Counter issues monotonically increasing session numbers.
type Counter interface {
	Next(ctx context.Context) (int64, error)
}

// CounterModel persists one named counter.
type CounterModel struct {
	Name  string `gorm:"column:name;primaryKey;size:64"`
	Value int64  `gorm:"column:value;not null;default:0"`
}

// TableName overrides the table name.
func (CounterModel) TableName() string { return "session_counters" }

// SQLCounter is a Counter stored in the database.
type SQLCounter struct {
	db   *gorm.DB
	name string
}

// NewSQLCounter creates a counter stored under name.
func NewSQLCounter(db *gorm.DB, name string) *SQLCounter {
	if name == "" {
		name = DefaultName
	}
	return &SQLCounter{db: db, name: name}
}

// Migrate creates the counter table.
func (c *SQLCounter) Migrate(ctx context.Context) error {
	return c.db.WithContext(ctx).AutoMigrate(&CounterModel{})
}

// Next increments the counter and returns the new value.
func (c *SQLCounter) Next(ctx context.Context) (int64, error) {
	var next int64
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CounterModel{}).
			Where("name = ?", c.name).
			Update("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&CounterModel{Name: c.name, Value: 1}).Error; err != nil {
				return err
			}
		}

		var row CounterModel
		if err := tx.Where("name = ?", c.name).First(&row).Error; err != nil {
			return err
		}
		next = row.Value
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", c.name, err)
	}
	return next, nil
}

// MemoryCounter is an in-process Counter.
type MemoryCounter struct {
	value atomic.Int64
}

// NewMemoryCounter creates a counter starting at zero.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

func (m *MemoryCounter) Next(_ context.Context) (int64, error) {
	return m.value.Add(1), nil
}
