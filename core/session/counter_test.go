package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSQLCounter(t *testing.T) {
	ctx := context.Background()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	c := NewSQLCounter(db, "")
	require.NoError(t, c.Migrate(ctx))

	for want := int64(1); want <= 3; want++ {
		got, err := c.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other := NewSQLCounter(db, "other")
	got, err := other.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMemoryCounter(t *testing.T) {
	c := NewMemoryCounter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Next(context.Background())
		}()
	}
	wg.Wait()

	got, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(51), got)
}
