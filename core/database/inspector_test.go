package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE workbook_cells (tab_id INTEGER, row INTEGER, col INTEGER, value TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "workbook_cells")
	require.NoError(t, err)
	assert.Len(t, columns, 4)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "integer", colMap["tab_id"])
	assert.Equal(t, "text", colMap["value"])

	// PRAGMA table_info returns an empty result for unknown tables.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		require.NoError(t, db.Exec("CREATE TABLE workbook_tabs (id INTEGER PRIMARY KEY, name TEXT)").Error)

		missing, err := MissingColumns(db, "workbook_tabs", "id", "name", "header")
		require.NoError(t, err)
		assert.Equal(t, []string{"header"}, missing)
	})

	t.Run("MySQL", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
		require.NoError(t, err)

		mock.ExpectQuery("SHOW COLUMNS FROM `workbook_tabs`").
			WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
				AddRow("ID", "BIGINT UNSIGNED", "NO", "PRI", nil, "auto_increment").
				AddRow("name", "varchar(191)", "NO", "UNI", nil, ""))

		missing, err := MissingColumns(db, "workbook_tabs", "id", "name")
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
