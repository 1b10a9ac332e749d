package checks

import (
	"regexp"
	"testing"

	"bulkdozer/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func columns(fields ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f[0], f[1], "NO", "", nil, "")
	}
	return rows
}

func expectColumns(mock sqlmock.Sqlmock, table string, rows *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `" + table + "`")).WillReturnRows(rows)
}

func TestCheckDatabase_NilDB(t *testing.T) {
	report, err := CheckDatabase(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckDatabase_Matched(t *testing.T) {
	db, mock := setupMockDB(t)
	expectColumns(mock, "workbook_tabs", columns([2]string{"id", "bigint unsigned"}, [2]string{"name", "varchar(191)"}))
	expectColumns(mock, "workbook_cells", columns(
		[2]string{"tab_id", "bigint unsigned"}, [2]string{"row_index", "bigint"},
		[2]string{"col_index", "bigint"}, [2]string{"value", "TEXT"}))
	expectColumns(mock, "session_counters", columns([2]string{"name", "varchar(64)"}, [2]string{"value", "bigint"}))

	report, err := CheckDatabase(db)
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "mysql", report.Dialect)
	assert.Len(t, report.Tables, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckDatabase_MissingAndMismatched(t *testing.T) {
	db, mock := setupMockDB(t)
	expectColumns(mock, "workbook_tabs", columns([2]string{"id", "bigint unsigned"}))
	expectColumns(mock, "workbook_cells", columns(
		[2]string{"tab_id", "bigint unsigned"}, [2]string{"row_index", "bigint"},
		[2]string{"col_index", "bigint"}, [2]string{"value", "varchar(255)"}))
	expectColumns(mock, "session_counters", columns())

	report, err := CheckDatabase(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tabs := report.Tables["workbook_tabs"]
	assert.Equal(t, "error", tabs.Status)
	assert.Equal(t, []string{"name"}, tabs.MissingColumns)

	cells := report.Tables["workbook_cells"]
	assert.Equal(t, []string{"value: expected text, got varchar(255)"}, cells.TypeMismatches)

	assert.Equal(t, []string{"name", "value"}, report.Tables["session_counters"].MissingColumns)
	assert.Contains(t, report.Errors, "Table session_counters does not exist")
}

func TestCheckDatabase_InspectFails(t *testing.T) {
	db, _ := setupMockDB(t)

	report, err := CheckDatabase(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, len(Models))
}

func TestFixDatabase(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	report, err := CheckDatabase(db)
	require.NoError(t, err)
	assert.False(t, report.Matched)

	require.NoError(t, FixDatabase(db))

	report, err = CheckDatabase(db)
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
}

func TestParseGormTags(t *testing.T) {
	assert.Equal(t, "id", parseGormColumn("column:id;primaryKey"))
	assert.Equal(t, "value", parseGormColumn("primaryKey;column:value;type:text"))
	assert.Equal(t, "text", parseGormType("column:value;type:text"))
	assert.Equal(t, "", parseGormType("column:id"))
}
