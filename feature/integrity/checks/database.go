package checks

import (
	"fmt"
	"reflect"
	"strings"

	"bulkdozer/core/database"
	"bulkdozer/core/session"
	"bulkdozer/core/tabular"

	"gorm.io/gorm"
)

// Models are the GORM models the workbook database must hold.
var Models = []any{
	tabular.TabModel{},
	tabular.CellModel{},
	session.CounterModel{},
}

// DatabaseReport strictly types the result of a database schema check.
type DatabaseReport struct {
	Dialect string                 `json:"dialect"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableSchema `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableSchema is the schema check result of one database table.
type TableSchema struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckDatabase verifies the database schema using the GORM models as the source of truth.
func CheckDatabase(db *gorm.DB) (*DatabaseReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &DatabaseReport{
		Dialect: db.Dialector.Name(),
		Tables:  make(map[string]TableSchema),
		Matched: true,
		Errors:  []string{},
	}

	for _, model := range Models {
		val := reflect.TypeOf(model)
		tabler, ok := reflect.New(val).Interface().(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", val.Name())
		}
		tableName := tabler.TableName()

		schema := TableSchema{
			MissingColumns: []string{},
			TypeMismatches: []string{},
			Status:         "ok",
		}

		actualCols, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}
		if len(actualCols) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", tableName))
			report.Matched = false
			schema.Status = "error"
		}

		actualMap := make(map[string]database.ColumnInfo)
		for _, col := range actualCols {
			actualMap[col.Field] = col
		}

		for i := 0; i < val.NumField(); i++ {
			gormTag := val.Field(i).Tag.Get("gorm")

			colName := parseGormColumn(gormTag)
			if colName == "" {
				continue
			}

			actCol, exists := actualMap[colName]
			if !exists {
				schema.MissingColumns = append(schema.MissingColumns, colName)
				schema.Status = "error"
				report.Matched = false
				continue
			}

			// Only columns with an explicit type are compared.
			expType := strings.ToLower(parseGormType(gormTag))
			if expType != "" && !strings.Contains(actCol.Type, expType) {
				mismatch := fmt.Sprintf("%s: expected %s, got %s", colName, expType, actCol.Type)
				schema.TypeMismatches = append(schema.TypeMismatches, mismatch)
				schema.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[tableName] = schema
	}

	return report, nil
}

// FixDatabase creates the missing tables and columns.
func FixDatabase(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	models := make([]any, len(Models))
	for i, m := range Models {
		models[i] = reflect.New(reflect.TypeOf(m)).Interface()
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate workbook database: %w", err)
	}
	return nil
}

// Helpers to parse simple GORM tags
func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
