// Package database handles the workbook database connection and schema inspection.
//
// It wraps GORM to open either a MySQL server or a SQLite file (the default, which
// keeps a workbook self-contained on disk) based on the application's configuration.
//
// # Connect
//
// Connect establishes the connection and verifies it with a ping bounded by
// TimeoutSeconds. In-memory SQLite connections are pinned to a single pooled
// connection so that every query sees the same database.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects. The workbook
// integrity check uses it to verify that the tab and cell tables carry the
// columns the tabular store expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "workbook_cells")
package database
