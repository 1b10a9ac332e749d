// Package tabular implements the workbook: named tables whose first row is a header
// and whose following rows are entities of one type.
//
// # Store Contract
//
// Store is the grid I/O surface the sync engine consumes: table existence, row reads
// that stop at the first empty row, full data-row rewrites (A2:AZ), range clears,
// and single-cell reads and block writes in A1 notation. Workbook adds table listing,
// header access and table creation for tooling.
//
// # Implementations
//
//   - Memory: an in-process workbook used by tests and dry runs.
//   - SQLStore: a GORM-backed workbook (MySQL or SQLite) that keeps one row per
//     non-blank cell with JSON encoded values.
//
// # Usage
//
//	store := tabular.NewSQLStore(db)
//	if err := store.Migrate(ctx); err != nil {
//	    return err
//	}
//	rows, err := store.ReadRows(ctx, "Campaign")
package tabular
