// Package integrity provides workbook health checks.
//
// Unlike the 'bulk' package which moves entities between the workbook and
// Campaign Manager, this package validates the structural requirements the
// sync relies on.
//
// # Checks Provided
//
//   - Workbook: Every registered entity has a table whose header holds its id and key fields.
//   - Store: The id map table exists and decodes.
//   - Database: The workbook database schema matches the GORM models (columns, types).
//   - Structure: The export and backup folders exist in the storage bucket.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks (supports ?fix=true).
//   - GET /integrity/workbook : Runs the workbook check (supports ?fix=true).
//   - GET /integrity/store : Runs the id map check (supports ?fix=true).
//   - GET /integrity/database : Runs the schema check (supports ?fix=true).
//   - GET /integrity/structure : Runs the structure check (supports ?fix=true).
package integrity
