// Package bulk runs sync sessions between a workbook and Campaign Manager.
//
// A Service owns the workbook store, the identifier store and the session
// counter, and builds one entity.Engine per session generation. On top of
// the per-entity engine operations it runs whole-workbook loads and pushes
// in dependency order, honors the Entity Configs modes, writes job logs to
// the Log table and backs the id map up to object storage.
//
// # HTTP Endpoints
//
//   - POST /bulk/jobs : Starts a session and returns its generation.
//   - GET /bulk/configs : Entity modes.
//   - POST /bulk/load : Loads the workbook.
//   - POST /bulk/push : Pushes the workbook (supports ?dry_run=true).
//   - GET /bulk/hierarchy : Campaign tree (supports ?export=true).
//   - POST /bulk/entities/{entity}/identify|fetch|load|push : Single entity operations.
//   - GET|PUT|DELETE /bulk/idmap : Id map access.
//   - POST /bulk/idmap/backup|restore : Id map backups.
package bulk
