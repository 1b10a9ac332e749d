// Package idstore keeps the durable mapping between temporary workbook ids
// ("ext..." values typed by users for rows not yet created) and the concrete
// ids the remote API assigns on insert.
//
// The mapping is namespaced by table and symmetric: Translate resolves either
// direction. It is persisted as JSON split into 50,000 character segments laid
// out across row 1 (A1:Z1) of the Store table.
package idstore
