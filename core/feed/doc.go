// Package feed provides a deduplicating view over a workbook table.
//
// Rows that share the values of the configured key fields are collapsed into
// a single visible representative; the others are kept as its duplicates.
// On Save, the fields edited on a representative are copied onto each of its
// duplicates before the whole table is rewritten, so a single edit applies to
// every row of the same entity.
package feed
