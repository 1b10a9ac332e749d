// Package utils provides common utility functions for bulkdozer.
// It includes helpers for converting loosely typed cell and payload values
// (strings, JSON numbers, booleans) into the concrete types the engine needs.
package utils
