// Package checks implements the individual integrity checks run by the integrity feature.
package checks
