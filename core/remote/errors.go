package remote

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRetriesExhausted matches every RetriesExhaustedError.
var ErrRetriesExhausted = errors.New("remote: retries exhausted")

// ErrNotFound is returned when an entity expected to exist is missing.
var ErrNotFound = errors.New("remote: entity not found")

// Error is a failed remote call.
type Error struct {
	// Op is the call that failed (list, get, insert, update).
	Op string
	// Type is the resource type.
	Type string
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int
	// Message is the remote or transport message.
	Message string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("remote: %s %s: status %d: %s", e.Op, e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote: %s %s: %s", e.Op, e.Type, e.Message)
}

// RetriesExhaustedError wraps the last transient failure once retries run out.
type RetriesExhaustedError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("remote: %s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Err }

func (e *RetriesExhaustedError) Is(target error) bool { return target == ErrRetriesExhausted }

// transientMarkers are lowercased message fragments of retryable failures.
var transientMarkers = []string{
	"rate limit",
	"ratelimit",
	"quota",
	"try again",
	"internal error",
	"backend error",
	"service unavailable",
	"bad gateway",
	"gateway timeout",
	"status 500",
	"status 502",
	"status 503",
	"status 504",
	"document is missing",
	"is missing (perhaps it was deleted",
	"empty response",
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrRetriesExhausted) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
