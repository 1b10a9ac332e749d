package entity

import (
	"strings"
	"time"

	"bulkdozer/core/utils"
)

// Assign copies row[rowField] onto obj[objField].
//
// A required field is always written, using def when the row value is falsy.
// An optional field is removed first and only written when the row value or
// def is truthy, so remote values survive blank cells only through def.
// A nil result removes the field.
func Assign(obj map[string]any, objField string, row map[string]any, rowField string, required bool, def any) {
	value := row[rowField]
	if !utils.IsTruthy(value) {
		value = def
	}

	if required {
		if value == nil {
			delete(obj, objField)
			return
		}
		obj[objField] = value
		return
	}

	delete(obj, objField)
	if utils.IsTruthy(value) {
		obj[objField] = value
	}
}

// IsTrue reports whether v is boolean true or a string spelling "true".
func IsTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	default:
		return false
	}
}

// PushUnique appends item unless list already holds it.
func PushUnique[T comparable](list []T, item T) []T {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05-0700"
)

var inputLayouts = []string{
	time.RFC3339,
	dateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateLayout,
	"1/2/2006",
	"01/02/2006",
}

// ParseTime reads a cell value holding a date or date-time.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range inputLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// FormatDate renders v as yyyy-MM-dd in UTC. Unparseable strings are
// returned as they are and empty values as "".
func FormatDate(v any) string {
	if !utils.IsTruthy(v) {
		return ""
	}
	if ts, ok := ParseTime(v); ok {
		return ts.UTC().Format(dateLayout)
	}
	return utils.ToString(v)
}

// FormatDateTime renders time values as yyyy-MM-ddTHH:mm:ssZ. Strings are
// passed through since the remote API accepts them as typed.
func FormatDateTime(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(dateTimeLayout)
	default:
		return utils.ToString(v)
	}
}
