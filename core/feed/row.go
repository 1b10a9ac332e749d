package feed

import (
	"reflect"
	"sort"
)

// UnkeyedKey is the dedup key assigned to rows whose key fields are all empty.
const UnkeyedKey = "unkeyed"

// Row is one record of a table.
type Row struct {
	// Data is the editable field-name to value mapping.
	Data map[string]any
	// Original is a snapshot of Data taken when the feed was built.
	Original map[string]any
	// Duplicates are later rows sharing this row's dedup key.
	Duplicates []*Row
	// Unkeyed marks rows with no key value; push skips them.
	Unkeyed bool
	// Children holds nested collections attached during push.
	// They are never written as cells.
	Children map[string][]*Row
}

// NewRow wraps data in a row with a fresh snapshot.
func NewRow(data map[string]any) *Row {
	if data == nil {
		data = make(map[string]any)
	}
	return &Row{Data: data, Original: copyMap(data)}
}

// Get returns a field value.
func (r *Row) Get(field string) any {
	return r.Data[field]
}

// Set assigns a field value.
func (r *Row) Set(field string, value any) {
	if r.Data == nil {
		r.Data = make(map[string]any)
	}
	r.Data[field] = value
}

// SetChildren attaches a nested collection under field.
func (r *Row) SetChildren(field string, children []*Row) {
	if r.Children == nil {
		r.Children = make(map[string][]*Row)
	}
	r.Children[field] = children
}

// Changes returns the fields whose value differs from the snapshot.
// Fields removed since the snapshot are reported with a nil value.
func (r *Row) Changes() map[string]any {
	changes := make(map[string]any)
	for k, v := range r.Data {
		if orig, ok := r.Original[k]; !ok || !reflect.DeepEqual(orig, v) {
			changes[k] = v
		}
	}
	for k := range r.Original {
		if _, ok := r.Data[k]; !ok {
			changes[k] = nil
		}
	}
	return changes
}

// ChangedFields lists the changed field names in lexical order.
func (r *Row) ChangedFields() []string {
	changes := r.Changes()
	out := make([]string, 0, len(changes))
	for k := range changes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// propagate copies the representative's changes onto each duplicate.
func (r *Row) propagate() {
	changes := r.Changes()
	if len(changes) == 0 {
		return
	}
	for _, dup := range r.Duplicates {
		if dup.Data == nil {
			dup.Data = make(map[string]any)
		}
		for k, v := range changes {
			if v == nil {
				delete(dup.Data, k)
				continue
			}
			dup.Data[k] = copyValue(v)
		}
	}
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
