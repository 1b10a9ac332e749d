package remote

import (
	"encoding/json"
	"fmt"

	"bulkdozer/core/utils"
)

// Entity is an opaque JSON-shaped remote object.
type Entity = map[string]any

// Options are list filters. Values are scalars or string slices.
type Options map[string]any

// Page is one page of a list response.
type Page struct {
	Items         []Entity
	NextPageToken string
}

// ID returns the canonical string form of e["id"], or "" when absent.
func ID(e Entity) string {
	if e == nil {
		return ""
	}
	return utils.ToString(e["id"])
}

// Clone deep copies an entity through its JSON form.
func Clone(e Entity) (Entity, error) {
	if e == nil {
		return nil, nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	return decode(b)
}

func (o Options) clone() Options {
	out := make(Options, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	return out
}

// key renders the options canonically; map keys are sorted by encoding/json.
func (o Options) key() string {
	b, err := json.Marshal(o)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(o))
	}
	return string(b)
}

func decode(b []byte) (Entity, error) {
	var e Entity
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return e, nil
}
