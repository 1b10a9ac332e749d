// Package remotetest provides an in-memory remote.Service for tests.
package remotetest

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"bulkdozer/core/remote"
	"bulkdozer/core/utils"
)

// Call records one request made to the service.
type Call struct {
	Op     string
	Type   string
	ID     string
	Params remote.Options
}

// Service stores entities per type and serves them with pagination.
// List filters: "ids" matches ids, "groupIds" matches placementGroupId,
// "<field>Ids" matches "<field>Id";
// any other key matches the field of the same name.
type Service struct {
	mu       sync.Mutex
	data     map[string][]remote.Entity
	tokens   map[string]remote.Options
	failures map[string][]error
	nextID   int64

	// PageSize bounds every list page. Zero means unbounded.
	PageSize int
	// Calls lists the requests in order.
	Calls []Call
}

// New creates an empty service.
func New() *Service {
	return &Service{
		data:     make(map[string][]remote.Entity),
		tokens:   make(map[string]remote.Options),
		failures: make(map[string][]error),
		nextID:   1000,
	}
}

// Seed appends entities of typ.
func (s *Service) Seed(typ string, items ...remote.Entity) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		clone, _ := remote.Clone(item)
		s.data[typ] = append(s.data[typ], clone)
	}
	return s
}

// Fail queues errors returned by the next calls of op ("list", "get", "insert", "update").
func (s *Service) Fail(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], errs...)
}

// Count returns how many calls of op were made for typ.
func (s *Service) Count(op, typ string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.Calls {
		if c.Op == op && c.Type == typ {
			n++
		}
	}
	return n
}

// Stored returns a copy of the stored entity typ/id.
func (s *Service) Stored(typ, id string) remote.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.find(typ, id); e != nil {
		clone, _ := remote.Clone(e)
		return clone
	}
	return nil
}

// All returns copies of every stored entity of typ.
func (s *Service) All(typ string) []remote.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]remote.Entity, 0, len(s.data[typ]))
	for _, e := range s.data[typ] {
		clone, _ := remote.Clone(e)
		out = append(out, clone)
	}
	return out
}

func (s *Service) List(_ context.Context, typ, _ string, params remote.Options) (remote.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Op: "list", Type: typ, Params: params})
	if err := s.popFailure("list"); err != nil {
		return remote.Page{}, err
	}

	filters := params
	offset := 0
	if token, ok := params["pageToken"].(string); ok {
		stored, known := s.tokens[token]
		if !known {
			return remote.Page{}, fmt.Errorf("invalid page token %q", token)
		}
		if len(params) == 1 {
			filters = stored
		}
		offset, _ = strconv.Atoi(strings.TrimPrefix(token, "page-"))
	}

	var matched []remote.Entity
	for _, e := range s.data[typ] {
		if matches(e, filters) {
			clone, _ := remote.Clone(e)
			matched = append(matched, clone)
		}
	}

	page := remote.Page{}
	if offset >= len(matched) {
		return page, nil
	}
	end := len(matched)
	if s.PageSize > 0 && offset+s.PageSize < end {
		end = offset + s.PageSize
	}
	page.Items = matched[offset:end]
	if end < len(matched) {
		page.NextPageToken = "page-" + strconv.Itoa(end)
		s.tokens[page.NextPageToken] = filters
	}
	return page, nil
}

func (s *Service) Get(_ context.Context, typ, id string) (remote.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Op: "get", Type: typ, ID: id})
	if err := s.popFailure("get"); err != nil {
		return nil, err
	}
	e := s.find(typ, id)
	if e == nil {
		return nil, &remote.Error{Op: "get", Type: typ, StatusCode: 404, Message: "not found"}
	}
	return remote.Clone(e)
}

func (s *Service) Insert(_ context.Context, typ string, obj remote.Entity) (remote.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Op: "insert", Type: typ})
	if err := s.popFailure("insert"); err != nil {
		return nil, err
	}
	clone, err := remote.Clone(obj)
	if err != nil {
		return nil, err
	}
	s.nextID++
	clone["id"] = strconv.FormatInt(s.nextID, 10)
	s.data[typ] = append(s.data[typ], clone)
	return remote.Clone(clone)
}

func (s *Service) Update(_ context.Context, typ string, obj remote.Entity) (remote.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := remote.ID(obj)
	s.Calls = append(s.Calls, Call{Op: "update", Type: typ, ID: id})
	if err := s.popFailure("update"); err != nil {
		return nil, err
	}
	clone, err := remote.Clone(obj)
	if err != nil {
		return nil, err
	}
	for i, e := range s.data[typ] {
		if remote.ID(e) == id {
			s.data[typ][i] = clone
			return remote.Clone(clone)
		}
	}
	return nil, &remote.Error{Op: "update", Type: typ, StatusCode: 404, Message: "not found"}
}

func (s *Service) popFailure(op string) error {
	queue := s.failures[op]
	if len(queue) == 0 {
		return nil
	}
	s.failures[op] = queue[1:]
	return queue[0]
}

func (s *Service) find(typ, id string) remote.Entity {
	for _, e := range s.data[typ] {
		if remote.ID(e) == id {
			return e
		}
	}
	return nil
}

var filterAliases = map[string]string{
	"ids":      "id",
	"groupIds": "placementGroupId",
}

func matches(e remote.Entity, filters remote.Options) bool {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "pageToken" {
			continue
		}
		v := filters[k]
		field := k
		if alias, ok := filterAliases[k]; ok {
			field = alias
		} else if strings.HasSuffix(k, "Ids") {
			field = strings.TrimSuffix(k, "s")
		}

		if values := toStrings(v); values != nil {
			if !contains(values, utils.ToString(e[field])) {
				return false
			}
			continue
		}
		if utils.ToString(e[field]) != utils.ToString(v) {
			return false
		}
	}
	return true
}

func toStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, len(vv))
		for i, x := range vv {
			out[i] = utils.ToString(x)
		}
		return out
	default:
		return nil
	}
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
