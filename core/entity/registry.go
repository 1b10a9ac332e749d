package entity

import "fmt"

// Registry maps entity names to strategies, preserving registration order.
type Registry struct {
	order      []string
	strategies map[string]Strategy
}

// NewRegistry creates a registry holding strategies.
// It panics on duplicate names since registries are built at startup.
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy)}
	for _, s := range strategies {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds s under its descriptor name.
func (r *Registry) Register(s Strategy) error {
	name := s.Descriptor().Name
	if name == "" {
		return fmt.Errorf("strategy %T has no name", s)
	}
	if _, ok := r.strategies[name]; ok {
		return fmt.Errorf("strategy %s already registered", name)
	}
	r.order = append(r.order, name)
	r.strategies[name] = s
	return nil
}

// Get returns the strategy registered as name.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Descriptors returns every descriptor in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.strategies[name].Descriptor())
	}
	return out
}
