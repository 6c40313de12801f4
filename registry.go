package esguard

import (
	"fmt"
	"sort"
)

// Registry is the static table of discriminator name to NodeKind for one
// family of node kinds (query clauses, aggregations, processors, ...).
type Registry struct {
	family string
	kinds  map[string]*NodeKind
	names  []string
}

// NewRegistry indexes kinds by name. Duplicate names are rejected.
func NewRegistry(family string, kinds ...*NodeKind) (*Registry, error) {
	r := &Registry{family: family, kinds: make(map[string]*NodeKind, len(kinds))}
	for _, k := range kinds {
		if k == nil {
			return nil, fmt.Errorf("registry %s: nil kind", family)
		}
		if _, dup := r.kinds[k.Name]; dup {
			return nil, fmt.Errorf("registry %s: kind %q registered twice", family, k.Name)
		}
		r.kinds[k.Name] = k
		r.names = append(r.names, k.Name)
	}
	sort.Strings(r.names)
	return r, nil
}

// MustRegistry is NewRegistry that panics on error.
func MustRegistry(family string, kinds ...*NodeKind) *Registry {
	r, err := NewRegistry(family, kinds...)
	if err != nil {
		panic(err)
	}
	return r
}

// Family names the registry.
func (r *Registry) Family() string { return r.family }

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*NodeKind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrKindNotFound, r.family, name)
	}
	return k, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.kinds[name]
	return ok
}

// Names returns the registered names in lexical order.
func (r *Registry) Names() []string { return append([]string(nil), r.names...) }

// Len returns the number of registered kinds.
func (r *Registry) Len() int { return len(r.names) }

// Subset derives a closed registry holding only the named kinds.
func (r *Registry) Subset(family string, names ...string) (*Registry, error) {
	kinds := make([]*NodeKind, 0, len(names))
	for _, n := range names {
		k, err := r.Lookup(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return NewRegistry(family, kinds...)
}

// MustSubset is Subset that panics on error.
func (r *Registry) MustSubset(family string, names ...string) *Registry {
	s, err := r.Subset(family, names...)
	if err != nil {
		panic(err)
	}
	return s
}
