// Package grammar collects the built-in schemas under their ids.
package grammar

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar/ingest"
	"github.com/reoring/esguard/grammar/mapping"
	"github.com/reoring/esguard/grammar/querydsl"
	"github.com/reoring/esguard/grammar/watcher"
)

// ErrUnknownSchema is returned for ids the catalog does not hold.
var ErrUnknownSchema = errors.New("unknown schema")

// Catalog maps schema ids to ready validators. A Catalog is immutable and
// safe for concurrent use.
type Catalog struct {
	schemas    map[string]g.Schema
	validators map[string]*g.Validator
	ids        []string
}

// New builds a validator for every schema. Ids must be unique.
func New(schemas ...g.Schema) (*Catalog, error) {
	c := &Catalog{
		schemas:    make(map[string]g.Schema, len(schemas)),
		validators: make(map[string]*g.Validator, len(schemas)),
	}
	for _, s := range schemas {
		if s.ID == "" {
			return nil, fmt.Errorf("grammar: schema %q has no id", s.Title)
		}
		if _, dup := c.schemas[s.ID]; dup {
			return nil, fmt.Errorf("grammar: schema id %q registered twice", s.ID)
		}
		v, err := s.Validator()
		if err != nil {
			return nil, fmt.Errorf("grammar: schema %s: %w", s.ID, err)
		}
		c.schemas[s.ID] = s
		c.validators[s.ID] = v
		c.ids = append(c.ids, s.ID)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Builtin returns the built-in schemas with their default caps.
func Builtin() []g.Schema {
	return []g.Schema{querydsl.Schema(), ingest.Schema(), watcher.Schema(), mapping.Schema()}
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(Builtin()...)
	if err != nil {
		panic(err)
	}
	return c
})

// Default returns the catalog of built-in schemas.
func Default() *Catalog { return defaultCatalog() }

// IDs returns the schema ids in lexical order.
func (c *Catalog) IDs() []string { return append([]string(nil), c.ids...) }

// Lookup returns the validator for id.
func (c *Catalog) Lookup(id string) (*g.Validator, error) {
	v, ok := c.validators[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, id)
	}
	return v, nil
}

// Schema returns the schema registered under id.
func (c *Catalog) Schema(id string) (g.Schema, error) {
	s, ok := c.schemas[id]
	if !ok {
		return g.Schema{}, fmt.Errorf("%w: %q", ErrUnknownSchema, id)
	}
	return s, nil
}

// Validate validates doc against the schema id.
func (c *Catalog) Validate(id string, doc any) (*g.Node, error) {
	v, err := c.Lookup(id)
	if err != nil {
		return nil, err
	}
	return v.Validate(doc)
}

// WithCaps returns a catalog in which schema id uses the given caps merged
// over its defaults. c itself is unchanged.
func (c *Catalog) WithCaps(id string, caps g.CapPolicy) (*Catalog, error) {
	s, err := c.Schema(id)
	if err != nil {
		return nil, err
	}
	s = s.WithCaps(s.Caps.Merge(caps))
	v, err := s.Validator()
	if err != nil {
		return nil, fmt.Errorf("grammar: schema %s: %w", id, err)
	}
	out := &Catalog{
		schemas:    make(map[string]g.Schema, len(c.schemas)),
		validators: make(map[string]*g.Validator, len(c.validators)),
		ids:        c.IDs(),
	}
	for k, sc := range c.schemas {
		out.schemas[k] = sc
		out.validators[k] = c.validators[k]
	}
	out.schemas[id] = s
	out.validators[id] = v
	return out, nil
}
