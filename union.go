package esguard

import (
	"fmt"
	"sort"
)

// UnionStyle selects how a union point names its variant.
type UnionStyle int

const (
	// ByKey: the variant name is the single discriminator key of the object,
	// e.g. {"terms": {...}}.
	ByKey UnionStyle = iota
	// ByValue: the variant name is the string value of a discriminator field,
	// e.g. {"type": "keyword", ...}.
	ByValue
)

// UnionPoint is a place in the grammar where exactly one of several node
// kinds must appear. Union points are created first and defined later so
// grammars can refer to themselves.
type UnionPoint struct {
	name          string
	reg           *Registry
	style         UnionStyle
	discriminator string
	defaultKind   string
	fallbackKind  string
	companions    *NodeKind
	defined       bool
}

// UnionOption configures a UnionPoint at Define time.
type UnionOption func(*UnionPoint)

// WithCompanions declares keys that sit beside the variant key of a ByKey
// union, e.g. "aggs" and "meta" on aggregations.
func WithCompanions(k *NodeKind) UnionOption { return func(u *UnionPoint) { u.companions = k } }

// ByDiscriminator switches the union to ByValue resolution on field.
func ByDiscriminator(field string) UnionOption {
	return func(u *UnionPoint) { u.style, u.discriminator = ByValue, field }
}

// DefaultKind names the variant used when a ByValue discriminator is absent.
func DefaultKind(name string) UnionOption { return func(u *UnionPoint) { u.defaultKind = name } }

// FallbackKind names the variant used for unknown ByValue discriminator values.
func FallbackKind(name string) UnionOption { return func(u *UnionPoint) { u.fallbackKind = name } }

// NewUnion declares a union point named name; call Define before validating.
func NewUnion(name string) *UnionPoint { return &UnionPoint{name: name} }

// Define binds the candidate registry. A union point is defined once.
func (u *UnionPoint) Define(reg *Registry, opts ...UnionOption) *UnionPoint {
	if u.defined {
		panic(fmt.Sprintf("esguard: union point %s defined twice", u.name))
	}
	if reg == nil {
		panic(fmt.Sprintf("esguard: union point %s defined with nil registry", u.name))
	}
	u.reg = reg
	for _, o := range opts {
		o(u)
	}
	for _, n := range []string{u.defaultKind, u.fallbackKind} {
		if n != "" && !reg.Has(n) {
			panic(fmt.Sprintf("esguard: union point %s: %q is not in registry %s", u.name, n, reg.Family()))
		}
	}
	if u.companions != nil && u.style == ByKey {
		for _, fs := range u.companions.Fields {
			if reg.Has(fs.Name) || reg.Has(fs.WireName) {
				panic(fmt.Sprintf("esguard: union point %s: companion %q shadows a kind", u.name, fs.Name))
			}
		}
	}
	u.defined = true
	return u
}

// Name returns the union point name, which is also its CapPolicy.Depth key.
func (u *UnionPoint) Name() string { return u.name }

// Registry returns the candidate kinds.
func (u *UnionPoint) Registry() *Registry { return u.reg }

// Style reports how the variant is named.
func (u *UnionPoint) Style() UnionStyle { return u.style }

// Discriminator returns the ByValue discriminator field name.
func (u *UnionPoint) Discriminator() string { return u.discriminator }

// Companions returns the companion kind, or nil.
func (u *UnionPoint) Companions() *NodeKind { return u.companions }

// Resolve applies the exactly-one-of rule to raw and returns the chosen kind.
func (u *UnionPoint) Resolve(raw map[string]any) (*NodeKind, Issues) {
	r := u.resolve(raw, Path{})
	if len(r.issues) > 0 {
		return nil, r.issues
	}
	return r.kind, nil
}

type resolution struct {
	kind     *NodeKind
	tag      string   // ByValue discriminator value as given (or defaulted)
	presence Presence // ByValue discriminator presence
	issues   Issues
}

func (u *UnionPoint) resolve(raw map[string]any, p Path) resolution {
	if u.style == ByValue {
		return u.resolveByValue(raw, p)
	}
	var found []string
	for key := range raw {
		if u.companions != nil && u.companions.declares(key) {
			continue
		}
		if u.reg.Has(key) {
			found = append(found, key)
		}
	}
	sort.Strings(found)
	switch len(found) {
	case 0:
		return resolution{issues: Issues{IssueAt(p, CodeMissingDiscriminator, map[string]any{
			"union":      u.name,
			"candidates": u.reg.Names(),
		})}}
	case 1:
		k, _ := u.reg.Lookup(found[0])
		return resolution{kind: k}
	default:
		return resolution{issues: Issues{IssueAt(p, CodeConflictingKinds, map[string]any{
			"union": u.name,
			"kinds": found,
		})}}
	}
}

func (u *UnionPoint) resolveByValue(raw map[string]any, p Path) resolution {
	dv, present := raw[u.discriminator]
	if !present || dv == nil {
		if u.defaultKind == "" {
			return resolution{issues: Issues{IssueAt(p, CodeMissingDiscriminator, map[string]any{
				"union":         u.name,
				"discriminator": u.discriminator,
				"candidates":    u.reg.Names(),
			})}}
		}
		k, _ := u.reg.Lookup(u.defaultKind)
		return resolution{kind: k, tag: u.defaultKind, presence: PresenceDefaultApplied}
	}
	tag, ok := dv.(string)
	if !ok {
		return resolution{issues: Issues{IssueAt(p.Field(u.discriminator), CodeTypeMismatch, map[string]any{
			"expected": "string",
			"got":      jsonTypeName(dv),
		})}}
	}
	if k, err := u.reg.Lookup(tag); err == nil {
		return resolution{kind: k, tag: tag, presence: PresenceSeen}
	}
	if u.fallbackKind != "" {
		k, _ := u.reg.Lookup(u.fallbackKind)
		return resolution{kind: k, tag: tag, presence: PresenceSeen}
	}
	return resolution{issues: Issues{IssueAt(p.Field(u.discriminator), CodeDiscriminatorUnknown, map[string]any{
		"union":      u.name,
		"value":      tag,
		"candidates": u.reg.Names(),
	})}}
}
