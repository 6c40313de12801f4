package esguard

import (
	"fmt"
	"sort"
)

// GroupMode selects how a FieldGroup constrains its members.
type GroupMode int

const (
	GroupAtMostOne  GroupMode = iota // mutually_exclusive_fields when two or more are present
	GroupExactlyOne                  // as GroupAtMostOne, plus missing_one_of when none is
	GroupAtLeastOne                  // missing_one_of when none is present
)

// FieldGroup is a mutual-exclusion or alternative-requirement constraint over
// declared field names.
type FieldGroup struct {
	Fields []string
	Mode   GroupMode
}

// FieldSpec declares a field of a NodeKind.
type FieldSpec struct {
	Name     string // in-memory name
	WireName string // name on the wire; equals Name unless aliased
	Type     *Type
	Required bool
	Default  any // applied when absent; never serialized unless asked to
}

// NodeKind is the immutable descriptor of one node shape.
type NodeKind struct {
	Name      string
	Fields    []*FieldSpec
	Extra     ExtraPolicy
	ExtraType *Type
	Groups    []FieldGroup
	// Value is set for variants whose body is not an object, e.g. an interval string.
	Value *Type
	// Keyed requires exactly one undeclared key, valued by this type
	// (e.g. the field name in {"term": {"status": "active"}}).
	Keyed *Type

	byKey map[string]*FieldSpec // both names and wire names
}

// Field returns the declared field with the given in-memory or wire name.
func (k *NodeKind) Field(name string) (*FieldSpec, bool) {
	fs, ok := k.byKey[name]
	return fs, ok
}

func (k *NodeKind) declares(key string) bool {
	_, ok := k.byKey[key]
	return ok
}

// KindBuilder assembles a NodeKind. Forbid is the default extra policy.
type KindBuilder struct {
	k    *NodeKind
	errs []error
}

type fieldStep struct {
	b  *KindBuilder
	fs *FieldSpec
}

// Kind starts a NodeKind named name.
func Kind(name string) *KindBuilder {
	return &KindBuilder{k: &NodeKind{Name: name, Extra: ExtraForbid}}
}

// Field registers a field and returns a step for field-level modifiers.
func (b *KindBuilder) Field(name string, t *Type) *fieldStep {
	fs := &FieldSpec{Name: name, WireName: name, Type: t}
	b.k.Fields = append(b.k.Fields, fs)
	return &fieldStep{b: b, fs: fs}
}

// Include copies the fields of other kinds, in order. Used for shared bases.
func (b *KindBuilder) Include(bases ...*NodeKind) *KindBuilder {
	for _, base := range bases {
		for _, fs := range base.Fields {
			c := *fs
			b.k.Fields = append(b.k.Fields, &c)
		}
		b.k.Groups = append(b.k.Groups, base.Groups...)
	}
	return b
}

// Forbid rejects undeclared keys.
func (b *KindBuilder) Forbid() *KindBuilder { b.k.Extra, b.k.ExtraType = ExtraForbid, nil; return b }

// Allow keeps undeclared keys verbatim.
func (b *KindBuilder) Allow() *KindBuilder { b.k.Extra, b.k.ExtraType = ExtraAllow, nil; return b }

// AllowTyped keeps undeclared keys whose values match t.
func (b *KindBuilder) AllowTyped(t *Type) *KindBuilder {
	b.k.Extra, b.k.ExtraType = ExtraAllowTyped, t
	return b
}

// Keyed makes the kind carry exactly one user-named key valued by t.
func (b *KindBuilder) Keyed(t *Type) *KindBuilder { b.k.Keyed = t; return b }

// Body declares a non-object body for the kind.
func (b *KindBuilder) Body(t *Type) *KindBuilder { b.k.Value = t; return b }

// AtMostOne forbids two or more of names at once.
func (b *KindBuilder) AtMostOne(names ...string) *KindBuilder {
	return b.group(GroupAtMostOne, names)
}

// ExactlyOne requires exactly one of names.
func (b *KindBuilder) ExactlyOne(names ...string) *KindBuilder {
	return b.group(GroupExactlyOne, names)
}

// AtLeastOne requires one or more of names.
func (b *KindBuilder) AtLeastOne(names ...string) *KindBuilder {
	return b.group(GroupAtLeastOne, names)
}

func (b *KindBuilder) group(mode GroupMode, names []string) *KindBuilder {
	if len(names) < 2 {
		b.errs = append(b.errs, fmt.Errorf("kind %s: group needs at least two fields, got %v", b.k.Name, names))
		return b
	}
	b.k.Groups = append(b.k.Groups, FieldGroup{Fields: append([]string(nil), names...), Mode: mode})
	return b
}

// Build validates the declaration and returns the NodeKind.
func (b *KindBuilder) Build() (*NodeKind, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	k := b.k
	if k.Name == "" {
		return nil, fmt.Errorf("kind: empty name")
	}
	if k.Value != nil && (len(k.Fields) > 0 || k.Keyed != nil) {
		return nil, fmt.Errorf("kind %s: a body type excludes fields", k.Name)
	}
	if k.Extra == ExtraAllowTyped && k.ExtraType == nil {
		return nil, fmt.Errorf("kind %s: typed extras need a type", k.Name)
	}
	k.byKey = make(map[string]*FieldSpec, len(k.Fields)*2)
	for _, fs := range k.Fields {
		if fs.Type == nil {
			return nil, fmt.Errorf("kind %s: field %s has no type", k.Name, fs.Name)
		}
		for _, key := range []string{fs.Name, fs.WireName} {
			if prev, dup := k.byKey[key]; dup && prev != fs {
				return nil, fmt.Errorf("kind %s: field name %q declared twice", k.Name, key)
			}
			k.byKey[key] = fs
		}
	}
	for _, g := range k.Groups {
		for _, n := range g.Fields {
			if _, ok := k.byKey[n]; !ok {
				return nil, fmt.Errorf("kind %s: group references undeclared field %q", k.Name, n)
			}
		}
	}
	b.k = &NodeKind{Name: k.Name}
	return k, nil
}

// MustBuild is Build that panics on error; grammars are declared at init.
func (b *KindBuilder) MustBuild() *NodeKind {
	k, err := b.Build()
	if err != nil {
		panic(err)
	}
	return k
}

// Required marks the current field as required.
func (f *fieldStep) Required() *fieldStep { f.fs.Required = true; return f }

// Default sets the value applied when the field is absent.
func (f *fieldStep) Default(v any) *fieldStep { f.fs.Default = v; return f }

// Wire sets the wire name when it differs from the in-memory name.
func (f *fieldStep) Wire(name string) *fieldStep { f.fs.WireName = name; return f }

func (f *fieldStep) Field(name string, t *Type) *fieldStep   { return f.b.Field(name, t) }
func (f *fieldStep) Include(bases ...*NodeKind) *KindBuilder { return f.b.Include(bases...) }
func (f *fieldStep) Forbid() *KindBuilder                    { return f.b.Forbid() }
func (f *fieldStep) Allow() *KindBuilder                     { return f.b.Allow() }
func (f *fieldStep) AllowTyped(t *Type) *KindBuilder         { return f.b.AllowTyped(t) }
func (f *fieldStep) Keyed(t *Type) *KindBuilder              { return f.b.Keyed(t) }
func (f *fieldStep) AtMostOne(names ...string) *KindBuilder  { return f.b.AtMostOne(names...) }
func (f *fieldStep) ExactlyOne(names ...string) *KindBuilder { return f.b.ExactlyOne(names...) }
func (f *fieldStep) AtLeastOne(names ...string) *KindBuilder { return f.b.AtLeastOne(names...) }
func (f *fieldStep) Build() (*NodeKind, error)               { return f.b.Build() }
func (f *fieldStep) MustBuild() *NodeKind                    { return f.b.MustBuild() }

// sortedKeys returns the keys of m in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
