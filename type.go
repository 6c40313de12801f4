package esguard

import (
	"strings"
)

// Type describes the value a field, list item or mapping entry may hold.
// Types are immutable: every modifier returns a copy.
type Type struct {
	kind ValueKind

	enum  []string
	upper bool

	min, max     *float64
	exclusiveMin bool
	capMax       bool // numeric max taken from CapPolicy.MaxCollectionSize

	minItems, maxItems int  // -1 when unset
	capItems           bool // list length bounded by CapPolicy.MaxCollectionSize
	fanOut             bool // mapping size bounded by CapPolicy.MaxFanout

	format string

	elem   *Type
	object *NodeKind
	union  *UnionPoint
	alts   []*Type
}

func newType(k ValueKind) *Type { return &Type{kind: k, minItems: -1, maxItems: -1} }

// String accepts a JSON string.
func String() *Type { return newType(KindString) }

// Number accepts any JSON number.
func Number() *Type { return newType(KindNumber) }

// Integer accepts integral JSON numbers.
func Integer() *Type { return newType(KindInteger) }

// Bool accepts true or false.
func Bool() *Type { return newType(KindBool) }

// Enum accepts one of the given string literals.
func Enum(values ...string) *Type {
	t := newType(KindEnum)
	t.enum = append([]string(nil), values...)
	return t
}

// ListOf accepts a JSON array whose items match elem.
func ListOf(elem *Type) *Type {
	t := newType(KindList)
	t.elem = elem
	return t
}

// MapOf accepts a JSON object with arbitrary keys whose values match elem.
func MapOf(elem *Type) *Type {
	t := newType(KindMapping)
	t.elem = elem
	return t
}

// FanOut is MapOf with the entry count bounded by CapPolicy.MaxFanout.
func FanOut(elem *Type) *Type {
	t := MapOf(elem)
	t.fanOut = true
	return t
}

// ObjectOf accepts a JSON object shaped by the fixed NodeKind k.
func ObjectOf(k *NodeKind) *Type {
	t := newType(KindObject)
	t.object = k
	return t
}

// AnyObject accepts any JSON object and keeps it verbatim.
func AnyObject() *Type { return newType(KindObject) }

// Any accepts every JSON value, including null.
func Any() *Type { return newType(KindAny) }

// Ref accepts a node of the union point u.
func Ref(u *UnionPoint) *Type {
	t := newType(KindUnion)
	t.union = u
	return t
}

// Either accepts the first alternative that validates without issues.
func Either(alts ...*Type) *Type {
	t := newType(KindEither)
	t.alts = append([]*Type(nil), alts...)
	return t
}

func (t *Type) copy() *Type {
	c := *t
	return &c
}

// Kind reports the value kind.
func (t *Type) Kind() ValueKind { return t.kind }

// Min sets an inclusive lower bound.
func (t *Type) Min(v float64) *Type {
	c := t.copy()
	c.min, c.exclusiveMin = &v, false
	return c
}

// Max sets an inclusive upper bound.
func (t *Type) Max(v float64) *Type {
	c := t.copy()
	c.max = &v
	return c
}

// Positive requires values strictly greater than zero.
func (t *Type) Positive() *Type {
	c := t.Min(0)
	c.exclusiveMin = true
	return c
}

// NonNegative requires values >= 0.
func (t *Type) NonNegative() *Type { return t.Min(0) }

// CapMax bounds the value by CapPolicy.MaxCollectionSize.
func (t *Type) CapMax() *Type {
	c := t.copy()
	c.capMax = true
	return c
}

// MinItems sets the minimum list length or mapping size.
func (t *Type) MinItems(n int) *Type {
	c := t.copy()
	c.minItems = n
	return c
}

// MaxItems sets a fixed maximum list length or mapping size.
func (t *Type) MaxItems(n int) *Type {
	c := t.copy()
	c.maxItems = n
	return c
}

// CapItems bounds the list length by CapPolicy.MaxCollectionSize.
func (t *Type) CapItems() *Type {
	c := t.copy()
	c.capItems = true
	return c
}

// Format attaches a named string checker registered on the Validator.
func (t *Type) Format(name string) *Type {
	c := t.copy()
	c.format = name
	return c
}

// Upper canonicalizes enum input to upper case before matching.
func (t *Type) Upper() *Type {
	c := t.copy()
	c.upper = true
	c.enum = make([]string, len(t.enum))
	for i, v := range t.enum {
		c.enum[i] = strings.ToUpper(v)
	}
	return c
}

// describe renders the type for type_mismatch messages.
func (t *Type) describe() string {
	switch t.kind {
	case KindEnum, KindString:
		return "string"
	case KindObject:
		return "object"
	case KindUnion:
		return "object"
	case KindList:
		return "array"
	case KindMapping:
		return "object"
	case KindEither:
		parts := make([]string, 0, len(t.alts))
		seen := map[string]bool{}
		for _, a := range t.alts {
			d := a.describe()
			if !seen[d] {
				seen[d] = true
				parts = append(parts, d)
			}
		}
		return strings.Join(parts, "|")
	default:
		return t.kind.String()
	}
}

// accepts reports whether raw has the JSON shape of t, ignoring constraints.
func (t *Type) accepts(raw any) bool {
	switch t.kind {
	case KindAny:
		return true
	case KindEither:
		for _, a := range t.alts {
			if a.accepts(raw) {
				return true
			}
		}
		return false
	}
	return t.describe() == jsonTypeName(raw) || (t.kind == KindInteger && jsonTypeName(raw) == "number")
}
