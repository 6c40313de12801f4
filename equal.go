package esguard

import (
	"encoding/json"
)

// Equal reports structural equivalence of two validated trees: same kinds,
// same field values by name, lists in order, mappings as sets, numbers
// compared numerically. Presence flags are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Union != b.Union || a.Kind != b.Kind || a.Discriminator != b.Discriminator {
		return false
	}
	return fieldsEqual(a.Fields, b.Fields) && fieldsEqual(a.Companions, b.Companions) && ValueEqual(a.Body, b.Body)
}

func fieldsEqual(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	idx := make(map[string]any, len(b))
	for _, f := range b {
		idx[f.Name] = f.Value
	}
	for _, f := range a {
		v, ok := idx[f.Name]
		if !ok || !ValueEqual(f.Value, v) {
			return false
		}
	}
	return true
}

// ValueEqual compares two validated (or free-form decoded) values.
func ValueEqual(a, b any) bool {
	switch x := a.(type) {
	case *Node:
		y, ok := b.(*Node)
		return ok && Equal(x, y)
	case *Mapping:
		y, ok := b.(*Mapping)
		if !ok || len(x.Entries) != len(y.Entries) {
			return false
		}
		for _, e := range x.Entries {
			v, found := y.Get(e.Key)
			if !found || !ValueEqual(e.Value, v) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, found := y[k]
			if !found || !ValueEqual(v, w) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !ValueEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	case string, bool:
		return a == b
	}
	na, ok := toNumber(a)
	if !ok {
		return false
	}
	nb, ok := toNumber(b)
	if !ok {
		return false
	}
	return numbersEqual(na, nb)
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	ra, ok1 := numberRat(a)
	rb, ok2 := numberRat(b)
	return ok1 && ok2 && ra.Cmp(rb) == 0
}
