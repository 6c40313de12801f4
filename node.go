package esguard

// Node is a validated tree node. Trees are owned by the caller and hold no
// reference to the raw input.
//
// Field values are string, json.Number, bool, nil, []any, *Mapping,
// map[string]any (free-form objects) or *Node.
type Node struct {
	Union string // union point name; empty for fixed objects
	Kind  string
	// Discriminator is the ByValue discriminator field; empty otherwise.
	Discriminator string
	Fields        []Field // declared order, then extra keys sorted
	Companions    []Field
	Body          any // set for kinds with a non-object body
}

// Field is one key of a node.
type Field struct {
	Name     string
	WireName string
	Value    any
	Presence Presence
	Extra    bool // not a declared field
}

// Entry is one key of a Mapping.
type Entry struct {
	Key   string
	Value any
}

// Mapping is a validated string-keyed map with entries sorted by key.
type Mapping struct {
	Entries []Entry
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.Entries) }

// Keys returns the keys in order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Key
	}
	return out
}

// Field returns the field with the given in-memory or wire name.
func (n *Node) Field(name string) (Field, bool) {
	for _, f := range n.Fields {
		if f.Name == name || f.WireName == name {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the value of the named field, or nil when absent.
func (n *Node) Value(name string) any {
	f, _ := n.Field(name)
	return f.Value
}

// Companion returns the companion field with the given name.
func (n *Node) Companion(name string) (Field, bool) {
	for _, f := range n.Companions {
		if f.Name == name || f.WireName == name {
			return f, true
		}
	}
	return Field{}, false
}

// Children returns the nested nodes of n in document order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, f := range n.Companions {
		out = appendNodes(out, f.Value)
	}
	for _, f := range n.Fields {
		out = appendNodes(out, f.Value)
	}
	return appendNodes(out, n.Body)
}

func appendNodes(dst []*Node, v any) []*Node {
	switch t := v.(type) {
	case *Node:
		dst = append(dst, t)
	case []any:
		for _, e := range t {
			dst = appendNodes(dst, e)
		}
	case *Mapping:
		for _, e := range t.Entries {
			dst = appendNodes(dst, e.Value)
		}
	}
	return dst
}

// Walk calls fn for n and every descendant, depth first. Returning false
// skips the subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}
