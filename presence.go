package esguard

// Presence records how a field came to hold its value.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null (optional fields only).
	PresenceDefaultApplied                      // Default value was applied.
)

// DefaultOnly reports whether the value exists only because of a default.
func (p Presence) DefaultOnly() bool {
	return p&PresenceDefaultApplied != 0 && p&PresenceSeen == 0
}

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// PresenceMap collects the presence of every field in the tree, keyed by
// the JSON Pointer of the field as it appeared on the wire.
func (n *Node) PresenceMap() PresenceMap {
	pm := PresenceMap{"/": PresenceSeen}
	collectPresence(n, Path{}, pm)
	return pm
}

func collectPresence(n *Node, p Path, pm PresenceMap) {
	if n == nil {
		return
	}
	body := p
	if n.Union != "" && n.Discriminator == "" {
		body = p.Field(n.Kind)
		pm[body.Pointer()] |= PresenceSeen
	}
	for _, f := range n.Companions {
		fp := p.Field(f.WireName)
		pm[fp.Pointer()] |= f.Presence
		collectPresenceValue(f.Value, fp, pm)
	}
	for _, f := range n.Fields {
		fp := body.Field(f.WireName)
		pm[fp.Pointer()] |= f.Presence
		collectPresenceValue(f.Value, fp, pm)
	}
	if n.Body != nil {
		collectPresenceValue(n.Body, body, pm)
	}
}

func collectPresenceValue(v any, p Path, pm PresenceMap) {
	switch t := v.(type) {
	case *Node:
		collectPresence(t, p, pm)
	case []any:
		for i, e := range t {
			ep := p.Index(i)
			pm[ep.Pointer()] |= PresenceSeen
			collectPresenceValue(e, ep, pm)
		}
	case *Mapping:
		for _, e := range t.Entries {
			ep := p.Field(e.Key)
			pm[ep.Pointer()] |= PresenceSeen
			collectPresenceValue(e.Value, ep, pm)
		}
	}
}
