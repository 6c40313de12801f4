package esguard

import (
	json "github.com/goccy/go-json"
)

// SerializeOpt controls canonical output.
type SerializeOpt struct {
	// IncludeDefaults emits fields whose value came only from a default.
	IncludeDefaults bool
	// UseWireAliases emits wire names (e.g. "from") instead of in-memory
	// names (e.g. "offset").
	UseWireAliases bool
}

// Serialize converts a validated tree back into a wire document. Validating
// the result yields a tree Equal to n, for either alias setting.
func Serialize(n *Node, opt SerializeOpt) map[string]any {
	if n == nil {
		return nil
	}
	out := map[string]any{}
	if n.Union == "" || n.Discriminator != "" {
		emitFields(out, n.Companions, opt)
		emitFields(out, n.Fields, opt)
		return out
	}
	if n.Body != nil {
		out[n.Kind] = SerializeValue(n.Body, opt)
	} else {
		body := map[string]any{}
		emitFields(body, n.Fields, opt)
		out[n.Kind] = body
	}
	emitFields(out, n.Companions, opt)
	return out
}

func emitFields(dst map[string]any, fields []Field, opt SerializeOpt) {
	for _, f := range fields {
		if f.Presence.DefaultOnly() && !opt.IncludeDefaults {
			continue
		}
		key := f.Name
		if opt.UseWireAliases {
			key = f.WireName
		}
		dst[key] = SerializeValue(f.Value, opt)
	}
}

// SerializeValue converts a validated value (as stored in Field.Value) into
// its wire form.
func SerializeValue(v any, opt SerializeOpt) any {
	switch t := v.(type) {
	case *Node:
		return Serialize(t, opt)
	case *Mapping:
		out := make(map[string]any, len(t.Entries))
		for _, e := range t.Entries {
			out[e.Key] = SerializeValue(e.Value, opt)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = SerializeValue(e, opt)
		}
		return out
	case map[string]any:
		return normalize(t)
	default:
		return t
	}
}

// Marshal serializes n and encodes it as JSON with sorted keys.
func Marshal(n *Node, opt SerializeOpt) ([]byte, error) {
	return json.Marshal(Serialize(n, opt))
}
