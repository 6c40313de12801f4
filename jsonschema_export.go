package esguard

import (
	"sort"

	js "github.com/reoring/esguard/jsonschema"
)

// ExportJSONSchema projects s into JSON Schema. Union points become $defs
// entries holding a oneOf over their kinds, so recursive grammars stay finite.
// Depth caps have no JSON Schema counterpart and are not exported.
func ExportJSONSchema(s Schema) *js.Schema {
	ex := &exporter{caps: s.Caps, defs: map[string]*js.Schema{}}
	out := ex.typ(s.Root)
	out.Schema = js.Draft
	out.ID = s.ID
	out.Title = s.Title
	if len(ex.defs) > 0 {
		out.Defs = ex.defs
	}
	return out
}

type exporter struct {
	caps CapPolicy
	defs map[string]*js.Schema
}

func (ex *exporter) typ(t *Type) *js.Schema {
	switch t.kind {
	case KindString:
		return &js.Schema{Type: "string", Format: t.format}
	case KindEnum:
		out := &js.Schema{Type: "string"}
		for _, v := range t.enum {
			out.Enum = append(out.Enum, v)
		}
		return out
	case KindBool:
		return &js.Schema{Type: "boolean"}
	case KindNumber, KindInteger:
		out := &js.Schema{Type: "number"}
		if t.kind == KindInteger {
			out.Type = "integer"
		}
		if t.min != nil {
			if t.exclusiveMin {
				out.ExclusiveMinimum = js.Ptr(*t.min)
			} else {
				out.Minimum = js.Ptr(*t.min)
			}
		}
		if t.max != nil {
			out.Maximum = js.Ptr(*t.max)
		}
		if t.capMax {
			c := float64(ex.caps.MaxCollectionSize)
			if out.Maximum == nil || c < *out.Maximum {
				out.Maximum = &c
			}
		}
		return out
	case KindList:
		out := &js.Schema{Type: "array", Items: ex.typ(t.elem)}
		if t.minItems >= 0 {
			out.MinItems = js.Ptr(t.minItems)
		}
		hi := t.maxItems
		if t.capItems && (hi < 0 || ex.caps.MaxCollectionSize < hi) {
			hi = ex.caps.MaxCollectionSize
		}
		if hi >= 0 {
			out.MaxItems = js.Ptr(hi)
		}
		return out
	case KindMapping:
		out := &js.Schema{Type: "object", AdditionalProperties: ex.typ(t.elem)}
		if t.fanOut {
			out.MaxProperties = js.Ptr(ex.caps.MaxFanout)
		}
		if t.maxItems >= 0 && (out.MaxProperties == nil || t.maxItems < *out.MaxProperties) {
			out.MaxProperties = js.Ptr(t.maxItems)
		}
		if t.minItems >= 0 {
			out.MinProperties = js.Ptr(t.minItems)
		}
		return out
	case KindObject:
		if t.object == nil {
			return &js.Schema{Type: "object"}
		}
		return ex.kind(t.object, "")
	case KindUnion:
		ex.union(t.union)
		return &js.Schema{Ref: "#/$defs/" + t.union.name}
	case KindEither:
		out := &js.Schema{}
		for _, a := range t.alts {
			out.AnyOf = append(out.AnyOf, ex.typ(a))
		}
		return out
	default:
		return &js.Schema{}
	}
}

func (ex *exporter) kind(k *NodeKind, skip string) *js.Schema {
	if k.Value != nil {
		return ex.typ(k.Value)
	}
	out := &js.Schema{Type: "object", Properties: map[string]*js.Schema{}}
	for _, fs := range k.Fields {
		if fs.WireName == skip {
			continue
		}
		ps := ex.typ(fs.Type)
		if fs.Default != nil {
			ps.Default = normalize(fs.Default)
		}
		out.Properties[fs.WireName] = ps
		if fs.Required {
			out.Required = append(out.Required, fs.WireName)
		}
	}
	switch {
	case k.Keyed != nil:
		out.AdditionalProperties = ex.typ(k.Keyed)
		n := len(k.Fields) + 1
		out.MaxProperties = js.Ptr(n)
	case k.Extra == ExtraForbid:
		out.AdditionalProperties = false
	case k.Extra == ExtraAllowTyped:
		out.AdditionalProperties = ex.typ(k.ExtraType)
	}
	if len(out.Properties) == 0 {
		out.Properties = nil
	}
	return out
}

func (ex *exporter) union(u *UnionPoint) {
	if _, done := ex.defs[u.name]; done {
		return
	}
	def := &js.Schema{}
	ex.defs[u.name] = def
	for _, name := range u.reg.Names() {
		k, _ := u.reg.Lookup(name)
		var variant *js.Schema
		if u.style == ByValue {
			variant = ex.kind(k, u.discriminator)
			if variant.Properties == nil {
				variant.Properties = map[string]*js.Schema{}
			}
			tag := &js.Schema{Type: "string"}
			if name != u.fallbackKind {
				tag.Enum = []any{name}
			}
			variant.Properties[u.discriminator] = tag
			if name != u.defaultKind {
				variant.Required = append([]string{u.discriminator}, variant.Required...)
			}
		} else {
			variant = &js.Schema{
				Type:                 "object",
				Properties:           map[string]*js.Schema{name: ex.kind(k, "")},
				Required:             []string{name},
				AdditionalProperties: false,
			}
			if u.companions != nil {
				comp := ex.kind(u.companions, "")
				for key, ps := range comp.Properties {
					variant.Properties[key] = ps
				}
				variant.Required = append(variant.Required, comp.Required...)
				sort.Strings(variant.Required[1:])
			}
		}
		def.OneOf = append(def.OneOf, variant)
	}
}
