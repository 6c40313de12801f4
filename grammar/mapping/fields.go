// Package mapping declares the index definition grammar: settings, field
// mappings resolved by their "type" value, and aliases.
package mapping

import (
	"slices"

	g "github.com/reoring/esguard"
)

// FieldType is the field mapping union. A mapping without "type" is an
// object; types the grammar does not model fall back to an open kind.
var FieldType = g.NewUnion("field_type")

var (
	subFields    = g.MapOf(g.Ref(FieldType))
	properties   = g.FanOut(g.Ref(FieldType))
	dynamic      = g.Either(g.Bool(), g.Enum("true", "false", "strict", "runtime"))
	stringOrList = g.Either(g.String(), g.ListOf(g.String()).CapItems())
)

// each builds one kind per type name. Several types share a field set.
func each(names []string, build func(name string) *g.NodeKind) []*g.NodeKind {
	out := make([]*g.NodeKind, len(names))
	for i, n := range names {
		out[i] = build(n)
	}
	return out
}

var textKinds = each([]string{"text", "match_only_text"}, func(name string) *g.NodeKind {
	return g.Kind(name).
		Field("analyzer", g.String()).
		Field("search_analyzer", g.String()).
		Field("search_quote_analyzer", g.String()).
		Field("fields", subFields).
		Field("index", g.Bool()).
		Field("index_options", g.Enum("docs", "freqs", "positions", "offsets")).
		Field("norms", g.Bool()).
		Field("store", g.Bool()).
		Field("fielddata", g.Bool()).
		Field("copy_to", stringOrList).
		MustBuild()
})

var keywordKinds = each([]string{"keyword", "constant_keyword", "wildcard"}, func(name string) *g.NodeKind {
	return g.Kind(name).
		Field("normalizer", g.String()).
		Field("ignore_above", g.Integer().NonNegative()).
		Field("fields", subFields).
		Field("index", g.Bool()).
		Field("doc_values", g.Bool()).
		Field("store", g.Bool()).
		Field("null_value", g.String()).
		Field("value", g.String()).
		Field("copy_to", stringOrList).
		MustBuild()
})

var numericKinds = each([]string{
	"long", "integer", "short", "byte", "double", "float", "half_float", "unsigned_long",
}, func(name string) *g.NodeKind {
	return g.Kind(name).
		Field("coerce", g.Bool()).
		Field("index", g.Bool()).
		Field("doc_values", g.Bool()).
		Field("store", g.Bool()).
		Field("ignore_malformed", g.Bool()).
		Field("null_value", g.Number()).
		Field("copy_to", stringOrList).
		MustBuild()
})

var scaledFloat = g.Kind("scaled_float").
	Field("scaling_factor", g.Number().Positive()).Required().
	Field("coerce", g.Bool()).
	Field("index", g.Bool()).
	Field("doc_values", g.Bool()).
	Field("store", g.Bool()).
	Field("ignore_malformed", g.Bool()).
	Field("null_value", g.Number()).
	MustBuild()

var dateKinds = each([]string{"date", "date_nanos"}, func(name string) *g.NodeKind {
	return g.Kind(name).
		Field("format", g.String()).
		Field("locale", g.String()).
		Field("ignore_malformed", g.Bool()).
		Field("index", g.Bool()).
		Field("doc_values", g.Bool()).
		Field("store", g.Bool()).
		Field("null_value", g.String()).
		MustBuild()
})

var (
	boolean = g.Kind("boolean").
		Field("index", g.Bool()).
		Field("doc_values", g.Bool()).
		Field("store", g.Bool()).
		Field("null_value", g.Bool()).
		MustBuild()

	ip = g.Kind("ip").
		Field("index", g.Bool()).
		Field("doc_values", g.Bool()).
		Field("store", g.Bool()).
		Field("ignore_malformed", g.Bool()).
		Field("null_value", g.String()).
		MustBuild()

	geoPoint = g.Kind("geo_point").
		Field("ignore_malformed", g.Bool()).
		Field("ignore_z_value", g.Bool()).
		MustBuild()

	geoShape = g.Kind("geo_shape").
		Field("orientation", g.Enum("right", "counterclockwise", "ccw", "left", "clockwise", "cw")).
		Field("ignore_malformed", g.Bool()).
		Field("ignore_z_value", g.Bool()).
		Field("coerce", g.Bool()).
		MustBuild()

	object = g.Kind("object").
		Field("properties", properties).
		Field("dynamic", dynamic).
		Field("enabled", g.Bool()).
		Field("subobjects", g.Bool()).
		MustBuild()

	nested = g.Kind("nested").
		Field("properties", properties).
		Field("dynamic", dynamic).
		Field("include_in_parent", g.Bool()).
		Field("include_in_root", g.Bool()).
		MustBuild()

	denseVector = g.Kind("dense_vector").
		Field("dims", g.Integer().Min(1).Max(4096)).
		Field("element_type", g.Enum("float", "byte", "bit")).
		Field("similarity", g.Enum("l2_norm", "dot_product", "cosine", "max_inner_product")).
		Field("index", g.Bool()).
		Field("index_options", g.AnyObject()).
		Allow().
		MustBuild()

	semanticText = g.Kind("semantic_text").
		Field("inference_id", g.String()).
		Field("search_inference_id", g.String()).
		Allow().
		MustBuild()

	custom = g.Kind("custom").
		Allow().
		MustBuild()
)

// FieldTypes is the registry behind the FieldType union, keyed by type name.
var FieldTypes = g.MustRegistry("field_type", slices.Concat(
	textKinds, keywordKinds, numericKinds, dateKinds,
	[]*g.NodeKind{scaledFloat, boolean, ip, geoPoint, geoShape, object, nested, denseVector, semanticText, custom},
)...)
