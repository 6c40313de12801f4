package mapping

import (
	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar/querydsl"
)

var analysis = g.Kind("analysis").
	Field("analyzer", g.MapOf(g.AnyObject())).
	Field("normalizer", g.MapOf(g.AnyObject())).
	Field("tokenizer", g.MapOf(g.AnyObject())).
	Field("filter", g.MapOf(g.AnyObject())).
	Field("char_filter", g.MapOf(g.AnyObject())).
	MustBuild()

// Settings covers the common index settings. The lifecycle keys are dotted
// on the wire.
var Settings = g.Kind("settings").
	Field("number_of_shards", g.Integer().Min(1).Max(1024)).
	Field("number_of_replicas", g.Integer().NonNegative()).
	Field("refresh_interval", g.String().Format("time_value")).
	Field("analysis", g.ObjectOf(analysis)).
	Field("index_lifecycle_name", g.String()).Wire("index.lifecycle.name").
	Field("index_lifecycle_rollover_alias", g.String()).Wire("index.lifecycle.rollover_alias").
	MustBuild()

var runtimeField = g.Kind("runtime_field").
	Field("type", g.Enum("boolean", "composite", "date", "double", "geo_point", "ip", "keyword", "long", "lookup")).Required().
	Field("script", g.Either(g.String(), g.AnyObject())).
	Field("format", g.String()).
	Field("fields", g.AnyObject()).
	MustBuild()

// dynamicTemplate bodies stay free-form: their mappings may use
// placeholders such as "{dynamic_type}".
var dynamicTemplate = g.Kind("dynamic_template").
	Field("match_mapping_type", stringOrList).
	Field("unmatch_mapping_type", stringOrList).
	Field("match", stringOrList).
	Field("unmatch", stringOrList).
	Field("path_match", stringOrList).
	Field("path_unmatch", stringOrList).
	Field("match_pattern", g.Enum("simple", "regex")).
	Field("mapping", g.AnyObject()).
	Field("runtime", g.AnyObject()).
	ExactlyOne("mapping", "runtime").
	MustBuild()

// Mappings is the mappings section of an index definition.
var Mappings = g.Kind("mappings").
	Field("properties", properties).
	Field("dynamic", dynamic).
	Field("runtime", g.MapOf(g.ObjectOf(runtimeField))).
	Field("dynamic_templates", g.ListOf(g.MapOf(g.ObjectOf(dynamicTemplate)).MinItems(1).MaxItems(1)).CapItems()).
	Field("date_detection", g.Bool()).
	Field("numeric_detection", g.Bool()).
	Field("dynamic_date_formats", g.ListOf(g.String()).CapItems()).
	Field("_source", g.AnyObject()).
	Field("_meta", g.AnyObject()).
	Field("_routing", g.AnyObject()).
	MustBuild()

var alias = g.Kind("alias").
	Field("filter", g.Ref(querydsl.Query)).
	Field("routing", g.String()).
	Field("index_routing", g.String()).
	Field("search_routing", g.String()).
	Field("is_write_index", g.Bool()).
	Field("is_hidden", g.Bool()).
	MustBuild()

// Index is the body of a create-index request.
var Index = g.Kind("index_definition").
	Field("settings", g.ObjectOf(Settings)).
	Field("mappings", g.ObjectOf(Mappings)).
	Field("aliases", g.MapOf(g.ObjectOf(alias))).
	MustBuild()

func init() {
	FieldType.Define(FieldTypes, g.ByDiscriminator("type"), g.DefaultKind("object"), g.FallbackKind("custom"))
}

// DefaultCaps allows 1000 properties per object and twenty levels of field
// nesting.
func DefaultCaps() g.CapPolicy {
	caps := g.DefaultCaps()
	caps.MaxDepth = 20
	return caps
}

// Schema returns the index definition schema.
func Schema() g.Schema {
	return g.Schema{
		ID:    "index",
		Title: "index definition",
		Root:  g.ObjectOf(Index),
		Caps:  DefaultCaps(),
	}
}
