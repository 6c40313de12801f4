// Package ingest declares the ingest pipeline grammar: the processor union
// and the pipeline document that lists processors.
package ingest

import (
	g "github.com/reoring/esguard"
)

// Processor is the processor union point. It recurses through on_failure on
// every processor and through foreach.processor.
var Processor = g.NewUnion("processor")

var (
	stringOrList = g.Either(g.String(), g.ListOf(g.String()).CapItems())
	condition    = g.Either(g.String(), g.AnyObject())
	processors   = g.ListOf(g.Ref(Processor)).CapItems()
	userProperty = g.Enum(
		"username", "roles", "metadata", "api_key",
		"realm", "authentication_type", "principal", "email", "full_name",
	)
)

// base holds the keys every processor accepts. "if" is a reserved word in
// most host languages, so it is carried as "when" in memory.
var base = g.Kind("processor_base").
	Field("description", g.String()).
	Field("when", condition).Wire("if").
	Field("ignore_failure", g.Bool()).
	Field("on_failure", processors).
	Field("tag", g.String()).
	MustBuild()

// fieldOp is the field/target_field/ignore_missing triple shared by the
// single-field transforms.
var fieldOp = g.Kind("field_op").
	Field("field", g.String()).Required().
	Field("target_field", g.String()).
	Field("ignore_missing", g.Bool()).Default(false).
	MustBuild()

var (
	appendProc = g.Kind("append").
		Include(base).
		Field("field", g.String()).Required().
		Field("value", g.Any()).
		Field("copy_from", g.String()).
		Field("allow_duplicates", g.Bool()).Default(true).
		Field("media_type", g.String()).
		AtMostOne("value", "copy_from").
		MustBuild()

	attachment = g.Kind("attachment").
		Include(base, fieldOp).
		Field("indexed_chars", g.Integer().Min(-1)).Default(100000).
		Field("indexed_chars_field", g.String()).
		Field("properties", g.ListOf(g.String()).CapItems()).
		Field("remove_binary", g.Bool()).
		Field("resource_name", g.String()).
		MustBuild()

	bytesProc = g.Kind("bytes").
		Include(base, fieldOp).
		MustBuild()

	circle = g.Kind("circle").
		Include(base).
		Field("field", g.String()).Required().
		Field("target_field", g.String()).
		Field("ignore_missing", g.Bool()).Default(true).
		Field("error_distance", g.Number().Positive()).
		Field("shape_type", g.Enum("geo_shape", "shape")).
		MustBuild()

	communityID = g.Kind("community_id").
		Include(base).
		Field("source_ip", g.String()).Required().
		Field("source_port", g.String()).Required().
		Field("destination_ip", g.String()).Required().
		Field("destination_port", g.String()).Required().
		Field("iana_number", g.String()).
		Field("icmp_type", g.String()).
		Field("icmp_code", g.String()).
		Field("transport", g.String()).
		Field("target_field", g.String()).
		Field("seed", g.Integer().Min(0).Max(65535)).Default(0).
		Field("ignore_missing", g.Bool()).Default(true).
		MustBuild()

	convert = g.Kind("convert").
		Include(base, fieldOp).
		Field("type", g.Enum("integer", "long", "double", "float", "boolean", "ip", "string", "auto")).Required().
		MustBuild()

	csv = g.Kind("csv").
		Include(base).
		Field("field", g.String()).Required().
		Field("target_fields", stringOrList).Required().
		Field("separator", g.String()).Default(",").
		Field("quote", g.String()).Default(`"`).
		Field("empty_value", g.Any()).
		Field("ignore_missing", g.Bool()).Default(false).
		Field("trim", g.Bool()).Default(false).
		MustBuild()

	date = g.Kind("date").
		Include(base).
		Field("field", g.String()).Required().
		Field("formats", g.ListOf(g.String()).MinItems(1).CapItems()).Required().
		Field("locale", g.String()).Default("ENGLISH").
		Field("target_field", g.String()).Default("@timestamp").
		Field("timezone", g.String()).Default("UTC").
		Field("output_format", g.String()).Default("yyyy-MM-dd'T'HH:mm:ss.SSSXXX").
		MustBuild()

	dateIndexName = g.Kind("date_index_name").
		Include(base).
		Field("field", g.String()).Required().
		Field("index_name_prefix", g.String()).
		Field("date_rounding", g.Enum("s", "m", "h", "d", "w", "M", "y")).Required().
		Field("date_formats", g.ListOf(g.String()).CapItems()).
		Field("timezone", g.String()).Default("UTC").
		Field("locale", g.String()).Default("ENGLISH").
		Field("index_name_format", g.String()).Default("yyyy-MM-dd").
		MustBuild()

	dissect = g.Kind("dissect").
		Include(base).
		Field("field", g.String()).Required().
		Field("pattern", g.String()).Required().
		Field("append_separator", g.String()).Default("").
		Field("ignore_missing", g.Bool()).Default(false).
		MustBuild()

	dotExpander = g.Kind("dot_expander").
		Include(base).
		Field("field", g.String()).Required().
		Field("path", g.String()).
		Field("override", g.Bool()).Default(false).
		MustBuild()

	drop = g.Kind("drop").
		Include(base).
		MustBuild()

	enrich = g.Kind("enrich").
		Include(base).
		Field("policy_name", g.String()).Required().
		Field("field", g.String()).
		Field("target_field", g.String()).Required().
		Field("ignore_missing", g.Bool()).Default(false).
		Field("override", g.Bool()).Default(true).
		Field("max_matches", g.Integer().Min(1).Max(128)).Default(1).
		Field("shape_relation", g.Enum("intersects", "disjoint", "within", "contains")).
		MustBuild()

	fail = g.Kind("fail").
		Include(base).
		Field("message", g.String()).Required().
		MustBuild()

	fingerprint = g.Kind("fingerprint").
		Include(base).
		Field("fields", stringOrList).Required().
		Field("target_field", g.String()).Default("fingerprint").
		Field("salt", g.String()).
		Field("method", g.Enum("MD5", "SHA-1", "SHA-256", "SHA-512", "MurmurHash3")).Default("SHA-1").
		Field("ignore_missing", g.Bool()).Default(false).
		MustBuild()

	foreach = g.Kind("foreach").
		Include(base).
		Field("field", g.String()).Required().
		Field("processor", g.Ref(Processor)).Required().
		Field("ignore_missing", g.Bool()).Default(false).
		MustBuild()

	geoip = g.Kind("geoip").
		Include(base, fieldOp).
		Field("database_file", g.String()).
		Field("properties", g.ListOf(g.String()).CapItems()).
		Field("first_only", g.Bool()).Default(true).
		Field("download_database_on_pipeline_creation", g.Bool()).
		MustBuild()

	grok = g.Kind("grok").
		Include(base).
		Field("field", g.String()).Required().
		Field("patterns", g.ListOf(g.String()).MinItems(1).CapItems()).Required().
		Field("pattern_definitions", g.MapOf(g.String())).
		Field("ignore_missing", g.Bool()).Default(false).
		Field("trace_match", g.Bool()).Default(false).
		Field("ecs_compatibility", g.Enum("disabled", "v1")).Default("disabled").
		MustBuild()

	gsub = g.Kind("gsub").
		Include(base, fieldOp).
		Field("pattern", g.String()).Required().
		Field("replacement", g.String()).Required().
		MustBuild()

	htmlStrip = g.Kind("html_strip").
		Include(base, fieldOp).
		MustBuild()

	join = g.Kind("join").
		Include(base).
		Field("field", g.String()).Required().
		Field("separator", g.String()).Required().
		Field("target_field", g.String()).
		MustBuild()

	jsonProc = g.Kind("json").
		Include(base).
		Field("field", g.String()).Required().
		Field("target_field", g.String()).
		Field("add_to_root", g.Bool()).Default(false).
		Field("add_to_root_conflict_strategy", g.Enum("replace", "merge")).
		Field("allow_duplicate_keys", g.Bool()).Default(false).
		Field("strict_json_parsing", g.Bool()).Default(true).
		AtMostOne("target_field", "add_to_root").
		MustBuild()

	kv = g.Kind("kv").
		Include(base, fieldOp).
		Field("field_split", g.String()).
		Field("value_split", g.String()).Required().
		Field("include_keys", g.ListOf(g.String()).CapItems()).
		Field("exclude_keys", g.ListOf(g.String()).CapItems()).
		Field("prefix", g.String()).
		Field("trim_key", g.String()).
		Field("trim_value", g.String()).
		Field("strip_brackets", g.Bool()).Default(false).
		MustBuild()

	lowercase = g.Kind("lowercase").
		Include(base, fieldOp).
		MustBuild()

	pipeline = g.Kind("pipeline").
		Include(base).
		Field("name", g.String()).Required().
		Field("ignore_missing_pipeline", g.Bool()).Default(false).
		MustBuild()

	registeredDomain = g.Kind("registered_domain").
		Include(base).
		Field("field", g.String()).Required().
		Field("target_field", g.String()).
		Field("ignore_missing", g.Bool()).Default(true).
		MustBuild()

	remove = g.Kind("remove").
		Include(base).
		Field("field", stringOrList).
		Field("keep", stringOrList).
		Field("ignore_missing", g.Bool()).Default(false).
		ExactlyOne("field", "keep").
		MustBuild()

	rename = g.Kind("rename").
		Include(base).
		Field("field", g.String()).Required().
		Field("target_field", g.String()).Required().
		Field("ignore_missing", g.Bool()).Default(false).
		Field("override", g.Bool()).Default(false).
		MustBuild()

	reroute = g.Kind("reroute").
		Include(base).
		Field("destination", g.String()).
		Field("dataset", stringOrList).
		Field("namespace", stringOrList).
		MustBuild()

	scriptProc = g.Kind("script").
		Include(base).
		Field("id", g.String()).
		Field("source", g.Either(g.String(), g.AnyObject())).
		Field("lang", g.String()).Default("painless").
		Field("params", g.AnyObject()).
		AtMostOne("id", "source").
		MustBuild()

	set = g.Kind("set").
		Include(base).
		Field("field", g.String()).Required().
		Field("value", g.Any()).
		Field("copy_from", g.String()).
		Field("override", g.Bool()).Default(true).
		Field("media_type", g.Enum("application/json", "text/plain", "application/x-www-form-urlencoded")).
		Field("ignore_empty_value", g.Bool()).Default(false).
		AtMostOne("value", "copy_from").
		MustBuild()

	setSecurityUser = g.Kind("set_security_user").
		Include(base).
		Field("field", g.String()).Required().
		Field("properties", g.ListOf(userProperty).CapItems()).
		MustBuild()

	sortProc = g.Kind("sort").
		Include(base).
		Field("field", g.String()).Required().
		Field("order", g.Enum("asc", "desc")).Default("asc").
		Field("target_field", g.String()).
		MustBuild()

	split = g.Kind("split").
		Include(base, fieldOp).
		Field("separator", g.String()).Required().
		Field("preserve_trailing", g.Bool()).Default(false).
		MustBuild()

	trim = g.Kind("trim").
		Include(base, fieldOp).
		MustBuild()

	uppercase = g.Kind("uppercase").
		Include(base, fieldOp).
		MustBuild()

	urlDecode = g.Kind("urldecode").
		Include(base, fieldOp).
		MustBuild()

	uriParts = g.Kind("uri_parts").
		Include(base).
		Field("field", g.String()).Required().
		Field("target_field", g.String()).Default("url").
		Field("keep_original", g.Bool()).Default(true).
		Field("remove_if_successful", g.Bool()).Default(false).
		Field("ignore_missing", g.Bool()).Default(false).
		MustBuild()

	userAgent = g.Kind("user_agent").
		Include(base, fieldOp).
		Field("regex_file", g.String()).
		Field("properties", g.ListOf(g.String()).CapItems()).
		Field("extract_device_type", g.Bool()).Default(false).
		MustBuild()
)

// Processors is the registry behind the Processor union.
var Processors = g.MustRegistry("processor",
	appendProc, attachment, bytesProc, circle, communityID, convert, csv,
	date, dateIndexName, dissect, dotExpander, drop, enrich, fail,
	fingerprint, foreach, geoip, grok, gsub, htmlStrip, join, jsonProc, kv,
	lowercase, pipeline, registeredDomain, remove, rename, reroute,
	scriptProc, set, setSecurityUser, sortProc, split, trim, uppercase,
	urlDecode, uriParts, userAgent,
)
