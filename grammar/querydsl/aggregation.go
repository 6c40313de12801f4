package querydsl

import (
	g "github.com/reoring/esguard"
)

var (
	calendarInterval = g.Enum(
		"minute", "1m", "hour", "1h", "day", "1d", "week", "1w",
		"month", "1M", "quarter", "1q", "year", "1y",
	)
	missingValue = g.Either(g.String(), g.Number(), g.Bool())
	bucketOrder  = g.Either(g.AnyObject(), g.ListOf(g.AnyObject()).CapItems())
	bounds       = g.Kind("bounds").
		Field("min", g.Either(g.Number(), g.String())).
		Field("max", g.Either(g.Number(), g.String())).
		MustBuild()
)

// Bucket aggregations.
var (
	termsAgg = g.Kind("terms").
		Field("field", g.String()).
		Field("script", script).
		Field("size", g.Integer().Min(1).CapMax()).Default(10).
		Field("shard_size", g.Integer().Min(1)).
		Field("min_doc_count", g.Integer().NonNegative()).Default(1).
		Field("order", bucketOrder).
		Field("missing", missingValue).
		Field("include", stringList).
		Field("exclude", stringList).
		Field("execution_hint", g.Enum("map", "global_ordinals")).
		Field("collect_mode", g.Enum("depth_first", "breadth_first")).
		Field("show_term_doc_count_error", g.Bool()).
		Field("value_type", g.String()).
		ExactlyOne("field", "script").
		MustBuild()

	dateHistogram = g.Kind("date_histogram").
		Field("field", g.String()).
		Field("script", script).
		Field("calendar_interval", calendarInterval).
		Field("fixed_interval", g.String().Format("time_value")).
		Field("format", g.String()).
		Field("time_zone", g.String()).
		Field("offset", g.String()).
		Field("min_doc_count", g.Integer().NonNegative()).
		Field("extended_bounds", g.ObjectOf(bounds)).
		Field("hard_bounds", g.ObjectOf(bounds)).
		Field("missing", g.String()).
		Field("keyed", g.Bool()).
		Field("order", bucketOrder).
		ExactlyOne("field", "script").
		ExactlyOne("calendar_interval", "fixed_interval").
		MustBuild()

	histogram = g.Kind("histogram").
		Field("field", g.String()).
		Field("script", script).
		Field("interval", g.Number().Positive()).Required().
		Field("offset", g.Number()).
		Field("min_doc_count", g.Integer().NonNegative()).
		Field("extended_bounds", g.ObjectOf(bounds)).
		Field("hard_bounds", g.ObjectOf(bounds)).
		Field("missing", g.Number()).
		Field("keyed", g.Bool()).
		Field("order", bucketOrder).
		ExactlyOne("field", "script").
		MustBuild()

	rangeBucket = g.Kind("range_bucket").
		Field("key", g.String()).
		Field("from", g.Number()).
		Field("to", g.Number()).
		AtLeastOne("from", "to").
		MustBuild()
	rangeAgg = g.Kind("range").
		Field("field", g.String()).
		Field("script", script).
		Field("ranges", g.ListOf(g.ObjectOf(rangeBucket)).MinItems(1).CapItems()).Required().
		Field("keyed", g.Bool()).
		Field("missing", g.Number()).
		ExactlyOne("field", "script").
		MustBuild()

	dateRangeBucket = g.Kind("date_range_bucket").
		Field("key", g.String()).
		Field("from", g.Either(g.String(), g.Number())).
		Field("to", g.Either(g.String(), g.Number())).
		AtLeastOne("from", "to").
		MustBuild()
	dateRangeAgg = g.Kind("date_range").
		Field("field", g.String()).Required().
		Field("ranges", g.ListOf(g.ObjectOf(dateRangeBucket)).MinItems(1).CapItems()).Required().
		Field("format", g.String()).
		Field("time_zone", g.String()).
		Field("keyed", g.Bool()).
		Field("missing", g.String()).
		MustBuild()

	// Named filters are a fan-out mapping; anonymous filters a capped list.
	filtersAgg = g.Kind("filters").
		Field("filters", g.Either(g.FanOut(g.Ref(Query)), g.ListOf(g.Ref(Query)).CapItems())).Required().
		Field("other_bucket", g.Bool()).
		Field("other_bucket_key", g.String()).
		MustBuild()

	filterAgg      = g.Kind("filter").Body(g.Ref(Query)).MustBuild()
	nestedAgg      = g.Kind("nested").Field("path", g.String()).Required().MustBuild()
	reverseNested  = g.Kind("reverse_nested").Field("path", g.String()).MustBuild()
	missingAgg     = g.Kind("missing").Field("field", g.String()).Required().MustBuild()
	globalAgg      = g.Kind("global").MustBuild()
	significantAgg = g.Kind("significant_terms").
		Field("field", g.String()).Required().
		Field("size", g.Integer().Min(1).CapMax()).
		Field("min_doc_count", g.Integer().NonNegative()).
		Field("background_filter", g.Ref(Query)).
		MustBuild()
)

// Metric aggregations share field/script/missing/format.
var (
	metricBase = g.Kind("metric").
		Field("field", g.String()).
		Field("script", script).
		Field("missing", missingValue).
		Field("format", g.String()).
		ExactlyOne("field", "script").
		MustBuild()

	avgAgg        = g.Kind("avg").Include(metricBase).MustBuild()
	sumAgg        = g.Kind("sum").Include(metricBase).MustBuild()
	minAgg        = g.Kind("min").Include(metricBase).MustBuild()
	maxAgg        = g.Kind("max").Include(metricBase).MustBuild()
	valueCountAgg = g.Kind("value_count").Include(metricBase).MustBuild()
	statsAgg      = g.Kind("stats").Include(metricBase).MustBuild()
	cardinality   = g.Kind("cardinality").
		Include(metricBase).
		Field("precision_threshold", g.Integer().Min(0).Max(40000)).
		MustBuild()
	extendedStats = g.Kind("extended_stats").
		Include(metricBase).
		Field("sigma", g.Number().NonNegative()).
		MustBuild()
	percentiles = g.Kind("percentiles").
		Include(metricBase).
		Field("percents", g.ListOf(g.Number().Min(0).Max(100)).MinItems(1).CapItems()).
		Field("keyed", g.Bool()).
		Field("tdigest", g.AnyObject()).
		Field("hdr", g.AnyObject()).
		AtMostOne("tdigest", "hdr").
		MustBuild()
	topHits = g.Kind("top_hits").
		Field("size", g.Integer().NonNegative().CapMax()).Default(3).
		Field("from", g.Integer().NonNegative()).
		Field("sort", sortSpec).
		Field("_source", sourceSpec).
		MustBuild()
)

// Aggregations is the registry of aggregation kinds.
var Aggregations = g.MustRegistry("aggregation",
	termsAgg, dateHistogram, histogram, rangeAgg, dateRangeAgg,
	filtersAgg, filterAgg, nestedAgg, reverseNested, missingAgg, globalAgg, significantAgg,
	avgAgg, sumAgg, minAgg, maxAgg, valueCountAgg, statsAgg, cardinality, extendedStats,
	percentiles, topHits,
)

// aggCompanions sit beside the aggregation type key.
var aggCompanions = g.Kind("aggregation_companions").
	Field("aggregations", g.FanOut(g.Ref(Aggregation))).Wire("aggs").
	Field("meta", g.AnyObject()).
	MustBuild()
