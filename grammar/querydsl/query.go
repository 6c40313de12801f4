package querydsl

import (
	g "github.com/reoring/esguard"
)

var (
	matchAll  = g.Kind("match_all").Include(clause).MustBuild()
	matchNone = g.Kind("match_none").Field("_name", g.String()).MustBuild()

	matchParams = g.Kind("match_params").
		Field("query", scalar).Required().
		Field("operator", operator).
		Field("analyzer", g.String()).
		Field("fuzziness", fuzziness).
		Field("prefix_length", g.Integer().NonNegative()).
		Field("max_expansions", g.Integer().Positive()).
		Field("minimum_should_match", minShould).
		Field("zero_terms_query", g.Enum("none", "all")).
		Field("lenient", g.Bool()).
		Field("auto_generate_synonyms_phrase_query", g.Bool()).
		Include(clause).
		MustBuild()
	match = g.Kind("match").Keyed(g.Either(scalar, g.ObjectOf(matchParams))).MustBuild()

	phraseParams = g.Kind("match_phrase_params").
		Field("query", g.String()).Required().
		Field("analyzer", g.String()).
		Field("slop", g.Integer().NonNegative()).
		Field("zero_terms_query", g.Enum("none", "all")).
		Include(clause).
		MustBuild()
	matchPhrase = g.Kind("match_phrase").Keyed(g.Either(g.String(), g.ObjectOf(phraseParams))).MustBuild()

	multiMatch = g.Kind("multi_match").
		Field("query", scalar).Required().
		Field("fields", g.ListOf(g.String()).CapItems()).
		Field("type", g.Enum("best_fields", "most_fields", "cross_fields", "phrase", "phrase_prefix", "bool_prefix")).Default("best_fields").
		Field("operator", operator).
		Field("analyzer", g.String()).
		Field("fuzziness", fuzziness).
		Field("tie_breaker", tieBreaker).
		Field("minimum_should_match", minShould).
		Field("lenient", g.Bool()).
		Include(clause).
		MustBuild()

	termParams = g.Kind("term_params").
		Field("value", scalar).Required().
		Field("case_insensitive", g.Bool()).
		Include(clause).
		MustBuild()
	term = g.Kind("term").Keyed(g.Either(scalar, g.ObjectOf(termParams))).MustBuild()

	// terms carries boost/_name beside the single field key.
	terms = g.Kind("terms").
		Include(clause).
		Keyed(g.ListOf(scalar).CapItems()).
		MustBuild()

	rangeParams = g.Kind("range_params").
		Field("gt", g.Either(g.Number(), g.String())).
		Field("gte", g.Either(g.Number(), g.String())).
		Field("lt", g.Either(g.Number(), g.String())).
		Field("lte", g.Either(g.Number(), g.String())).
		Field("format", g.String()).
		Field("relation", g.Enum("INTERSECTS", "CONTAINS", "WITHIN").Upper()).
		Field("time_zone", g.String()).
		Include(clause).
		AtMostOne("gt", "gte").
		AtMostOne("lt", "lte").
		AtLeastOne("gt", "gte", "lt", "lte").
		MustBuild()
	rangeQuery = g.Kind("range").Keyed(g.ObjectOf(rangeParams)).MustBuild()

	exists = g.Kind("exists").Field("field", g.String()).Required().Include(clause).MustBuild()
	ids    = g.Kind("ids").Field("values", g.ListOf(g.String()).CapItems()).Required().Include(clause).MustBuild()

	prefixParams = g.Kind("prefix_params").
		Field("value", g.String()).Required().
		Field("case_insensitive", g.Bool()).
		Field("rewrite", g.String()).
		Include(clause).
		MustBuild()
	prefix = g.Kind("prefix").Keyed(g.Either(g.String(), g.ObjectOf(prefixParams))).MustBuild()

	wildcardParams = g.Kind("wildcard_params").
		Field("value", g.String()).
		Field("wildcard", g.String()).
		Field("case_insensitive", g.Bool()).
		Field("rewrite", g.String()).
		Include(clause).
		ExactlyOne("value", "wildcard").
		MustBuild()
	wildcard = g.Kind("wildcard").Keyed(g.Either(g.String(), g.ObjectOf(wildcardParams))).MustBuild()

	queryString = g.Kind("query_string").
		Field("query", g.String()).Required().
		Field("default_field", g.String()).
		Field("fields", g.ListOf(g.String()).CapItems()).
		Field("default_operator", operator).
		Field("analyzer", g.String()).
		Field("allow_leading_wildcard", g.Bool()).
		Field("analyze_wildcard", g.Bool()).
		Field("fuzziness", fuzziness).
		Field("lenient", g.Bool()).
		Field("minimum_should_match", minShould).
		Field("time_zone", g.String()).
		Include(clause).
		AtMostOne("default_field", "fields").
		MustBuild()

	simpleQueryString = g.Kind("simple_query_string").
		Field("query", g.String()).Required().
		Field("fields", g.ListOf(g.String()).CapItems()).
		Field("default_operator", operator).
		Field("analyzer", g.String()).
		Field("flags", g.String()).
		Field("lenient", g.Bool()).
		Field("minimum_should_match", minShould).
		Include(clause).
		MustBuild()

	boolQuery = g.Kind("bool").
		Field("must", queryOrList).
		Field("filter", queryOrList).
		Field("should", queryOrList).
		Field("must_not", queryOrList).
		Field("minimum_should_match", minShould).
		Include(clause).
		MustBuild()

	nested = g.Kind("nested").
		Field("path", g.String()).Required().
		Field("query", g.Ref(Query)).Required().
		Field("score_mode", g.Enum("avg", "max", "min", "none", "sum")).Default("avg").
		Field("ignore_unmapped", g.Bool()).
		Field("inner_hits", g.AnyObject()).
		Include(clause).
		MustBuild()

	constantScore = g.Kind("constant_score").
		Field("filter", g.Ref(Query)).Required().
		Include(clause).
		MustBuild()

	disMax = g.Kind("dis_max").
		Field("queries", g.ListOf(g.Ref(Query)).MinItems(1).CapItems()).Required().
		Field("tie_breaker", tieBreaker).
		Include(clause).
		MustBuild()
)

// Queries is the registry of query clause kinds.
var Queries = g.MustRegistry("query",
	matchAll, matchNone, match, matchPhrase, multiMatch,
	term, terms, rangeQuery, exists, ids, prefix, wildcard,
	queryString, simpleQueryString,
	boolQuery, nested, constantScore, disMax,
)
