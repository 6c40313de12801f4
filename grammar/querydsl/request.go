package querydsl

import (
	g "github.com/reoring/esguard"
)

// MaxResultWindow bounds size and from.
const MaxResultWindow = 10000

// SearchRequest is the envelope of a search: one query, optional paging and
// named top-level aggregations.
var SearchRequest = g.Kind("search_request").
	Field("query", g.Ref(Query)).Required().
	Field("size", g.Integer().Min(0).Max(MaxResultWindow)).
	Field("offset", g.Integer().Min(0).Max(MaxResultWindow)).Wire("from").
	Field("aggregations", g.FanOut(g.Ref(Aggregation))).Wire("aggs").
	Field("post_filter", g.Ref(Query)).
	Field("sort", sortSpec).
	Field("_source", sourceSpec).
	Field("timeout", g.String().Format("time_value")).
	Field("track_total_hits", g.Either(g.Bool(), g.Integer().NonNegative())).
	Field("min_score", g.Number()).
	Field("search_after", g.ListOf(g.Any()).CapItems()).
	Field("highlight", g.AnyObject()).
	Field("explain", g.Bool()).
	MustBuild()

func init() {
	Query.Define(Queries)
	Aggregation.Define(Aggregations, g.WithCompanions(aggCompanions))
}

// DefaultCaps: 1000 named entries per mapping, three aggregation levels,
// 1000 items per capped list, twenty levels of query nesting.
func DefaultCaps() g.CapPolicy {
	caps := g.DefaultCaps()
	caps.Depth = map[string]int{Query.Name(): 20}
	return caps
}

// Schema returns the search request schema.
func Schema() g.Schema {
	return g.Schema{
		ID:    "search",
		Title: "search request",
		Root:  g.ObjectOf(SearchRequest),
		Caps:  DefaultCaps(),
	}
}
