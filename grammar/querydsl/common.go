// Package querydsl declares the search request grammar: query clauses,
// aggregations and the request envelope that carries them.
package querydsl

import (
	g "github.com/reoring/esguard"
)

// Union points. Both are recursive: bool/nested/constant_score/dis_max nest
// queries, and aggregations nest sub-aggregations through "aggs".
var (
	Query       = g.NewUnion("query")
	Aggregation = g.NewUnion("aggregation")
)

// Shared value types.
var (
	scalar      = g.Either(g.String(), g.Number(), g.Bool())
	stringList  = g.Either(g.String(), g.ListOf(g.String()).CapItems())
	script      = g.Either(g.String(), g.AnyObject())
	boost       = g.Number().NonNegative()
	fuzziness   = g.Either(g.String(), g.Integer().NonNegative())
	minShould   = g.Either(g.String(), g.Integer())
	operator    = g.Enum("OR", "AND").Upper()
	tieBreaker  = g.Number().Min(0).Max(1)
	sortSpec    = g.Either(g.String(), g.AnyObject(), g.ListOf(g.Either(g.String(), g.AnyObject())).CapItems())
	sourceSpec  = g.Either(g.Bool(), g.String(), g.ListOf(g.String()).CapItems(), g.AnyObject())
	queryOrList = g.Either(g.Ref(Query), g.ListOf(g.Ref(Query)).CapItems())
)

// clause carries the "_name" and "boost" keys every query clause accepts.
var clause = g.Kind("clause").
	Field("boost", boost).
	Field("_name", g.String()).
	MustBuild()
