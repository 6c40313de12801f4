package watcher

import (
	g "github.com/reoring/esguard"
)

// Condition gates actions. It appears at watch level and per action.
var Condition = g.NewUnion("condition")

var scriptSpec = g.Kind("script").
	Field("lang", g.String()).Default("painless").
	Field("source", g.String()).
	Field("id", g.String()).
	Field("params", g.AnyObject()).
	ExactlyOne("source", "id").
	MustBuild()

var compareOp = g.Kind("compare_op").
	Field("eq", g.Any()).
	Field("not_eq", g.Any()).
	Field("gt", g.Any()).
	Field("gte", g.Any()).
	Field("lt", g.Any()).
	Field("lte", g.Any()).
	ExactlyOne("eq", "not_eq", "gt", "gte", "lt", "lte").
	MustBuild()

var (
	always = g.Kind("always").
		Body(g.AnyObject()).
		MustBuild()

	never = g.Kind("never").
		Body(g.AnyObject()).
		MustBuild()

	// compare names one payload path, e.g. {"ctx.payload.hits.total": {"gt": 5}}.
	compare = g.Kind("compare").
		Keyed(g.ObjectOf(compareOp)).
		MustBuild()

	arrayCompare = g.Kind("array_compare").
		Field("path", g.String()).Required().
		Field("path_to_elements", g.String()).
		Field("gte", g.Integer()).
		Field("gt", g.Integer()).
		Field("lte", g.Integer()).
		Field("lt", g.Integer()).
		Field("value", g.Any()).
		MustBuild()
)

// Conditions is the registry behind the Condition union.
var Conditions = g.MustRegistry("condition", always, never, compare, scriptSpec, arrayCompare)

// Transform reshapes the payload; TransformStep is one step of a chain.
var (
	Transform     = g.NewUnion("transform")
	TransformStep = g.NewUnion("transform_step")
)

var transformChain = g.Kind("chain").
	Body(g.ListOf(g.Ref(TransformStep)).MinItems(1).CapItems()).
	MustBuild()

// Transforms is the registry behind the Transform union. The script and
// search kinds are shared with conditions and inputs.
var Transforms = g.MustRegistry("transform", transformChain, scriptSpec, search)
