package watcher

import (
	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar/querydsl"
)

// Input loads the watch payload. ChainLink is the same set without chain.
var (
	Input     = g.NewUnion("input")
	ChainLink = g.NewUnion("chain_link")
)

var (
	scheme     = g.Enum("http", "https")
	httpMethod = g.Enum("GET", "POST", "PUT", "PATCH", "DELETE", "HEAD").Upper()
	headers    = g.MapOf(g.String())
	httpBody   = g.Either(g.String(), g.AnyObject())
	extract    = g.ListOf(g.String()).CapItems()
)

// searchRequest is the request of search inputs and transforms. Its body is
// a full search request and is validated as one.
var searchRequest = g.Kind("search_input_request").
	Field("indices", g.ListOf(g.String()).CapItems()).
	Field("indices_options", g.AnyObject()).
	Field("search_type", g.Enum("query_then_fetch", "dfs_query_then_fetch")).
	Field("body", g.ObjectOf(querydsl.SearchRequest)).
	Field("template", g.AnyObject()).
	Field("rest_total_hits_as_int", g.Bool()).
	AtMostOne("body", "template").
	MustBuild()

var httpRequest = g.Kind("http_input_request").
	Field("scheme", scheme).Default("https").
	Field("host", g.String()).
	Field("port", g.Integer().Min(1).Max(65535)).
	Field("path", g.String()).
	Field("method", httpMethod).
	Field("url", g.String()).
	Field("params", g.AnyObject()).
	Field("headers", headers).
	Field("body", httpBody).
	Field("connection_timeout", g.String().Format("time_value")).
	Field("read_timeout", g.String().Format("time_value")).
	AtMostOne("url", "host").
	Allow().
	MustBuild()

var (
	simple = g.Kind("simple").
		Body(g.AnyObject()).
		MustBuild()

	search = g.Kind("search").
		Field("request", g.ObjectOf(searchRequest)).Required().
		Field("extract", extract).
		Field("timeout", g.String().Format("time_value")).
		MustBuild()

	httpInput = g.Kind("http").
		Field("request", g.ObjectOf(httpRequest)).Required().
		Field("extract", extract).
		Field("response_content_type", g.Enum("json", "yaml", "text")).
		MustBuild()

	// Links are either bare inputs or single-entry objects naming them.
	chain = g.Kind("chain").
		Field("inputs", g.ListOf(g.Either(g.Ref(ChainLink), g.FanOut(g.Ref(ChainLink)))).MinItems(1).CapItems()).Required().
		MustBuild()
)

// Inputs is the registry behind the Input union.
var Inputs = g.MustRegistry("input", simple, search, httpInput, chain)
