package watcher

import (
	g "github.com/reoring/esguard"
)

// Action is the union of action kinds in the watch actions map. The
// ActionBase keys sit beside the kind key.
var Action = g.NewUnion("action")

var stringOrList = g.Either(g.String(), g.ListOf(g.String()).CapItems())

var actionBase = g.Kind("action_base").
	Field("throttle_period", g.String().Format("time_value")).
	Field("throttle_period_in_millis", g.Integer().NonNegative()).
	Field("condition", g.Ref(Condition)).
	Field("transform", g.Ref(Transform)).
	Field("foreach", g.String()).
	Field("max_iterations", g.Integer().Min(1)).
	AtMostOne("throttle_period", "throttle_period_in_millis").
	MustBuild()

var emailBody = g.Kind("email_body").
	Field("text", g.String()).
	Field("html", g.String()).
	AtLeastOne("text", "html").
	MustBuild()

var (
	logging = g.Kind("logging").
		Field("text", g.String()).Required().
		Field("level", g.Enum("trace", "debug", "info", "warn", "error")).Default("info").
		Field("category", g.String()).
		MustBuild()

	index = g.Kind("index").
		Field("index", g.String()).Required().
		Field("doc_id", g.String()).
		Field("refresh", g.Enum("true", "false", "wait_for")).
		Field("op_type", g.Enum("index", "create")).
		Field("doc", g.AnyObject()).
		Field("execution_time_field", g.String()).
		Field("timeout", g.String().Format("time_value")).
		MustBuild()

	webhook = g.Kind("webhook").
		Field("scheme", scheme).Default("https").
		Field("host", g.String()).Required().
		Field("port", g.Integer().Min(1).Max(65535)).
		Field("method", httpMethod).
		Field("path", g.String()).
		Field("params", g.AnyObject()).
		Field("headers", headers).
		Field("body", httpBody).
		Allow().
		MustBuild()

	email = g.Kind("email").
		Field("to", stringOrList).Required().
		Field("cc", stringOrList).
		Field("bcc", stringOrList).
		Field("from", g.String()).
		Field("reply_to", stringOrList).
		Field("subject", g.String()).Required().
		Field("body", g.ObjectOf(emailBody)).Required().
		Field("priority", g.Enum("lowest", "low", "normal", "high", "highest")).
		Field("attachments", g.AnyObject()).
		Allow().
		MustBuild()
)

// Actions is the registry behind the Action union.
var Actions = g.MustRegistry("action", logging, index, webhook, email)
