package watcher

import (
	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar/querydsl"
)

// Watch is a watch definition. Unknown top-level keys are kept as-is.
var Watch = g.Kind("watch").
	Field("trigger", g.ObjectOf(trigger)).Required().
	Field("input", g.Ref(Input)).
	Field("condition", g.Ref(Condition)).
	Field("transform", g.Ref(Transform)).
	Field("actions", g.FanOut(g.Ref(Action))).Required().
	Field("metadata", g.AnyObject()).
	Field("version", g.Integer().NonNegative()).
	Field("active", g.Bool()).
	Field("throttle_period", g.String().Format("time_value")).
	Field("throttle_period_in_millis", g.Integer().NonNegative()).
	AtMostOne("throttle_period", "throttle_period_in_millis").
	Allow().
	MustBuild()

func init() {
	Schedule.Define(Schedules, g.WithCompanions(scheduleCompanions))
	Input.Define(Inputs)
	ChainLink.Define(Inputs.MustSubset("chain_link", "simple", "search", "http"))
	Condition.Define(Conditions)
	Transform.Define(Transforms)
	TransformStep.Define(Transforms.MustSubset("transform_step", "script", "search"))
	Action.Define(Actions, g.WithCompanions(actionBase))
}

// DefaultCaps: 1000 actions, three levels per union point, 1000 list items.
// Search bodies keep the query nesting limit of search requests.
func DefaultCaps() g.CapPolicy {
	caps := g.DefaultCaps()
	caps.Depth = querydsl.DefaultCaps().Depth
	return caps
}

// Schema returns the watch schema.
func Schema() g.Schema {
	return g.Schema{
		ID:      "watch",
		Title:   "watch",
		Root:    g.ObjectOf(Watch),
		Caps:    DefaultCaps(),
		Options: Formats(),
	}
}
