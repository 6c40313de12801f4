// Package watcher declares the watch grammar: trigger schedules, inputs,
// conditions, transforms and the named actions a watch runs.
package watcher

import (
	g "github.com/reoring/esguard"
)

// Schedule is the trigger.schedule union; timezone may sit beside the
// schedule kind.
var Schedule = g.NewUnion("schedule")

func intOrList(lo, hi float64) *g.Type {
	one := g.Integer().Min(lo).Max(hi)
	return g.Either(one, g.ListOf(one).MinItems(1).CapItems())
}

var (
	cronExpr = g.String().Format("cron")

	hourMinute = g.Kind("hour_minute").
		Field("hour", intOrList(0, 23)).Required().
		Field("minute", intOrList(0, 59)).Required().
		MustBuild()
	timeSpec = g.Either(g.String().Format("time_of_day"), g.ObjectOf(hourMinute))
	atSpec   = g.Either(timeSpec, g.ListOf(timeSpec).MinItems(1).CapItems())

	monthlySpec = g.Kind("monthly_spec").
		Field("on", intOrList(1, 31)).Required().
		Field("at", atSpec).Default("midnight").
		MustBuild()
)

var (
	interval = g.Kind("interval").
		Body(g.String().Format("time_value")).
		MustBuild()

	cronSchedule = g.Kind("cron").
		Body(g.Either(cronExpr, g.ListOf(cronExpr).MinItems(1).CapItems())).
		MustBuild()

	hourly = g.Kind("hourly").
		Field("minute", intOrList(0, 59)).Default(0).
		MustBuild()

	daily = g.Kind("daily").
		Field("at", atSpec).Default("midnight").
		MustBuild()

	monthly = g.Kind("monthly").
		Body(g.Either(g.ObjectOf(monthlySpec), g.ListOf(g.ObjectOf(monthlySpec)).MinItems(1).CapItems())).
		MustBuild()
)

// Schedules is the registry behind the Schedule union.
var Schedules = g.MustRegistry("schedule", interval, cronSchedule, hourly, daily, monthly)

var scheduleCompanions = g.Kind("schedule_companions").
	Field("timezone", g.String()).
	MustBuild()

var trigger = g.Kind("trigger").
	Field("schedule", g.Ref(Schedule)).Required().
	MustBuild()
