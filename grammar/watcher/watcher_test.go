package watcher_test

import (
	"testing"

	"github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar/watcher"
)

func newValidator(t *testing.T) *esguard.Validator {
	t.Helper()
	v, err := watcher.Schema().Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return v
}

func decode(t *testing.T, js string) map[string]any {
	t.Helper()
	doc, err := esguard.DecodeJSON([]byte(js), esguard.DecodeOpt{OnDuplicateKey: esguard.Error})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc.(map[string]any)
}

const errorWatch = `{
	"trigger": {"schedule": {"interval": "5m"}},
	"input": {"search": {"request": {
		"indices": ["logs-*"],
		"body": {"query": {"bool": {"filter": [{"match": {"log.level": "error"}}, {"range": {"@timestamp": {"gte": "now-5m"}}}]}}, "size": 0}
	}}},
	"condition": {"compare": {"ctx.payload.hits.total": {"gt": 10}}},
	"actions": {
		"log_it": {"logging": {"text": "{{ctx.payload.hits.total}} errors"}, "throttle_period": "15m"},
		"page": {"webhook": {"host": "pager.example.com", "port": 443, "method": "post", "path": "/hook", "body": "{}", "auth": {"basic": {"username": "u"}}}}
	},
	"metadata": {"team": "sre"},
	"x_owner": "sre"
}`

var validWatches = map[string]string{
	"errors": errorWatch,
	"cron": `{"trigger": {"schedule": {"cron": "0 0/5 * * * ?", "timezone": "Europe/Paris"}},
		"actions": {"l": {"logging": {"text": "tick"}}}}`,
	"cron_list_with_year": `{"trigger": {"schedule": {"cron": ["0 0 12 * * ? 2030", "0 30 6 ? * MON-FRI"]}},
		"actions": {"l": {"logging": {"text": "tick", "level": "debug"}}}}`,
	"hourly": `{"trigger": {"schedule": {"hourly": {"minute": [0, 15, 30, 45]}}}, "actions": {}}`,
	"daily": `{"trigger": {"schedule": {"daily": {"at": ["midnight", "17:00", {"hour": [6, 18], "minute": 30}]}}}, "actions": {}}`,
	"monthly": `{"trigger": {"schedule": {"monthly": [{"on": 1, "at": "noon"}, {"on": [15, 28]}]}}, "actions": {}}`,
	"chain": `{"trigger": {"schedule": {"interval": "1h"}},
		"input": {"chain": {"inputs": [
			{"simple": {"threshold": 5}},
			{"remote": {"http": {"request": {"host": "svc", "port": 8080, "path": "/stats", "method": "get"}}}}
		]}},
		"transform": {"chain": [{"script": {"source": "return ctx.payload"}}, {"search": {"request": {"indices": ["a"]}}}]},
		"actions": {"mail": {"email": {"to": ["ops@example.com"], "subject": "stats", "body": {"html": "<b>ok</b>"}},
			"condition": {"script": {"source": "ctx.payload.total > params.t", "params": {"t": 1}}}}}}`,
	"array_compare": `{"trigger": {"schedule": {"interval": "10s"}},
		"condition": {"array_compare": {"path": "ctx.payload.buckets", "gte": 3}},
		"actions": {"store": {"index": {"index": "alerts", "op_type": "create"}, "foreach": "ctx.payload.buckets", "max_iterations": 100}}}`,
}

func TestValidWatches_RoundTrip(t *testing.T) {
	v := newValidator(t)
	for name, js := range validWatches {
		t.Run(name, func(t *testing.T) {
			tree, err := v.Validate(decode(t, js))
			if err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			wire := esguard.Serialize(tree, esguard.SerializeOpt{UseWireAliases: true})
			again, err := v.Validate(wire)
			if err != nil {
				t.Fatalf("re-validate: %v", err)
			}
			if !esguard.Equal(tree, again) {
				t.Fatalf("round trip changed the tree: %v", wire)
			}
		})
	}
}

func TestWebhookMethod_Canonicalized(t *testing.T) {
	v := newValidator(t)
	tree, err := v.Validate(decode(t, errorWatch))
	if err != nil {
		t.Fatal(err)
	}
	wire := esguard.Serialize(tree, esguard.SerializeOpt{})
	hook := wire["actions"].(map[string]any)["page"].(map[string]any)["webhook"].(map[string]any)
	if hook["method"] != "POST" {
		t.Fatalf("method = %v", hook["method"])
	}
	if _, ok := hook["auth"]; !ok {
		t.Fatalf("extra webhook key dropped: %v", hook)
	}
	if wire["x_owner"] != "sre" {
		t.Fatalf("extra top-level key dropped: %v", wire)
	}
}

func TestScheduleCompanion(t *testing.T) {
	v := newValidator(t)
	tree, err := v.Validate(decode(t, validWatches["cron"]))
	if err != nil {
		t.Fatal(err)
	}
	sched := tree.Value("trigger").(*esguard.Node).Value("schedule").(*esguard.Node)
	if sched.Kind != "cron" {
		t.Fatalf("kind = %s", sched.Kind)
	}
	tz, ok := sched.Companion("timezone")
	if !ok || tz.Value != "Europe/Paris" {
		t.Fatalf("timezone = %v", tz.Value)
	}
}

func TestInvalidWatches(t *testing.T) {
	v := newValidator(t)
	const actions = `"actions": {"l": {"logging": {"text": "x"}}}`
	cases := []struct {
		name    string
		js      string
		code    string
		pointer string
	}{
		{"bad cron", `{"trigger": {"schedule": {"cron": "61 * * * * ?"}}, ` + actions + `}`,
			esguard.CodeInvalidFormat, "/trigger/schedule/cron"},
		{"five field cron", `{"trigger": {"schedule": {"cron": "*/5 * * * *"}}, ` + actions + `}`,
			esguard.CodeInvalidFormat, "/trigger/schedule/cron"},
		{"bad cron in list", `{"trigger": {"schedule": {"cron": ["0 0 * * * ?", "nope"]}}, ` + actions + `}`,
			esguard.CodeInvalidFormat, "/trigger/schedule/cron/1"},
		{"two schedules", `{"trigger": {"schedule": {"interval": "1m", "hourly": {}}}, ` + actions + `}`,
			esguard.CodeConflictingKinds, "/trigger/schedule"},
		{"no schedule kind", `{"trigger": {"schedule": {"timezone": "UTC"}}, ` + actions + `}`,
			esguard.CodeMissingDiscriminator, "/trigger/schedule"},
		{"bad interval", `{"trigger": {"schedule": {"interval": "5 minutes"}}, ` + actions + `}`,
			esguard.CodeInvalidFormat, "/trigger/schedule/interval"},
		{"minute out of range", `{"trigger": {"schedule": {"hourly": {"minute": 60}}}, ` + actions + `}`,
			esguard.CodeOutOfBounds, "/trigger/schedule/hourly/minute"},
		{"bad time of day", `{"trigger": {"schedule": {"daily": {"at": "25:00"}}}, ` + actions + `}`,
			esguard.CodeInvalidFormat, "/trigger/schedule/daily/at"},
		{"actions required", `{"trigger": {"schedule": {"interval": "1m"}}}`,
			esguard.CodeMissingRequiredField, "/actions"},
		{"unknown method", `{"trigger": {"schedule": {"interval": "1m"}}, "actions": {"w": {"webhook": {"host": "h", "method": "FETCH"}}}}`,
			esguard.CodeInvalidEnum, "/actions/w/webhook/method"},
		{"empty email body", `{"trigger": {"schedule": {"interval": "1m"}}, "actions": {"m": {"email": {"to": "a@b", "subject": "s", "body": {}}}}}`,
			esguard.CodeMissingOneOf, "/actions/m/email/body"},
		{"two action kinds", `{"trigger": {"schedule": {"interval": "1m"}}, "actions": {"x": {"logging": {"text": "a"}, "index": {"index": "i"}}}}`,
			esguard.CodeConflictingKinds, "/actions/x"},
		{"both throttles", `{"trigger": {"schedule": {"interval": "1m"}}, "actions": {"x": {"logging": {"text": "a"}, "throttle_period": "1m", "throttle_period_in_millis": 60000}}}`,
			esguard.CodeMutuallyExclusive, "/actions/x"},
		{"unknown action key", `{"trigger": {"schedule": {"interval": "1m"}}, "actions": {"x": {"logging": {"text": "a"}, "retries": 3}}}`,
			esguard.CodeUnknownField, "/actions/x/retries"},
		{"compare two ops", `{"trigger": {"schedule": {"interval": "1m"}}, "condition": {"compare": {"ctx.payload.n": {"gt": 1, "lt": 5}}}, ` + actions + `}`,
			esguard.CodeMutuallyExclusive, "/condition/compare/ctx.payload.n"},
		{"chain inside chain", `{"trigger": {"schedule": {"interval": "1m"}}, "input": {"chain": {"inputs": [{"chain": {"inputs": []}}]}}, ` + actions + `}`,
			esguard.CodeMissingDiscriminator, "/input/chain/inputs/0"},
		{"search body without query", `{"trigger": {"schedule": {"interval": "1m"}}, "input": {"search": {"request": {"body": {"size": 0}}}}, ` + actions + `}`,
			esguard.CodeMissingRequiredField, "/input/search/request/body/query"},
		{"script without source", `{"trigger": {"schedule": {"interval": "1m"}}, "condition": {"script": {"lang": "painless"}}, ` + actions + `}`,
			esguard.CodeMissingOneOf, "/condition/script"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := v.Validate(decode(t, c.js))
			iss, ok := esguard.AsIssues(err)
			if !ok {
				t.Fatalf("expected issues, got %v", err)
			}
			if !iss.At(c.pointer).Has(c.code) {
				t.Fatalf("expected %s at %s, got %v", c.code, c.pointer, iss)
			}
		})
	}
}
