package querydsl_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/esguard"
	"github.com/reoring/esguard/grammar/querydsl"
)

func newValidator(t *testing.T, opts ...esguard.ValidatorOption) *esguard.Validator {
	t.Helper()
	v, err := querydsl.Schema().Validator(opts...)
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

var validRequests = map[string]string{
	"match_simple":   `{"query": {"match": {"message": "kibana"}}, "size": 10}`,
	"multi_match":    `{"query": {"multi_match": {"query": "elastic agent", "fields": ["title^2", "body"], "type": "best_fields"}}, "size": 5}`,
	"term_verbose":   `{"query": {"term": {"status": {"value": "ok", "boost": 2.0}}}, "size": 1}`,
	"terms_list":     `{"query": {"terms": {"env": ["prod", "staging"]}}}`,
	"range_date":     `{"query": {"range": {"@timestamp": {"gte": "now-7d/d", "lt": "now/d"}}}, "size": 0}`,
	"exists":         `{"query": {"exists": {"field": "service.name"}}}`,
	"match_all_page": `{"query": {"match_all": {}}, "size": 200, "from": 100}`,
	"ids":            `{"query": {"ids": {"values": ["a", "b", "c"]}}}`,
	"bool": `{"query": {"bool": {
		"must": [{"match": {"title": {"query": "observability", "operator": "and"}}}],
		"should": [{"term": {"tags": "apm"}}, {"term": {"tags": "logs"}}],
		"minimum_should_match": 1}}}`,
	"terms_agg":      `{"query": {"match_all": {}}, "aggs": {"by_env": {"terms": {"field": "env", "size": 10}}}}`,
	"date_hist_cal":  `{"query": {"match_all": {}}, "aggs": {"per_day": {"date_histogram": {"field": "@timestamp", "calendar_interval": "1d"}}}}`,
	"date_hist_fix":  `{"query": {"match_all": {}}, "aggs": {"per_hour": {"date_histogram": {"field": "@timestamp", "fixed_interval": "1h"}}}}`,
	"histogram":      `{"query": {"match": {"metric": "latency"}}, "aggs": {"lat_bins": {"histogram": {"field": "latency_ms", "interval": 50}}}}`,
	"range_agg": `{"query": {"match": {"path": "/api"}}, "size": 0, "aggs": {"bytes_ranges": {"range": {"field": "bytes", "ranges": [
		{"to": 1024, "key": "small"}, {"from": 1024, "to": 1048576, "key": "medium"}, {"from": 1048576, "key": "large"}]}}}}`,
	"filters_named": `{"query": {"match_all": {}}, "aggs": {"status": {
		"filters": {"filters": {"ok": {"term": {"status": "ok"}}, "ko": {"term": {"status": {"value": "ko"}}}}},
		"aggs": {"avg_bytes": {"avg": {"field": "bytes"}}}}}}`,
	"nested_depth3": `{"query": {"match_all": {}}, "aggs": {"by_host": {
		"terms": {"field": "host.name", "size": 5},
		"aggs": {"per_day": {
			"date_histogram": {"field": "@timestamp", "calendar_interval": "1d"},
			"aggs": {"bytes_stats": {"stats": {"field": "bytes"}}}}}}}}`,
}

func TestValidRequests_RoundTrip(t *testing.T) {
	v := newValidator(t)
	for name, js := range validRequests {
		t.Run(name, func(t *testing.T) {
			doc := decode(t, js)
			tree, err := v.Validate(doc)
			if err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			wire := esguard.Serialize(tree, esguard.SerializeOpt{UseWireAliases: true})
			if _, ok := wire["query"]; !ok {
				t.Fatalf("query missing from %v", wire)
			}
			if aggs, ok := doc["aggs"].(map[string]any); ok {
				out, _ := wire["aggs"].(map[string]any)
				if diff := cmp.Diff(keys(aggs), keys(out)); diff != "" {
					t.Fatalf("aggs keys changed (-in +out):\n%s", diff)
				}
			}
			if from, ok := doc["from"]; ok && !esguard.ValueEqual(from, wire["from"]) {
				t.Fatalf("from not preserved: %v vs %v", from, wire["from"])
			}
			again, err := v.Validate(wire)
			if err != nil {
				t.Fatalf("serialized tree no longer validates: %v", err)
			}
			if !esguard.Equal(tree, again) {
				t.Fatalf("round trip changed the tree")
			}
		})
	}
}

func keys(m map[string]any) map[string]bool {
	out := map[string]bool{}
	for k := range m {
		out[k] = true
	}
	return out
}

func manyFilters(n int) string {
	s := `{"query": {"match_all": {}}, "aggs": {"f": {"filters": {"filters": {`
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(`"f%d": {"term": {"k": %d}}`, i, i)
	}
	return s + `}}}}}`
}

func manyRanges(n int) string {
	s := `{"query": {"match_all": {}}, "aggs": {"r": {"range": {"field": "n", "ranges": [`
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf(`{"from": %d, "to": %d}`, i, i+1)
	}
	return s + `]}}}}`
}

func TestInvalidRequests(t *testing.T) {
	v := newValidator(t)
	cases := []struct {
		name    string
		js      string
		code    string
		pointer string
	}{
		{"terms size over cap", `{"query": {"match_all": {}}, "aggs": {"too_many": {"terms": {"field": "env", "size": 1001}}}}`,
			esguard.CodeOutOfBounds, "/aggs/too_many/terms/size"},
		{"filters over cap", manyFilters(1001), esguard.CodeFanOutExceeded, "/aggs/f/filters/filters"},
		{"ranges over cap", manyRanges(1001), esguard.CodeOutOfBounds, "/aggs/r/range/ranges"},
		{"both intervals", `{"query": {"match_all": {}}, "aggs": {"h": {"date_histogram": {"field": "@timestamp", "calendar_interval": "1d", "fixed_interval": "1h"}}}}`,
			esguard.CodeMutuallyExclusive, "/aggs/h/date_histogram"},
		{"no interval", `{"query": {"match_all": {}}, "aggs": {"h": {"date_histogram": {"field": "@timestamp"}}}}`,
			esguard.CodeMissingOneOf, "/aggs/h/date_histogram"},
		{"two kinds on one node", `{"query": {"match_all": {}}, "aggs": {"bad": {"terms": {"field": "env", "size": 5}, "stats": {"field": "bytes"}}}}`,
			esguard.CodeConflictingKinds, "/aggs/bad"},
		{"unknown field", `{"query": {"match_all": {}}, "aggs": {"x": {"terms": {"field": "env", "bogus": 1}}}}`,
			esguard.CodeUnknownField, "/aggs/x/terms/bogus"},
		{"no query kind", `{"query": {"bogus": {}}}`, esguard.CodeMissingDiscriminator, "/query"},
		{"query required", `{"size": 1}`, esguard.CodeMissingRequiredField, "/query"},
		{"size over window", `{"query": {"match_all": {}}, "size": 10001}`, esguard.CodeOutOfBounds, "/size"},
		{"size not integer", `{"query": {"match_all": {}}, "size": 1.5}`, esguard.CodeTypeMismatch, "/size"},
		{"bad fixed interval", `{"query": {"match_all": {}}, "aggs": {"h": {"date_histogram": {"field": "t", "fixed_interval": "hourly"}}}}`,
			esguard.CodeInvalidFormat, "/aggs/h/date_histogram/fixed_interval"},
		{"bad calendar interval", `{"query": {"match_all": {}}, "aggs": {"h": {"date_histogram": {"field": "t", "calendar_interval": "2d"}}}}`,
			esguard.CodeInvalidEnum, "/aggs/h/date_histogram/calendar_interval"},
		{"term with two fields", `{"query": {"term": {"a": 1, "b": 2}}}`, esguard.CodeMutuallyExclusive, "/query/term"},
		{"range without bounds", `{"query": {"range": {"n": {"format": "x"}}}}`, esguard.CodeMissingOneOf, "/query/range/n"},
		{"histogram interval zero", `{"query": {"match_all": {}}, "aggs": {"h": {"histogram": {"field": "n", "interval": 0}}}}`,
			esguard.CodeOutOfBounds, "/aggs/h/histogram/interval"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := v.Validate(decode(t, c.js))
			iss, ok := esguard.AsIssues(err)
			if !ok {
				t.Fatalf("expected issues, got %v", err)
			}
			if len(iss.At(c.pointer)) == 0 || !iss.At(c.pointer).Has(c.code) {
				t.Fatalf("expected %s at %s, got %v", c.code, c.pointer, iss)
			}
		})
	}
}

func TestCaps_AcceptExactLimit(t *testing.T) {
	v := newValidator(t)
	for name, js := range map[string]string{
		"filters at cap":    manyFilters(1000),
		"ranges at cap":     manyRanges(1000),
		"terms size at cap": `{"query": {"match_all": {}}, "aggs": {"t": {"terms": {"field": "env", "size": 1000}}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Validate(decode(t, js)); err != nil {
				t.Fatalf("rejected at the limit: %v", err)
			}
		})
	}
}

func TestConflictingKinds_ListsBoth(t *testing.T) {
	v := newValidator(t)
	_, err := v.Validate(decode(t, `{"query": {"match_all": {}}, "aggs": {"bad": {"terms": {"field": "env"}, "stats": {"field": "bytes"}}}}`))
	iss, _ := esguard.AsIssues(err)
	if len(iss) != 1 {
		t.Fatalf("expected exactly one issue, got %v", iss)
	}
	if diff := cmp.Diff([]string{"stats", "terms"}, iss[0].Params["kinds"]); diff != "" {
		t.Fatalf("kinds param (-want +got):\n%s", diff)
	}
}

func depthRequest() string {
	return `{"query": {"match_all": {}}, "aggs": {"l1": {
		"terms": {"field": "a", "size": 5},
		"aggs": {"l2": {
			"date_histogram": {"field": "@timestamp", "calendar_interval": "1d"},
			"aggs": {"l3": {
				"terms": {"field": "b", "size": 3},
				"aggs": {"l4": {"stats": {"field": "c"}}}}}}}}}}`
}

func TestDepthExceeded_AtFourthLevel(t *testing.T) {
	v := newValidator(t)
	_, err := v.Validate(decode(t, depthRequest()))
	iss, ok := esguard.AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected a single issue, got %v", err)
	}
	it := iss[0]
	if it.Code != esguard.CodeDepthExceeded || it.Path.Pointer() != "/aggs/l1/aggs/l2/aggs/l3/aggs/l4" {
		t.Fatalf("unexpected issue %+v", it)
	}
	if it.Params["depth"] != 4 || it.Params["max"] != 3 {
		t.Fatalf("unexpected params %v", it.Params)
	}

	// Raising the cap admits the same document.
	caps := querydsl.DefaultCaps()
	caps.MaxDepth = 4
	v4, err := querydsl.Schema().WithCaps(caps).Validator()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v4.Validate(decode(t, depthRequest())); err != nil {
		t.Fatalf("expected valid with depth 4, got %v", err)
	}
}

func TestQueryDepth_UsesOwnLimit(t *testing.T) {
	v := newValidator(t)
	nest := func(n int) string {
		s := `{"match_all": {}}`
		for i := 1; i < n; i++ {
			s = `{"bool": {"must": [` + s + `]}}`
		}
		return `{"query": ` + s + `}`
	}
	if _, err := v.Validate(decode(t, nest(20))); err != nil {
		t.Fatalf("20 levels should pass: %v", err)
	}
	_, err := v.Validate(decode(t, nest(21)))
	iss, _ := esguard.AsIssues(err)
	if !iss.Has(esguard.CodeDepthExceeded) {
		t.Fatalf("expected depth_exceeded at 21 levels, got %v", err)
	}
}

func TestFromAlias(t *testing.T) {
	v := newValidator(t)
	tree, err := v.Validate(decode(t, `{"query": {"match_all": {}}, "offset": 5}`))
	if err != nil {
		t.Fatalf("internal name should be accepted: %v", err)
	}
	wire := esguard.Serialize(tree, esguard.SerializeOpt{UseWireAliases: true})
	if _, ok := wire["from"]; !ok {
		t.Fatalf("expected wire name from, got %v", wire)
	}
	internal := esguard.Serialize(tree, esguard.SerializeOpt{})
	if _, ok := internal["offset"]; !ok {
		t.Fatalf("expected internal name offset, got %v", internal)
	}
	again, err := v.Validate(internal)
	if err != nil || !esguard.Equal(tree, again) {
		t.Fatalf("internal-name round trip failed: %v", err)
	}

	_, err = v.Validate(decode(t, `{"query": {"match_all": {}}, "offset": 5, "from": 5}`))
	iss, _ := esguard.AsIssues(err)
	if !iss.At("/").Has(esguard.CodeMutuallyExclusive) {
		t.Fatalf("expected mutually_exclusive_fields at root, got %v", err)
	}
}

func TestDefaults_OnlyWhenRequested(t *testing.T) {
	v := newValidator(t)
	tree, err := v.Validate(decode(t, `{"query": {"match_all": {}}, "aggs": {"e": {"terms": {"field": "env"}}}}`))
	if err != nil {
		t.Fatal(err)
	}
	body := func(opt esguard.SerializeOpt) map[string]any {
		w := esguard.Serialize(tree, opt)
		return w["aggs"].(map[string]any)["e"].(map[string]any)["terms"].(map[string]any)
	}
	if _, ok := body(esguard.SerializeOpt{UseWireAliases: true})["size"]; ok {
		t.Fatalf("default size must not be emitted")
	}
	got := body(esguard.SerializeOpt{UseWireAliases: true, IncludeDefaults: true})
	if !esguard.ValueEqual(got["size"], 10) || !esguard.ValueEqual(got["min_doc_count"], 1) {
		t.Fatalf("expected defaults, got %v", got)
	}
}

func TestValidate_DoesNotAliasInput(t *testing.T) {
	v := newValidator(t)
	doc := decode(t, validRequests["terms_list"])
	tree, err := v.Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	before := esguard.Serialize(tree, esguard.SerializeOpt{UseWireAliases: true})
	doc["query"].(map[string]any)["terms"].(map[string]any)["env"] = []any{"changed"}
	after := esguard.Serialize(tree, esguard.SerializeOpt{UseWireAliases: true})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("tree changed with its input (-before +after):\n%s", diff)
	}
}

func TestOperator_Canonicalized(t *testing.T) {
	v := newValidator(t)
	tree, err := v.Validate(decode(t, `{"query": {"multi_match": {"query": "x", "operator": "and"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	q := tree.Value("query").(*esguard.Node)
	if q.Value("operator") != "AND" {
		t.Fatalf("expected AND, got %v", q.Value("operator"))
	}
}
