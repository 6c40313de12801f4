package esguard_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	g "github.com/reoring/esguard"
)

func newDrawingValidator(t *testing.T, opts ...g.ValidatorOption) *g.Validator {
	t.Helper()
	v, err := drawingSchema().Validator(opts...)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return v
}

func mustDecode(t *testing.T, js string) any {
	t.Helper()
	doc, err := g.DecodeJSON([]byte(js), g.DecodeOpt{OnDuplicateKey: g.Error})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return doc
}

func issuesOf(t *testing.T, err error) g.Issues {
	t.Helper()
	iss, ok := g.AsIssues(err)
	if !ok {
		t.Fatalf("expected Issues, got %v", err)
	}
	return iss
}

func TestValidate_Valid(t *testing.T) {
	v := newDrawingValidator(t)
	tree, err := v.Validate(mustDecode(t, `{
		"title": "scene",
		"root": {"group": {"items": [{"circle": {"radius": 1}}, {"text": "hi", "label": "greeting"}]}, "label": "top"},
		"tags": ["a", "b"],
		"color": "#ff0000",
		"count": 2.0
	}`))
	if err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	root := tree.Value("root").(*g.Node)
	if root.Union != "shape" || root.Kind != "group" {
		t.Fatalf("root = %s/%s", root.Union, root.Kind)
	}
	if label, _ := root.Companion("label"); label.Value != "top" {
		t.Fatalf("label = %v", label.Value)
	}
	items := root.Value("items").([]any)
	if items[1].(*g.Node).Body != "hi" {
		t.Fatalf("text body = %v", items[1].(*g.Node).Body)
	}
	var kinds []string
	tree.Walk(func(n *g.Node) bool {
		kinds = append(kinds, n.Kind)
		return true
	})
	if diff := cmp.Diff([]string{"drawing", "group", "circle", "text"}, kinds); diff != "" {
		t.Fatalf("walk order (-want +got):\n%s", diff)
	}
}

func TestValidate_CollectsIssues(t *testing.T) {
	v := newDrawingValidator(t)
	doc := mustDecode(t, `{"root": {"circle": {"radius": -1, "zzz": 1}}, "color": "red"}`)
	_, err := v.Validate(doc)
	iss := issuesOf(t, err)
	for _, want := range []struct{ code, pointer string }{
		{g.CodeMissingRequiredField, "/title"},
		{g.CodeOutOfBounds, "/root/circle/radius"},
		{g.CodeUnknownField, "/root/circle/zzz"},
		{g.CodeInvalidFormat, "/color"},
	} {
		if !iss.At(want.pointer).Has(want.code) {
			t.Errorf("missing %s at %s in %v", want.code, want.pointer, iss)
		}
	}

	fast := newDrawingValidator(t, g.WithFailFast())
	_, err = fast.Validate(doc)
	if got := issuesOf(t, err); len(got) != 1 {
		t.Fatalf("fail-fast returned %d issues: %v", len(got), got)
	}
}

func TestValidate_Cases(t *testing.T) {
	v := newDrawingValidator(t)
	cases := []struct {
		name    string
		js      string
		code    string
		pointer string
	}{
		{"null required", `{"title": null}`, g.CodeTypeMismatch, "/title"},
		{"not an object", `{"title": "t", "root": []}`, g.CodeTypeMismatch, "/root"},
		{"no kind", `{"title": "t", "root": {"label": "x"}}`, g.CodeMissingDiscriminator, "/root"},
		{"two kinds", `{"title": "t", "root": {"circle": {"radius": 1}, "rect": {"width": 1, "height": 1}}}`,
			g.CodeConflictingKinds, "/root"},
		{"unknown key beside kind", `{"title": "t", "root": {"circle": {"radius": 1}, "zzz": 1}}`, g.CodeUnknownField, "/root/zzz"},
		{"alias and name", `{"title": "t", "root": {"rect": {"width": 1, "height": 1, "rx": 2, "corner_radius": 2}}}`,
			g.CodeMutuallyExclusive, "/root/rect"},
		{"group exclusive", `{"title": "t", "root": {"group": {"items": [], "layers": {}}}}`, g.CodeMutuallyExclusive, "/root/group"},
		{"keyed empty", `{"title": "t", "root": {"attr": {}}}`, g.CodeMissingRequiredField, "/root/attr"},
		{"keyed two", `{"title": "t", "root": {"attr": {"a": 1, "b": 2}}}`, g.CodeMutuallyExclusive, "/root/attr"},
		{"keyed bad value", `{"title": "t", "root": {"attr": {"a": true}}}`, g.CodeTypeMismatch, "/root/attr/a"},
		{"bad enum", `{"title": "t", "root": {"circle": {"radius": 1, "fill": "dotted"}}}`, g.CodeInvalidEnum, "/root/circle/fill"},
		{"body type", `{"title": "t", "root": {"text": 1}}`, g.CodeTypeMismatch, "/root/text"},
		{"too many tags", `{"title": "t", "tags": ["a", "b", "c", "d"]}`, g.CodeOutOfBounds, "/tags"},
		{"count over cap", `{"title": "t", "count": 1001}`, g.CodeOutOfBounds, "/count"},
		{"count beyond float64", `{"title": "t", "count": 1e400}`, g.CodeOutOfBounds, "/count"},
		{"ratio below float64", `{"title": "t", "ratio": -1e400}`, g.CodeOutOfBounds, "/ratio"},
		{"fractional count", `{"title": "t", "count": 1.5}`, g.CodeTypeMismatch, "/count"},
		{"ratio zero", `{"title": "t", "ratio": 0}`, g.CodeOutOfBounds, "/ratio"},
		{"dog without breed", `{"title": "t", "pets": [{"type": "dog"}]}`, g.CodeMissingRequiredField, "/pets/0/breed"},
		{"pet type not string", `{"title": "t", "pets": [{"type": 5}]}`, g.CodeTypeMismatch, "/pets/0/type"},
		{"cat unknown field", `{"title": "t", "pets": [{"indoor": true, "lives": 9}]}`, g.CodeUnknownField, "/pets/0/lives"},
		{"either mismatch", `{"title": "t", "root": {"attr": {"a": [1]}}}`, g.CodeTypeMismatch, "/root/attr/a"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := v.Validate(mustDecode(t, c.js))
			iss := issuesOf(t, err)
			if !iss.At(c.pointer).Has(c.code) {
				t.Fatalf("expected %s at %s, got %v", c.code, c.pointer, iss)
			}
		})
	}
}

func TestValidate_ExclusiveMinParams(t *testing.T) {
	v := newDrawingValidator(t)
	_, err := v.Validate(mustDecode(t, `{"title": "t", "ratio": 0}`))
	it := issuesOf(t, err).At("/ratio")[0]
	if it.Params["exclusive_min"] != true || it.Params["min"] != 0.0 {
		t.Fatalf("params = %v", it.Params)
	}
}

func TestValidate_NullOptionalIsAbsent(t *testing.T) {
	v := newDrawingValidator(t)
	tree, err := v.Validate(mustDecode(t, `{"title": "t", "color": null, "root": {"circle": {"radius": 1, "fill": null}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tree.Field("color"); ok {
		t.Fatal("null optional field kept")
	}
	fill, ok := tree.Value("root").(*g.Node).Field("fill")
	if !ok || fill.Value != "none" {
		t.Fatalf("fill = %+v", fill)
	}
	if fill.Presence&g.PresenceWasNull == 0 || !fill.Presence.DefaultOnly() {
		t.Fatalf("fill presence = %v", fill.Presence)
	}
}

func TestValidate_ByValue(t *testing.T) {
	v := newDrawingValidator(t)
	tree, err := v.Validate(mustDecode(t, `{"title": "t", "pets": [
		{"indoor": true},
		{"type": "dog", "breed": "corgi"},
		{"type": "parrot", "words": 12}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	pets := tree.Value("pets").([]any)
	var kinds []string
	for _, p := range pets {
		kinds = append(kinds, p.(*g.Node).Kind)
	}
	if diff := cmp.Diff([]string{"cat", "dog", "other"}, kinds); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	tag, _ := pets[0].(*g.Node).Companion("type")
	if tag.Value != "cat" || !tag.Presence.DefaultOnly() {
		t.Fatalf("defaulted tag = %+v", tag)
	}
	parrot := pets[2].(*g.Node)
	if tag, _ := parrot.Companion("type"); tag.Value != "parrot" {
		t.Fatalf("fallback keeps the given tag, got %v", tag.Value)
	}
	if f, ok := parrot.Field("words"); !ok || !f.Extra {
		t.Fatalf("extra field = %+v", f)
	}
}

func TestValidate_UnknownDiscriminatorWithoutFallback(t *testing.T) {
	strict := g.NewUnion("strict_pet").Define(g.MustRegistry("pet", cat, dog), g.ByDiscriminator("type"))
	v, err := g.NewValidator(g.Ref(strict), g.DefaultCaps())
	if err != nil {
		t.Fatal(err)
	}
	_, err = v.Validate(map[string]any{"type": "parrot"})
	if !issuesOf(t, err).At("/type").Has(g.CodeDiscriminatorUnknown) {
		t.Fatalf("got %v", err)
	}
	_, err = v.Validate(map[string]any{"breed": "x"})
	if !issuesOf(t, err).At("/").Has(g.CodeMissingDiscriminator) {
		t.Fatalf("got %v", err)
	}
}

func nestedGroups(levels int) string {
	js := `{"circle": {"radius": 1}}`
	for i := 1; i < levels; i++ {
		js = `{"group": {"items": [` + js + `]}}`
	}
	return `{"title": "t", "root": ` + js + `}`
}

func TestValidate_Depth(t *testing.T) {
	v := newDrawingValidator(t)
	if _, err := v.Validate(mustDecode(t, nestedGroups(3))); err != nil {
		t.Fatalf("three levels: %v", err)
	}
	_, err := v.Validate(mustDecode(t, nestedGroups(4)))
	at := issuesOf(t, err).At("/root/group/items/0/group/items/0/group/items/0")
	if !at.Has(g.CodeDepthExceeded) {
		t.Fatalf("got %v", err)
	}
	if at[0].Params["depth"] != 4 || at[0].Params["max"] != 3 || at[0].Params["union"] != "shape" {
		t.Fatalf("params = %v", at[0].Params)
	}

	caps := g.DefaultCaps()
	caps.Depth = map[string]int{"shape": 4}
	deeper, err := drawingSchema().WithCaps(caps).Validator()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := deeper.Validate(mustDecode(t, nestedGroups(4))); err != nil {
		t.Fatalf("per-union override: %v", err)
	}
}

func TestValidate_FanOut(t *testing.T) {
	caps := g.DefaultCaps()
	caps.MaxFanout = 2
	v, err := drawingSchema().WithCaps(caps).Validator()
	if err != nil {
		t.Fatal(err)
	}
	atCap := mustDecode(t, `{"title": "t", "root": {"group": {"layers": {
		"a": {"circle": {"radius": 1}}, "b": {"circle": {"radius": 2}}}}}}`)
	if _, err := v.Validate(atCap); err != nil {
		t.Fatalf("mapping at the cap rejected: %v", err)
	}

	doc := mustDecode(t, `{"title": "t", "root": {"group": {"layers": {
		"a": {"circle": {"radius": 1}}, "b": {"circle": {"radius": 2}}, "c": {"circle": {"radius": -3}}}}}}`)
	_, err = v.Validate(doc)
	iss := issuesOf(t, err)
	at := iss.At("/root/group/layers")
	if !at.Has(g.CodeFanOutExceeded) || at[0].Params["count"] != 3 || at[0].Params["max"] != 2 {
		t.Fatalf("got %v", iss)
	}
	if len(iss.At("/root/group/layers/c/circle/radius")) != 0 {
		t.Fatal("over-wide mapping was descended into")
	}
}

func TestValidate_CapsFromPolicy(t *testing.T) {
	caps := g.DefaultCaps()
	caps.MaxCollectionSize = 5000
	v, err := drawingSchema().WithCaps(caps).Validator()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.Validate(mustDecode(t, `{"title": "t", "count": 4000}`)); err != nil {
		t.Fatalf("count under raised cap: %v", err)
	}
}

func TestNewValidator_Errors(t *testing.T) {
	undefined := g.NewUnion("never_defined")
	k := g.Kind("holder").Field("x", g.Ref(undefined)).MustBuild()
	if _, err := g.NewValidator(g.ObjectOf(k), g.DefaultCaps()); !errors.Is(err, g.ErrUndefinedUnion) {
		t.Fatalf("undefined union: %v", err)
	}
	if _, err := g.NewValidator(g.ObjectOf(drawing), g.DefaultCaps()); err == nil || !strings.Contains(err.Error(), "hex") {
		t.Fatalf("unregistered format: %v", err)
	}
	if _, err := g.NewValidator(g.String(), g.DefaultCaps()); err == nil {
		t.Fatal("string root accepted")
	}
	if _, err := drawingSchema().WithCaps(g.CapPolicy{MaxFanout: 1}).Validator(); !errors.Is(err, g.ErrInvalidCaps) {
		t.Fatalf("invalid caps: %v", err)
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	v := newDrawingValidator(t)
	js := `{"title": "t", "meta": {"n": 1, "deep": {"x": [1, 2]}}, "pets": [{"indoor": false}]}`
	doc := mustDecode(t, js)
	before := mustDecode(t, js)
	tree, err := v.Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, doc); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
	tree.Value("meta").(map[string]any)["n"] = "changed"
	if doc.(map[string]any)["meta"].(map[string]any)["n"] == "changed" {
		t.Fatal("tree aliases the input")
	}
}

func TestValidate_Concurrent(t *testing.T) {
	v := newDrawingValidator(t)
	good := mustDecode(t, nestedGroups(3))
	bad := mustDecode(t, nestedGroups(4))
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := v.Validate(good); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := v.Validate(bad); err == nil {
				errs <- errors.New("depth not enforced")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestUnionResolve(t *testing.T) {
	k, iss := shape.Resolve(map[string]any{"rect": map[string]any{}, "label": "x"})
	if iss != nil || k.Name != "rect" {
		t.Fatalf("resolve = %v, %v", k, iss)
	}
	_, iss = shape.Resolve(map[string]any{"rect": map[string]any{}, "circle": map[string]any{}})
	if !iss.Has(g.CodeConflictingKinds) {
		t.Fatalf("conflict = %v", iss)
	}
	if diff := cmp.Diff([]string{"circle", "rect"}, iss[0].Params["kinds"]); diff != "" {
		t.Fatalf("kinds (-want +got):\n%s", diff)
	}
	_, iss = shape.Resolve(map[string]any{"label": "x"})
	if !iss.Has(g.CodeMissingDiscriminator) {
		t.Fatalf("missing = %v", iss)
	}
}
