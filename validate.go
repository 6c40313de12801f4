package esguard

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// FormatFunc checks a string value; a non-nil error becomes invalid_format.
type FormatFunc func(string) error

// Validator walks documents against a root Type. It holds no per-call state
// and may be shared between goroutines.
type Validator struct {
	root     *Type
	caps     CapPolicy
	failFast bool
	formats  map[string]FormatFunc
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithFailFast stops the walk at the first issue.
func WithFailFast() ValidatorOption { return func(v *Validator) { v.failFast = true } }

// WithFormat registers a named string format.
func WithFormat(name string, fn FormatFunc) ValidatorOption {
	return func(v *Validator) { v.formats[name] = fn }
}

// NewValidator checks the grammar reachable from root (every union point
// defined, every format registered) and returns a Validator. root must be an
// ObjectOf or Ref type.
func NewValidator(root *Type, caps CapPolicy, opts ...ValidatorOption) (*Validator, error) {
	if root == nil {
		return nil, fmt.Errorf("esguard: nil root type")
	}
	if root.kind != KindUnion && (root.kind != KindObject || root.object == nil) {
		return nil, fmt.Errorf("esguard: root must be a node type, got %s", root.kind)
	}
	if err := caps.Validate(); err != nil {
		return nil, err
	}
	v := &Validator{root: root, caps: caps, formats: map[string]FormatFunc{"time_value": checkTimeValue}}
	for _, o := range opts {
		o(v)
	}
	if err := v.check(root, map[any]bool{}); err != nil {
		return nil, err
	}
	return v, nil
}

// Caps returns the cap policy in force.
func (v *Validator) Caps() CapPolicy { return v.caps }

// Root returns the root type.
func (v *Validator) Root() *Type { return v.root }

// Validate walks doc and returns the validated tree, or Issues.
func (v *Validator) Validate(doc any) (*Node, error) {
	w := &walker{v: v, depth: map[*UnionPoint]int{}}
	out, _ := w.value(v.root, doc, Path{})
	if len(w.issues) > 0 {
		return nil, w.issues
	}
	n, _ := out.(*Node)
	return n, nil
}

func (v *Validator) check(t *Type, seen map[any]bool) error {
	switch t.kind {
	case KindString:
		if t.format != "" && v.formats[t.format] == nil {
			return fmt.Errorf("esguard: format %q is not registered", t.format)
		}
	case KindList, KindMapping:
		return v.check(t.elem, seen)
	case KindObject:
		if t.object != nil {
			return v.checkKind(t.object, seen)
		}
	case KindEither:
		for _, a := range t.alts {
			if err := v.check(a, seen); err != nil {
				return err
			}
		}
	case KindUnion:
		u := t.union
		if seen[u] {
			return nil
		}
		seen[u] = true
		if !u.defined {
			return fmt.Errorf("%w: %s", ErrUndefinedUnion, u.name)
		}
		for _, name := range u.reg.Names() {
			k, _ := u.reg.Lookup(name)
			if err := v.checkKind(k, seen); err != nil {
				return err
			}
		}
		if u.companions != nil {
			return v.checkKind(u.companions, seen)
		}
	}
	return nil
}

func (v *Validator) checkKind(k *NodeKind, seen map[any]bool) error {
	if seen[k] {
		return nil
	}
	seen[k] = true
	if k.byKey == nil {
		return fmt.Errorf("esguard: kind %s was not built", k.Name)
	}
	var types []*Type
	for _, fs := range k.Fields {
		types = append(types, fs.Type)
	}
	types = append(types, k.ExtraType, k.Keyed, k.Value)
	for _, t := range types {
		if t == nil {
			continue
		}
		if err := v.check(t, seen); err != nil {
			return fmt.Errorf("kind %s: %w", k.Name, err)
		}
	}
	return nil
}

// walker carries the per-call state of one Validate.
type walker struct {
	v      *Validator
	depth  map[*UnionPoint]int
	issues Issues
}

func (w *walker) report(it Issue) { w.issues = append(w.issues, it) }

func (w *walker) halted() bool { return w.v.failFast && len(w.issues) > 0 }

func (w *walker) mismatch(expected string, raw any, p Path) (any, bool) {
	w.report(IssueAt(p, CodeTypeMismatch, map[string]any{"expected": expected, "got": jsonTypeName(raw)}))
	return nil, false
}

// value validates raw against t. ok is false when the subtree produced issues.
func (w *walker) value(t *Type, raw any, p Path) (any, bool) {
	if w.halted() {
		return nil, false
	}
	switch t.kind {
	case KindAny:
		return normalize(raw), true
	case KindEither:
		return w.either(t, raw, p)
	}
	if raw == nil {
		return w.mismatch(t.describe(), raw, p)
	}
	switch t.kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return w.mismatch("string", raw, p)
		}
		if t.format != "" {
			if err := w.v.formats[t.format](s); err != nil {
				w.report(IssueAt(p, CodeInvalidFormat, map[string]any{"format": t.format, "value": s, "reason": err.Error()}))
				return s, false
			}
		}
		return s, true
	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return w.mismatch("string", raw, p)
		}
		if t.upper {
			s = strings.ToUpper(s)
		}
		if !slices.Contains(t.enum, s) {
			w.report(IssueAt(p, CodeInvalidEnum, map[string]any{"value": s, "allowed": t.enum}))
			return s, false
		}
		return s, true
	case KindNumber, KindInteger:
		n, ok := toNumber(raw)
		if !ok {
			return w.mismatch(t.describe(), raw, p)
		}
		if t.kind == KindInteger && !isIntegral(n) {
			return w.mismatch("integer", raw, p)
		}
		return n, w.bounds(t, n, p)
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return w.mismatch("boolean", raw, p)
		}
		return b, true
	case KindObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return w.mismatch("object", raw, p)
		}
		if t.object == nil {
			return normalize(m), true
		}
		fields, fok := w.fields(t.object, m, p, "")
		return &Node{Kind: t.object.Name, Fields: fields}, fok
	case KindList:
		arr, ok := raw.([]any)
		if !ok {
			return w.mismatch("array", raw, p)
		}
		return w.list(t, arr, p)
	case KindMapping:
		m, ok := raw.(map[string]any)
		if !ok {
			return w.mismatch("object", raw, p)
		}
		return w.mapping(t, m, p)
	case KindUnion:
		m, ok := raw.(map[string]any)
		if !ok {
			return w.mismatch("object", raw, p)
		}
		return w.union(t.union, m, p)
	}
	return w.mismatch(t.describe(), raw, p)
}

func (w *walker) bounds(t *Type, n json.Number, p Path) bool {
	r, ok := numberRat(n)
	if !ok {
		w.mismatch(t.describe(), n, p)
		return false
	}
	lo, hi := t.min, t.max
	if t.capMax {
		c := float64(w.v.caps.MaxCollectionSize)
		if hi == nil || c < *hi {
			hi = &c
		}
	}
	below := false
	if lo != nil {
		c := compareBound(r, *lo)
		below = c < 0 || (t.exclusiveMin && c == 0)
	}
	above := hi != nil && compareBound(r, *hi) > 0
	if !below && !above {
		return true
	}
	params := map[string]any{"value": n}
	if lo != nil {
		params["min"] = *lo
		if t.exclusiveMin {
			params["exclusive_min"] = true
		}
	}
	if hi != nil {
		params["max"] = *hi
	}
	w.report(IssueAt(p, CodeOutOfBounds, params))
	return false
}

func (w *walker) list(t *Type, arr []any, p Path) (any, bool) {
	n := len(arr)
	hi := t.maxItems
	if t.capItems && (hi < 0 || w.v.caps.MaxCollectionSize < hi) {
		hi = w.v.caps.MaxCollectionSize
	}
	if hi >= 0 && n > hi {
		// over-long collections are not descended into
		w.report(IssueAt(p, CodeOutOfBounds, map[string]any{"count": n, "max": hi}))
		return nil, false
	}
	ok := true
	if t.minItems >= 0 && n < t.minItems {
		w.report(IssueAt(p, CodeOutOfBounds, map[string]any{"count": n, "min": t.minItems}))
		ok = false
	}
	out := make([]any, 0, n)
	for i, e := range arr {
		v, eok := w.value(t.elem, e, p.Index(i))
		ok = ok && eok
		out = append(out, v)
		if w.halted() {
			break
		}
	}
	return out, ok
}

func (w *walker) mapping(t *Type, m map[string]any, p Path) (any, bool) {
	if t.fanOut && len(m) > w.v.caps.MaxFanout {
		w.report(IssueAt(p, CodeFanOutExceeded, map[string]any{"count": len(m), "max": w.v.caps.MaxFanout}))
		return nil, false
	}
	if t.maxItems >= 0 && len(m) > t.maxItems {
		w.report(IssueAt(p, CodeOutOfBounds, map[string]any{"count": len(m), "max": t.maxItems}))
		return nil, false
	}
	ok := true
	if t.minItems >= 0 && len(m) < t.minItems {
		w.report(IssueAt(p, CodeOutOfBounds, map[string]any{"count": len(m), "min": t.minItems}))
		ok = false
	}
	out := &Mapping{Entries: make([]Entry, 0, len(m))}
	for _, key := range sortedKeys(m) {
		v, eok := w.value(t.elem, m[key], p.Field(key))
		ok = ok && eok
		out.Entries = append(out.Entries, Entry{Key: key, Value: v})
		if w.halted() {
			break
		}
	}
	return out, ok
}

func (w *walker) union(u *UnionPoint, m map[string]any, p Path) (any, bool) {
	r := u.resolve(m, p)
	if len(r.issues) > 0 {
		w.issues = append(w.issues, r.issues...)
		return nil, false
	}
	d := w.depth[u] + 1
	if limit := w.v.caps.DepthFor(u.name); d > limit {
		w.report(IssueAt(p, CodeDepthExceeded, map[string]any{"union": u.name, "depth": d, "max": limit}))
		return nil, false
	}
	w.depth[u] = d
	defer func() { w.depth[u] = d - 1 }()

	n := &Node{Union: u.name, Kind: r.kind.Name}
	if u.style == ByValue {
		n.Discriminator = u.discriminator
		n.Companions = []Field{{Name: u.discriminator, WireName: u.discriminator, Value: r.tag, Presence: r.presence}}
		fields, ok := w.fields(r.kind, m, p, u.discriminator)
		n.Fields = fields
		return n, ok
	}

	ok := true
	bp := p.Field(r.kind.Name)
	body := m[r.kind.Name]
	if r.kind.Value != nil {
		n.Body, ok = w.value(r.kind.Value, body, bp)
	} else if bm, isMap := body.(map[string]any); isMap {
		n.Fields, ok = w.fields(r.kind, bm, bp, "")
	} else {
		_, ok = w.mismatch("object", body, bp)
	}

	rest := make(map[string]any, len(m)-1)
	for key, val := range m {
		if key != r.kind.Name {
			rest[key] = val
		}
	}
	if u.companions == nil {
		for _, key := range sortedKeys(rest) {
			w.report(IssueAt(p.Field(key), CodeUnknownField, map[string]any{"field": key, "kind": r.kind.Name}))
			ok = false
		}
		return n, ok
	}
	comps, cok := w.fields(u.companions, rest, p, "")
	n.Companions = comps
	return n, ok && cok
}

// fields validates the declared fields, extra keys and field groups of k
// against m. skip names a key owned by the enclosing union.
func (w *walker) fields(k *NodeKind, m map[string]any, p Path, skip string) ([]Field, bool) {
	ok := true
	out := make([]Field, 0, len(k.Fields))
	for _, fs := range k.Fields {
		if w.halted() {
			return out, false
		}
		key := fs.WireName
		raw, present := m[fs.WireName]
		if fs.Name != fs.WireName {
			if iv, hasName := m[fs.Name]; hasName {
				if present {
					w.report(IssueAt(p, CodeMutuallyExclusive, map[string]any{"fields": []string{fs.WireName, fs.Name}}))
					ok = false
					continue
				}
				key, raw, present = fs.Name, iv, true
			}
		}
		var wasNull Presence
		if present && raw == nil && !fs.Required && fs.Type.kind != KindAny {
			present, wasNull = false, PresenceWasNull
		}
		if !present {
			if fs.Required {
				w.report(IssueAt(p.Field(fs.WireName), CodeMissingRequiredField, map[string]any{"field": fs.WireName, "kind": k.Name}))
				ok = false
			} else if fs.Default != nil {
				out = append(out, Field{Name: fs.Name, WireName: fs.WireName, Value: normalize(fs.Default), Presence: PresenceDefaultApplied | wasNull})
			}
			continue
		}
		v, vok := w.value(fs.Type, raw, p.Field(key))
		ok = ok && vok
		out = append(out, Field{Name: fs.Name, WireName: fs.WireName, Value: v, Presence: PresenceSeen})
	}

	var extras []string
	for key := range m {
		if key != skip && !k.declares(key) {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	if k.Keyed != nil {
		switch len(extras) {
		case 0:
			w.report(IssueAt(p, CodeMissingRequiredField, map[string]any{"field": "<field>", "kind": k.Name}))
			ok = false
		case 1:
			v, vok := w.value(k.Keyed, m[extras[0]], p.Field(extras[0]))
			ok = ok && vok
			out = append(out, Field{Name: extras[0], WireName: extras[0], Value: v, Presence: PresenceSeen, Extra: true})
		default:
			w.report(IssueAt(p, CodeMutuallyExclusive, map[string]any{"fields": extras}))
			ok = false
		}
	} else {
		for _, key := range extras {
			if w.halted() {
				return out, false
			}
			switch k.Extra {
			case ExtraForbid:
				w.report(IssueAt(p.Field(key), CodeUnknownField, map[string]any{"field": key, "kind": k.Name}))
				ok = false
			case ExtraAllow:
				out = append(out, Field{Name: key, WireName: key, Value: normalize(m[key]), Presence: PresenceSeen, Extra: true})
			case ExtraAllowTyped:
				v, vok := w.value(k.ExtraType, m[key], p.Field(key))
				ok = ok && vok
				out = append(out, Field{Name: key, WireName: key, Value: v, Presence: PresenceSeen, Extra: true})
			}
		}
	}

	for _, g := range k.Groups {
		if !w.halted() && !w.group(k, g, out, p) {
			ok = false
		}
	}
	return out, ok
}

func (w *walker) group(k *NodeKind, g FieldGroup, got []Field, p Path) bool {
	var present, wires []string
	for _, name := range g.Fields {
		fs, _ := k.Field(name)
		wires = append(wires, fs.WireName)
		for _, f := range got {
			if !f.Extra && f.Name == fs.Name && f.Presence&PresenceSeen != 0 {
				present = append(present, fs.WireName)
			}
		}
	}
	switch {
	case len(present) > 1 && g.Mode != GroupAtLeastOne:
		w.report(IssueAt(p, CodeMutuallyExclusive, map[string]any{"fields": present}))
	case len(present) == 0 && g.Mode != GroupAtMostOne:
		w.report(IssueAt(p, CodeMissingOneOf, map[string]any{"fields": wires}))
	default:
		return true
	}
	return false
}

// either tries each alternative whose JSON shape matches raw; the first clean
// one wins. Otherwise the issues of the first shape-compatible alternative
// are reported.
func (w *walker) either(t *Type, raw any, p Path) (any, bool) {
	var first Issues
	tried := false
	for _, alt := range t.alts {
		if !alt.accepts(raw) {
			continue
		}
		mark := len(w.issues)
		v, ok := w.value(alt, raw, p)
		if ok && len(w.issues) == mark {
			return v, true
		}
		if !tried {
			first = append(Issues(nil), w.issues[mark:]...)
			tried = true
		}
		w.issues = w.issues[:mark]
	}
	if tried {
		w.issues = append(w.issues, first...)
		return nil, false
	}
	return w.mismatch(t.describe(), raw, p)
}

var timeValuePattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?(nanos|micros|ms|s|m|h|d)$`)

// checkTimeValue accepts durations such as "30s", "1.5h" and the sentinels
// "-1" and "0".
func checkTimeValue(s string) error {
	if s == "-1" || s == "0" || timeValuePattern.MatchString(s) {
		return nil
	}
	return fmt.Errorf("%q is not a time value", s)
}
