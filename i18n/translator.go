// Package i18n renders Issue messages. Templates refer to issue params as
// {name}; unknown placeholders are left as written.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data carries the issue params rendered as strings (for example "max" or
// "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"missing_discriminator":     "none of the node kinds of {union} is present",
		"conflicting_kinds":         "more than one node kind present: {kinds}",
		"missing_required_field":    "required field {field} is missing",
		"unknown_field":             "field {field} is not allowed in {kind}",
		"type_mismatch":             "expected {expected}, got {got}",
		"out_of_bounds":             "value out of bounds",
		"fan_out_exceeded":          "{count} entries exceed the limit of {max}",
		"depth_exceeded":            "nesting depth {depth} of {union} exceeds the limit of {max}",
		"mutually_exclusive_fields": "fields are mutually exclusive: {fields}",
		"missing_one_of":            "one of {fields} is required",
		"invalid_enum":              "{value} is not one of {allowed}",
		"invalid_format":            "invalid {format}: {reason}",
		"discriminator_unknown":     "unknown {union} type {value}",
		"duplicate_key":             "duplicate key",
		"parse_error":               "parse error",
		"truncated":                 "input truncated",
	},
	"ja": {
		"missing_discriminator":     "{union} のノード種別がありません",
		"conflicting_kinds":         "複数のノード種別が指定されています: {kinds}",
		"missing_required_field":    "必須フィールド {field} がありません",
		"unknown_field":             "{kind} ではフィールド {field} は使用できません",
		"type_mismatch":             "型が不正です ({expected} を期待、実際は {got})",
		"out_of_bounds":             "値が範囲外です",
		"fan_out_exceeded":          "要素数 {count} が上限 {max} を超えています",
		"depth_exceeded":            "{union} の深さ {depth} が上限 {max} を超えています",
		"mutually_exclusive_fields": "同時に指定できないフィールドです: {fields}",
		"missing_one_of":            "{fields} のいずれかが必要です",
		"invalid_enum":              "{value} は {allowed} のいずれでもありません",
		"invalid_format":            "{format} の形式が不正です: {reason}",
		"discriminator_unknown":     "未知の {union} 種別 {value} です",
		"duplicate_key":             "キーが重複しています",
		"parse_error":               "解析エラー",
		"truncated":                 "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if code == "out_of_bounds" {
		tmpl = boundsTemplate(t.lang, data)
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// boundsTemplate picks the out_of_bounds wording from the params present.
func boundsTemplate(lang string, data map[string]string) string {
	_, hasCount := data["count"]
	_, hasMin := data["min"]
	_, hasMax := data["max"]
	subject := "{value}"
	if hasCount {
		subject = "count {count}"
	}
	if lang == "ja" {
		subject = "値 {value}"
		if hasCount {
			subject = "要素数 {count}"
		}
		switch {
		case hasMin && hasMax:
			return subject + " が範囲 {min}..{max} の外です"
		case hasMax:
			return subject + " が上限 {max} を超えています"
		case hasMin:
			return subject + " が下限 {min} 未満です"
		}
		return "値が範囲外です"
	}
	switch {
	case hasMin && hasMax:
		return subject + " is outside {min}..{max}"
	case hasMax:
		return subject + " exceeds the maximum of {max}"
	case hasMin:
		return subject + " is below the minimum of {min}"
	}
	return "value out of bounds"
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
