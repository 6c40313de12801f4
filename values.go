package esguard

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
)

// jsonTypeName names the JSON type of a decoded value.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := toNumber(v); ok {
		return "number"
	}
	return "unknown"
}

// toNumber converts the numeric representations produced by the JSON and YAML
// sources (and by hand-built Go documents) into json.Number.
func toNumber(v any) (json.Number, bool) {
	switch n := v.(type) {
	case json.Number:
		return n, true
	case int:
		return json.Number(strconv.Itoa(n)), true
	case int32:
		return json.Number(strconv.FormatInt(int64(n), 10)), true
	case int64:
		return json.Number(strconv.FormatInt(n, 10)), true
	case uint64:
		return json.Number(strconv.FormatUint(n, 10)), true
	case float32:
		return floatNumber(float64(n))
	case float64:
		return floatNumber(n)
	}
	return "", false
}

func floatNumber(f float64) (json.Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if math.Abs(f) >= 1e21 {
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), true
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), true
}

func numberRat(n json.Number) (*big.Rat, bool) {
	return new(big.Rat).SetString(string(n))
}

// compareBound compares r with a float64 bound exactly, so values beyond the
// float64 range still order correctly.
func compareBound(r *big.Rat, bound float64) int {
	b := new(big.Rat).SetFloat64(bound)
	if b == nil {
		// infinite bound
		if bound > 0 {
			return -1
		}
		return 1
	}
	return r.Cmp(b)
}

func isIntegral(n json.Number) bool {
	r, ok := numberRat(n)
	return ok && r.IsInt()
}

// normalize deep-copies a free-form value, converting numbers to json.Number.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case nil, string, bool:
		return t
	}
	if n, ok := toNumber(v); ok {
		return n
	}
	return v
}
