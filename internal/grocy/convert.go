package grocy

import (
	"math"
	"strconv"
	"strings"
)

// ConvertStringToNumber walks decoded JSON and replaces every string that
// parses as a finite number with a float64. Other values are copied as-is.
func ConvertStringToNumber(data any) any {
	switch v := data.(type) {
	case string:
		if f, ok := parseNumber(v); ok {
			return f
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ConvertStringToNumber(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = ConvertStringToNumber(item)
		}
		return out
	default:
		return data
	}
}

// EnsureNumericParams returns a copy of params with numeric-looking strings in
// the known ID and quantity fields converted to numbers.
func EnsureNumericParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, name := range numericParams {
		s, ok := out[name].(string)
		if !ok {
			continue
		}
		if f, ok := parseNumber(s); ok {
			out[name] = f
		}
	}
	return out
}

func parseNumber(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
