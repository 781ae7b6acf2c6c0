package grocy

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// numericParams are argument names that Grocy expects as numbers.
var numericParams = []string{
	"amount", "price", "productId", "recipeId", "choreId", "taskId",
	"batteryId", "locationId", "locationIdFrom", "locationIdTo",
	"servings", "executedBy", "storeId", "shoppingListId", "stockEntryId",
}

// ValidateNumeric checks that value can be sent as a number. nil and blank
// strings are valid and returned as nil and "" so defaults still apply.
func ValidateNumeric(value any, field string) (any, error) {
	if field == "" {
		field = "Value"
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", nil
		}
		f, err := cast.ToFloat64E(trimmed)
		if err != nil || !isFinite(f) {
			return trimmed, fmt.Errorf("%s must be a valid number, received: \"%s\"", field, trimmed)
		}
		return f, nil
	case bool, map[string]any, []any:
		return value, fmt.Errorf("%s must be a number, received type: %s", field, jsType(value))
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		return value, fmt.Errorf("%s must be a number, received type: %s", field, jsType(value))
	}
	return f, nil
}

// ValidateObject validates the listed fields of obj with ValidateNumeric and
// returns a copy holding the validated values.
func ValidateObject(obj any, fields []string) (map[string]any, []string) {
	m, ok := obj.(map[string]any)
	if !ok || m == nil {
		return nil, []string{"Invalid input: expected an object"}
	}

	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}

	var errs []string
	for _, field := range fields {
		v, present := m[field]
		if !present {
			continue
		}
		validated, err := ValidateNumeric(v, field)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		out[field] = validated
	}
	return out, errs
}

// jsType names a decoded JSON value the way the tool schemas do.
func jsType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int64, int32, json.Number:
		return "number"
	default:
		return "object"
	}
}
