package grocy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertStringToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"flat", map[string]any{"amount": "5", "note": "n"}, map[string]any{"amount": 5.0, "note": "n"}},
		{"nested", map[string]any{"a": map[string]any{"b": []any{"1.5", "x", map[string]any{"c": " 7 "}}}},
			map[string]any{"a": map[string]any{"b": []any{1.5, "x", map[string]any{"c": 7.0}}}}},
		{"blank stays", map[string]any{"v": "  "}, map[string]any{"v": "  "}},
		{"nan and inf stay", []any{"NaN", "Infinity", "inf"}, []any{"NaN", "Infinity", "inf"}},
		{"scalars", "42", 42.0},
		{"negative and exponent", []any{"-3", "1e3"}, []any{-3.0, 1000.0}},
		{"nil", nil, nil},
		{"bool untouched", true, true},
		{"json number untouched", json.Number("12"), json.Number("12")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertStringToNumber(tt.in))
		})
	}
}

func TestConvertStringToNumber_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"amount": "5"}
	ConvertStringToNumber(in)
	assert.Equal(t, "5", in["amount"])
}

func TestEnsureNumericParams(t *testing.T) {
	in := map[string]any{
		"productId": "12",
		"amount":    "2.5",
		"note":      "7",
		"price":     "cheap",
		"servings":  3.0,
		"storeId":   nil,
	}
	got := EnsureNumericParams(in)

	assert.Equal(t, 12.0, got["productId"])
	assert.Equal(t, 2.5, got["amount"])
	assert.Equal(t, "7", got["note"], "only known numeric keys are converted")
	assert.Equal(t, "cheap", got["price"])
	assert.Equal(t, 3.0, got["servings"])
	assert.Nil(t, got["storeId"])
	assert.Equal(t, "12", in["productId"], "input must not be mutated")

	assert.Nil(t, EnsureNumericParams(nil))
}
