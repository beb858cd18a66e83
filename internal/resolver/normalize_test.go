package resolver

import (
	"encoding/json"
	"testing"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil becomes empty string", value: nil, want: ""},
		{name: "scalar lower-cased and trimmed", value: "  Marketing ", want: "marketing"},
		{name: "number", value: json.Number("42"), want: "42"},
		{name: "boolean", value: true, want: "true"},
		{name: "list sorted and normalized", value: []any{"B", " a"}, want: "[a, b]"},
		{name: "typed string slice", value: []string{"z", "y"}, want: "[y, z]"},
		{name: "empty list", value: []any{}, want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeValue(tt.value); got != tt.want {
				t.Errorf("NormalizeValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue_OrderIndependent(t *testing.T) {
	a := NormalizeValue([]any{"B", "a"})
	b := NormalizeValue([]any{"a", "b"})
	if a != b {
		t.Errorf("normalized forms differ: %q vs %q", a, b)
	}
}

func TestNormalizeValue_ScalarAndListDistinct(t *testing.T) {
	if NormalizeValue("a") == NormalizeValue([]any{"a"}) {
		t.Error("scalar and single-element list must not normalize identically")
	}
}
