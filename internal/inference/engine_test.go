package inference

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEngine_InferType_Scalars(t *testing.T) {
	engine := New()

	tests := []struct {
		name  string
		value any
		want  DataType
	}{
		{name: "nil", value: nil, want: TypeUnknown},
		{name: "bool", value: true, want: TypeBoolean},
		{name: "int", value: 42, want: TypeNumberInt},
		{name: "float", value: 3.14, want: TypeNumberFloat},
		{name: "json integer", value: json.Number("7"), want: TypeNumberInt},
		{name: "json float", value: json.Number("7.5"), want: TypeNumberFloat},
		{name: "unsupported shape", value: map[string]any{"a": 1}, want: TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.InferType(tt.value, "", "")
			if got.InferredType != tt.want {
				t.Errorf("InferType(%v) = %v, want %v", tt.value, got.InferredType, tt.want)
			}
		})
	}
}

func TestEngine_InferType_StringCascade(t *testing.T) {
	engine := New()

	tests := []struct {
		name        string
		value       string
		leftOperand string
		comment     string
		want        DataType
	}{
		{name: "datetime", value: "2024-01-15T10:00:00Z", want: TypeDateTime},
		{name: "datetime with offset", value: "2024-01-15T10:00:00+02:00", want: TypeDateTime},
		{name: "datetime with fraction", value: "2024-01-15T10:00:00.123Z", want: TypeDateTime},
		{name: "date", value: "2024-01-15", want: TypeDate},
		{name: "time", value: "10:30:00", want: TypeTime},
		{name: "duration", value: "P30D", want: TypeDuration},
		{name: "duration with time part", value: "P1YT12H", want: TypeDuration},
		{name: "uri", value: "https://example.com/resource", want: TypeURI},
		{name: "email", value: "alice@example.com", want: TypeEmail},
		{name: "hierarchical path", value: "dept:engineering:backend", want: TypeHierarchical},
		{name: "hierarchical via comment", value: "engineering", comment: "Includes all subcategories of the department", want: TypeHierarchical},
		{name: "hierarchical via field name", value: "engineering", leftOperand: "Department", want: TypeHierarchical},
		{name: "pattern via comment", value: "^DOC-[0-9]+$", comment: "regex for document identifiers", want: TypePattern},
		{name: "plain string", value: "marketing", want: TypeString},
		{name: "empty string", value: "", want: TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.InferType(tt.value, tt.leftOperand, tt.comment)
			if got.InferredType != tt.want {
				t.Errorf("InferType(%q, %q, %q) = %v, want %v",
					tt.value, tt.leftOperand, tt.comment, got.InferredType, tt.want)
			}
		})
	}
}

func TestEngine_InferType_Lists(t *testing.T) {
	engine := New()

	tests := []struct {
		name      string
		value     any
		want      DataType
		wantValue any
	}{
		{
			name:      "digit strings become numbers",
			value:     []any{"1", "2", "3"},
			want:      TypeSetNumber,
			wantValue: []any{1, 2, 3},
		},
		{
			name:  "mixed strings",
			value: []any{"1", "two"},
			want:  TypeSetString,
		},
		{
			name:  "numbers",
			value: []any{json.Number("1"), json.Number("2.5")},
			want:  TypeSetNumber,
		},
		{
			name:  "empty list",
			value: []any{},
			want:  TypeArray,
		},
		{
			name:  "mixed types",
			value: []any{"a", json.Number("1"), true},
			want:  TypeArray,
		},
		{
			name:  "typed string slice",
			value: []string{"a", "b"},
			want:  TypeSetString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.InferType(tt.value, "", "")
			if got.InferredType != tt.want {
				t.Fatalf("InferType(%v) = %v, want %v", tt.value, got.InferredType, tt.want)
			}
			if tt.wantValue != nil {
				if diff := cmp.Diff(tt.wantValue, got.OriginalValue); diff != "" {
					t.Errorf("OriginalValue mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestEngine_InferType_ResultShape(t *testing.T) {
	engine := New()

	result := engine.InferType("2024-01-15T10:00:00Z", "", "")
	if result.InferredType != TypeDateTime {
		t.Fatalf("InferredType = %v", result.InferredType)
	}
	if result.RegoType != "number (nanoseconds)" {
		t.Errorf("RegoType = %q", result.RegoType)
	}
	if !result.RequiresParsing {
		t.Error("RequiresParsing = false, want true")
	}

	result = engine.InferType("marketing", "", "")
	if result.RequiresParsing {
		t.Error("RequiresParsing = true for plain string")
	}
	if result.RegoType != "string" {
		t.Errorf("RegoType = %q", result.RegoType)
	}
}

func TestEngine_InferType_Deterministic(t *testing.T) {
	engine := New()

	a := engine.InferType("dept:engineering", "department", "hierarchy of departments")
	b := engine.InferType("dept:engineering", "department", "hierarchy of departments")
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated inference differs (-first +second):\n%s", diff)
	}
}
