package inference

import "github.com/mweigel/odrlint/internal/odrl"

// DataType is the inferred semantic type of a constraint right operand.
type DataType string

const (
	TypeString       DataType = "string"
	TypeNumberInt    DataType = "number_int"
	TypeNumberFloat  DataType = "number_float"
	TypeBoolean      DataType = "boolean"
	TypeDateTime     DataType = "datetime"
	TypeDate         DataType = "date"
	TypeTime         DataType = "time"
	TypeDuration     DataType = "duration"
	TypeURI          DataType = "uri"
	TypeEmail        DataType = "email"
	TypeSetString    DataType = "set_string"
	TypeSetNumber    DataType = "set_number"
	TypeArray        DataType = "array"
	TypeHierarchical DataType = "hierarchical"
	TypePattern      DataType = "pattern"
	TypeUnknown      DataType = "unknown"
)

// RegoType maps the semantic type to the Rego primitive it is rendered as.
// All temporal types become nanosecond timestamps.
func (t DataType) RegoType() string {
	switch t {
	case TypeString, TypeURI, TypeEmail, TypeHierarchical, TypePattern:
		return "string"
	case TypeNumberInt, TypeNumberFloat:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeDateTime, TypeDate, TypeTime, TypeDuration:
		return "number (nanoseconds)"
	case TypeSetString:
		return "set[string]"
	case TypeSetNumber:
		return "set[number]"
	case TypeArray:
		return "array"
	default:
		return "any"
	}
}

// RecommendedFunctions lists the Rego functions and operators a code
// generator should reach for with this type.
func (t DataType) RecommendedFunctions() []string {
	switch t {
	case TypeString:
		return []string{"==", "!=", "contains", "startswith", "endswith"}
	case TypeNumberInt, TypeNumberFloat:
		return []string{"==", "!=", "<", ">", "<=", ">="}
	case TypeBoolean:
		return []string{"==", "!="}
	case TypeDateTime, TypeDate:
		return []string{"time.parse_rfc3339_ns", "time.now_ns", "<", ">", "<=", ">="}
	case TypeTime:
		return []string{"time.parse_rfc3339_ns", "<", ">"}
	case TypeDuration:
		return []string{"time.parse_duration_ns", "+", "-"}
	case TypeURI:
		return []string{"==", "!=", "startswith"}
	case TypeEmail:
		return []string{"==", "!=", "regex.match", "endswith"}
	case TypeSetString, TypeSetNumber:
		return []string{"in", "==", "!="}
	case TypeArray:
		return []string{"in", "count"}
	case TypeHierarchical:
		return []string{"startswith", "==", "contains"}
	case TypePattern:
		return []string{"regex.match", "regex.find_n"}
	default:
		return []string{"=="}
	}
}

// ComparisonOperators lists the ODRL operators that are meaningful for
// this type.
func (t DataType) ComparisonOperators() []odrl.Operator {
	switch t {
	case TypeString, TypeBoolean, TypeEmail, TypePattern, TypeUnknown:
		return []odrl.Operator{odrl.OpEq, odrl.OpNeq}
	case TypeNumberInt, TypeNumberFloat, TypeDateTime, TypeDate, TypeTime, TypeDuration:
		return []odrl.Operator{odrl.OpEq, odrl.OpNeq, odrl.OpLt, odrl.OpGt, odrl.OpLteq, odrl.OpGteq}
	case TypeURI:
		return []odrl.Operator{odrl.OpEq, odrl.OpNeq, odrl.OpIsA, odrl.OpHasPart}
	case TypeSetString, TypeSetNumber:
		return []odrl.Operator{odrl.OpIsAnyOf, odrl.OpIsAllOf, odrl.OpIsNoneOf}
	case TypeArray:
		return []odrl.Operator{odrl.OpIsAnyOf, odrl.OpIsPartOf, odrl.OpHasPart}
	case TypeHierarchical:
		return []odrl.Operator{odrl.OpEq, odrl.OpIsA, odrl.OpIsPartOf}
	default:
		return []odrl.Operator{odrl.OpEq, odrl.OpNeq}
	}
}

// RequiresParsing reports whether values of this type must be converted
// (parsed to nanoseconds) before they can be compared.
func (t DataType) RequiresParsing() bool {
	switch t {
	case TypeDateTime, TypeDate, TypeTime, TypeDuration:
		return true
	default:
		return false
	}
}

// Result describes how a right operand should be handled by a Rego code
// generator.
type Result struct {
	InferredType         DataType        `json:"inferred_type"`
	OriginalValue        any             `json:"original_value"`
	RegoType             string          `json:"rego_type"`
	RecommendedFunctions []string        `json:"recommended_functions"`
	ComparisonOperators  []odrl.Operator `json:"comparison_operators"`
	RequiresParsing      bool            `json:"requires_parsing"`
}

func newResult(t DataType, value any) Result {
	return Result{
		InferredType:         t,
		OriginalValue:        value,
		RegoType:             t.RegoType(),
		RecommendedFunctions: t.RecommendedFunctions(),
		ComparisonOperators:  t.ComparisonOperators(),
		RequiresParsing:      t.RequiresParsing(),
	}
}
