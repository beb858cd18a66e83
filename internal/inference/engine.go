package inference

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Engine infers the semantic type of ODRL constraint right operands.
// Construct one with New and reuse it; all state is the compiled pattern
// set, which is read-only and safe for concurrent use.
type Engine struct {
	datetimePattern     *regexp.Regexp
	datePattern         *regexp.Regexp
	timePattern         *regexp.Regexp
	durationPattern     *regexp.Regexp
	uriPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	hierarchicalPattern *regexp.Regexp
}

func New() *Engine {
	return &Engine{
		datetimePattern:     regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`),
		datePattern:         regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		timePattern:         regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`),
		durationPattern:     regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+S)?)?$`),
		uriPattern:          regexp.MustCompile(`^https?://\S+$`),
		emailPattern:        regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`),
		hierarchicalPattern: regexp.MustCompile(`^[a-zA-Z]+:[a-zA-Z0-9_-]+(:[a-zA-Z0-9_-]+)*$`),
	}
}

// hierarchicalOperands are field names that signal hierarchy membership
// regardless of the value shape.
var hierarchicalOperands = map[string]struct{}{
	"department":   {},
	"category":     {},
	"datacategory": {},
	"organization": {},
}

// InferType classifies a right operand value. The left operand name and an
// optional descriptive comment (e.g. rdfs:comment from an ontology) serve
// as context hints for the string cascade. The function is deterministic
// and has no side effects.
func (e *Engine) InferType(value any, leftOperand, comment string) Result {
	if value == nil {
		return newResult(TypeUnknown, value)
	}

	switch v := value.(type) {
	case bool:
		return newResult(TypeBoolean, v)
	case int:
		return newResult(TypeNumberInt, v)
	case int64:
		return newResult(TypeNumberInt, v)
	case float64:
		return newResult(TypeNumberFloat, v)
	case json.Number:
		if _, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return newResult(TypeNumberInt, v)
		}
		return newResult(TypeNumberFloat, v)
	case string:
		return e.inferStringType(v, leftOperand, comment)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return e.inferListType(toAnySlice(rv))
	}

	return newResult(TypeUnknown, value)
}

// inferStringType runs the string cascade: temporal shapes first, then URI
// and email, then context-driven hierarchical and pattern hints, and
// finally plain string.
func (e *Engine) inferStringType(value, leftOperand, comment string) Result {
	commentLower := strings.ToLower(comment)
	leftOperandLower := strings.ToLower(leftOperand)

	switch {
	case e.datetimePattern.MatchString(value):
		return newResult(TypeDateTime, value)
	case e.datePattern.MatchString(value):
		return newResult(TypeDate, value)
	case e.timePattern.MatchString(value):
		return newResult(TypeTime, value)
	case e.durationPattern.MatchString(value):
		return newResult(TypeDuration, value)
	case e.uriPattern.MatchString(value):
		return newResult(TypeURI, value)
	case e.emailPattern.MatchString(value):
		return newResult(TypeEmail, value)
	}

	if e.hierarchicalPattern.MatchString(value) ||
		strings.Contains(commentLower, "hierarchy") ||
		strings.Contains(commentLower, "subcategories") ||
		strings.Contains(commentLower, "parent") {
		return newResult(TypeHierarchical, value)
	}
	if _, ok := hierarchicalOperands[leftOperandLower]; ok {
		return newResult(TypeHierarchical, value)
	}

	if strings.Contains(commentLower, "pattern") ||
		strings.Contains(commentLower, "format") ||
		strings.Contains(commentLower, "regex") ||
		strings.Contains(commentLower, "match") {
		return newResult(TypePattern, value)
	}

	return newResult(TypeString, value)
}

// inferListType classifies sequence values. It looks one level deep only;
// nested lists fall through to the generic array type.
func (e *Engine) inferListType(values []any) Result {
	if len(values) == 0 {
		return newResult(TypeArray, values)
	}

	if allStrings(values) {
		if allDigits(values) {
			casted := make([]any, len(values))
			for i, v := range values {
				n, _ := strconv.Atoi(v.(string))
				casted[i] = n
			}
			return newResult(TypeSetNumber, casted)
		}
		return newResult(TypeSetString, values)
	}

	if allNumeric(values) {
		return newResult(TypeSetNumber, values)
	}

	return newResult(TypeArray, values)
}

func allStrings(values []any) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

func allDigits(values []any) bool {
	for _, v := range values {
		s := v.(string)
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func allNumeric(values []any) bool {
	for _, v := range values {
		switch v.(type) {
		case int, int64, float64, json.Number:
		default:
			return false
		}
	}
	return true
}

func toAnySlice(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
