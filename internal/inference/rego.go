package inference

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mweigel/odrlint/internal/odrl"
)

// Expression is a generated Rego boolean expression plus a human-readable
// explanation of what it enforces.
type Expression struct {
	Rego        string `json:"rego_expression"`
	Explanation string `json:"explanation"`
	Kind        string `json:"type"`
}

// GenerateRegoExpression renders a constraint as a Rego expression,
// branching on the previously inferred semantic type. Unknown operators
// degrade to equality instead of failing.
func (e *Engine) GenerateRegoExpression(leftOperand string, op odrl.Operator, value any, res Result) Expression {
	inputRef := "input." + leftOperand

	switch res.InferredType {
	case TypeDateTime:
		return datetimeExpression(inputRef, op, valueString(value))
	case TypeDate:
		return dateExpression(inputRef, op, valueString(value))
	case TypeDuration:
		return durationExpression(inputRef, op, valueString(value))
	case TypeNumberInt, TypeNumberFloat:
		return numericExpression(inputRef, op, value)
	case TypeBoolean:
		return booleanExpression(inputRef, op, value)
	case TypeSetString, TypeSetNumber:
		return setExpression(inputRef, op, value)
	case TypeHierarchical:
		return hierarchicalExpression(inputRef, op, valueString(value))
	case TypePattern:
		return patternExpression(inputRef, valueString(value))
	case TypeEmail:
		return emailExpression(inputRef, op, valueString(value))
	case TypeURI:
		return uriExpression(inputRef, op, valueString(value))
	default:
		return stringExpression(inputRef, op, valueString(value))
	}
}

// comparisonSymbol is the restricted symbol map used for temporal
// expressions: only ordering and equality make sense there.
func comparisonSymbol(op odrl.Operator) string {
	switch op {
	case odrl.OpEq:
		return "=="
	case odrl.OpNeq:
		return "!="
	case odrl.OpLt:
		return "<"
	case odrl.OpGt:
		return ">"
	case odrl.OpLteq:
		return "<="
	case odrl.OpGteq:
		return ">="
	default:
		return "=="
	}
}

func datetimeExpression(inputRef string, op odrl.Operator, value string) Expression {
	symbol := comparisonSymbol(op)
	parsed := fmt.Sprintf("time.parse_rfc3339_ns(%q)", value)

	// lt/lteq bound the future: the current time goes on the left.
	// Everything else requires the literal to have passed already.
	if op == odrl.OpLt || op == odrl.OpLteq {
		return Expression{
			Rego:        fmt.Sprintf("time.now_ns() %s %s", symbol, parsed),
			Explanation: fmt.Sprintf("Current time must be %s %s", op, value),
			Kind:        "temporal_datetime",
		}
	}
	return Expression{
		Rego:        fmt.Sprintf("%s %s time.now_ns()", parsed, symbol),
		Explanation: fmt.Sprintf("Time %s must be %s current time", value, op),
		Kind:        "temporal_datetime",
	}
}

func dateExpression(inputRef string, op odrl.Operator, value string) Expression {
	symbol := comparisonSymbol(op)

	// widen the plain date to midnight UTC so it parses as RFC 3339
	parsed := fmt.Sprintf("time.parse_rfc3339_ns(%q)", value+"T00:00:00Z")

	return Expression{
		Rego:        fmt.Sprintf("time.now_ns() %s %s", symbol, parsed),
		Explanation: fmt.Sprintf("Date comparison: %s %s", op, value),
		Kind:        "temporal_date",
	}
}

func durationExpression(inputRef string, op odrl.Operator, value string) Expression {
	parsed := fmt.Sprintf("time.parse_duration_ns(%q)", value)
	return Expression{
		Rego:        fmt.Sprintf("time.now_ns() - %s %s %s", inputRef, op.Symbol(), parsed),
		Explanation: fmt.Sprintf("Duration constraint: %s %s", op, value),
		Kind:        "duration",
	}
}

func numericExpression(inputRef string, op odrl.Operator, value any) Expression {
	return Expression{
		Rego:        fmt.Sprintf("%s %s %s", inputRef, op.Symbol(), valueString(value)),
		Explanation: fmt.Sprintf("Numeric comparison: %s %v", op, value),
		Kind:        "numeric",
	}
}

func booleanExpression(inputRef string, op odrl.Operator, value any) Expression {
	literal := "false"
	if b, ok := value.(bool); ok && b {
		literal = "true"
	}

	symbol := "=="
	if op == odrl.OpNeq {
		symbol = "!="
	}

	return Expression{
		Rego:        fmt.Sprintf("%s %s %s", inputRef, symbol, literal),
		Explanation: fmt.Sprintf("Boolean check: %s %v", op, value),
		Kind:        "boolean",
	}
}

func setExpression(inputRef string, op odrl.Operator, value any) Expression {
	values := anySlice(value)

	parts := make([]string, len(values))
	strOnly := allStrings(values)
	for i, v := range values {
		if strOnly {
			parts[i] = fmt.Sprintf("%q", v)
		} else {
			parts[i] = valueString(v)
		}
	}
	set := "{" + strings.Join(parts, ", ") + "}"

	switch op {
	case odrl.OpIsAnyOf:
		return Expression{
			Rego:        fmt.Sprintf("%s in %s", inputRef, set),
			Explanation: fmt.Sprintf("Value must be one of: %v", values),
			Kind:        "set_membership",
		}
	case odrl.OpIsNoneOf:
		return Expression{
			Rego:        fmt.Sprintf("not %s in %s", inputRef, set),
			Explanation: fmt.Sprintf("Value must not be any of: %v", values),
			Kind:        "set_membership",
		}
	case odrl.OpIsAllOf:
		// every element of the target set must appear in the field;
		// extra elements in the field are tolerated
		return Expression{
			Rego:        fmt.Sprintf("count([v | v := %s[_]; v in %s]) == %d", inputRef, set, len(values)),
			Explanation: fmt.Sprintf("Must contain all of: %v", values),
			Kind:        "set_membership",
		}
	default:
		return Expression{
			Rego:        fmt.Sprintf("%s in %s", inputRef, set),
			Explanation: "Set membership check",
			Kind:        "set_membership",
		}
	}
}

func hierarchicalExpression(inputRef string, op odrl.Operator, value string) Expression {
	if op == odrl.OpIsA || op == odrl.OpIsPartOf {
		return Expression{
			Rego:        fmt.Sprintf("startswith(%s, %q)", inputRef, value),
			Explanation: fmt.Sprintf("Hierarchical: must be under %s", value),
			Kind:        "hierarchical",
		}
	}
	return Expression{
		Rego:        fmt.Sprintf("%s == %q", inputRef, value),
		Explanation: fmt.Sprintf("Exact hierarchical match: %s", value),
		Kind:        "hierarchical",
	}
}

func patternExpression(inputRef, pattern string) Expression {
	escaped := strings.ReplaceAll(pattern, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)

	return Expression{
		Rego:        fmt.Sprintf(`regex.match("%s", %s)`, escaped, inputRef),
		Explanation: fmt.Sprintf("Pattern match: %s", pattern),
		Kind:        "pattern",
	}
}

func emailExpression(inputRef string, op odrl.Operator, email string) Expression {
	if op == odrl.OpEq {
		return Expression{
			Rego:        fmt.Sprintf("%s == %q", inputRef, email),
			Explanation: fmt.Sprintf("Email must be: %s", email),
			Kind:        "email",
		}
	}

	// any other operator checks the domain only
	domain := email
	if at := strings.Index(email, "@"); at >= 0 {
		domain = email[at+1:]
	}
	return Expression{
		Rego:        fmt.Sprintf("endswith(%s, %q)", inputRef, "@"+domain),
		Explanation: fmt.Sprintf("Email domain check: %s", domain),
		Kind:        "email",
	}
}

func uriExpression(inputRef string, op odrl.Operator, uri string) Expression {
	if op == odrl.OpHasPart || op == odrl.OpIsPartOf {
		return Expression{
			Rego:        fmt.Sprintf("startswith(%s, %q)", inputRef, uri),
			Explanation: fmt.Sprintf("URI must start with: %s", uri),
			Kind:        "uri",
		}
	}
	return Expression{
		Rego:        fmt.Sprintf("%s == %q", inputRef, uri),
		Explanation: fmt.Sprintf("URI must be: %s", uri),
		Kind:        "uri",
	}
}

func stringExpression(inputRef string, op odrl.Operator, value string) Expression {
	return Expression{
		Rego:        fmt.Sprintf("%s %s %q", inputRef, op.Symbol(), value),
		Explanation: fmt.Sprintf("String comparison: %s %s", op, value),
		Kind:        "string",
	}
}

func valueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

func anySlice(value any) []any {
	if vs, ok := value.([]any); ok {
		return vs
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return toAnySlice(rv)
	}
	return []any{value}
}
