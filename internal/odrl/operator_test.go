package odrl

import "testing"

func TestOperator_Inverse(t *testing.T) {
	tests := []struct {
		op       Operator
		want     Operator
		wantNone bool
	}{
		{op: OpEq, want: OpNeq},
		{op: OpNeq, want: OpEq},
		{op: OpGt, want: OpLteq},
		{op: OpLt, want: OpGteq},
		{op: OpGteq, want: OpLt},
		{op: OpLteq, want: OpGt},
		{op: OpIsPartOf, want: OpIsNotPart},
		{op: OpIsNotPart, want: OpIsPartOf},
		{op: OpIsAnyOf, want: OpIsNoneOf},

		// The set operators form a cycle, not a pair: isAllOf maps to
		// isNoneOf, but isNoneOf maps back to isAnyOf. This test pins
		// the table so nobody "fixes" it without noticing.
		{op: OpIsAllOf, want: OpIsNoneOf},
		{op: OpIsNoneOf, want: OpIsAnyOf},

		{op: OpIsA, wantNone: true},
		{op: OpHasPart, wantNone: true},
		{op: Operator("bogus"), wantNone: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			got, ok := tt.op.Inverse()
			if tt.wantNone {
				if ok {
					t.Errorf("Inverse() = %v, want no inverse", got)
				}
				return
			}
			if !ok {
				t.Fatalf("Inverse() missing for %s", tt.op)
			}
			if got != tt.want {
				t.Errorf("Inverse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOperator_Symbol(t *testing.T) {
	tests := []struct {
		op   Operator
		want string
	}{
		{OpEq, "=="},
		{OpNeq, "!="},
		{OpLt, "<"},
		{OpGt, ">"},
		{OpLteq, "<="},
		{OpGteq, ">="},
		{OpIsAnyOf, "in"},
		{OpHasPart, "in"},
		{OpIsPartOf, "in"},
		{OpIsA, "=="},
		// unrecognized operators degrade to equality
		{Operator("frobnicate"), "=="},
	}

	for _, tt := range tests {
		if got := tt.op.Symbol(); got != tt.want {
			t.Errorf("Symbol(%s) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestOperator_IsValid(t *testing.T) {
	if !OpIsNoneOf.IsValid() {
		t.Error("IsValid(isNoneOf) = false, want true")
	}
	if Operator("nope").IsValid() {
		t.Error("IsValid(nope) = true, want false")
	}
}
