package audit

import (
	"time"

	"github.com/rs/xid"

	"github.com/mweigel/odrlint/internal/resolver"
)

// Entry records one resolved (or, in dry-run mode, reported) duplication.
type Entry struct {
	// ID is a unique entry identifier.
	ID string `json:"id"`

	// Time is the timestamp of the event.
	Time time.Time `json:"time"`

	// File is the document the policy came from, if any.
	File string `json:"file,omitempty"`

	// PolicyUID identifies the affected policy.
	PolicyUID string `json:"policy_uid,omitempty"`

	// Kind is the duplication classification.
	Kind string `json:"kind"`

	// LeftOperand is the constraint field both sides referenced.
	LeftOperand string `json:"left_operand"`

	// PermOperator and ProhibOperator are the operators on each side.
	PermOperator   string `json:"perm_operator"`
	ProhibOperator string `json:"prohib_operator"`

	// DryRun marks entries that describe a removal that did not happen.
	DryRun bool `json:"dry_run,omitempty"`
}

// NewEntry builds an audit entry for a single duplication record.
func NewEntry(file, policyUID string, dup resolver.Duplication, dryRun bool) Entry {
	return Entry{
		ID:             xid.New().String(),
		Time:           time.Now().UTC(),
		File:           file,
		PolicyUID:      policyUID,
		Kind:           string(dup.Kind),
		LeftOperand:    dup.PermConstraint.LeftOperand,
		PermOperator:   string(dup.PermConstraint.Operator),
		ProhibOperator: string(dup.ProhibConstraint.Operator),
		DryRun:         dryRun,
	}
}

// Auditor persists audit entries.
type Auditor interface {
	Log(entry Entry) error
	Close() error
}
