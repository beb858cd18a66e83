package resolver

import (
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/mweigel/odrlint/internal/logging"
	"github.com/mweigel/odrlint/internal/odrl"
)

// Kind classifies a detected duplication.
type Kind string

const (
	// KindExactDuplicate means both sides carry the very same constraint.
	KindExactDuplicate Kind = "exact_duplicate"
	// KindLogicalInverse means the operators are registered inverses over
	// the same operand and value, so granting one and prohibiting the
	// other is redundant.
	KindLogicalInverse Kind = "logical_inverse"
)

// Duplication pairs one permission-side constraint with one
// prohibition-side constraint. Records only live for the duration of a
// single Clean call; they are never persisted.
type Duplication struct {
	Kind             Kind
	PermissionIdx    int
	ProhibitionIdx   int
	PermConstraint   odrl.Constraint
	ProhibConstraint odrl.Constraint
}

// Resolver detects and removes logical duplication between the permission
// and prohibition constraints of a policy. It only ever rewrites the
// prohibition side; permission rules are left untouched.
type Resolver struct {
	dryRun bool
	log    logging.Logger
}

type Option func(*Resolver)

// WithDryRun makes Clean report what would be removed without mutating the
// policy.
func WithDryRun(dryRun bool) Option {
	return func(r *Resolver) {
		r.dryRun = dryRun
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(r *Resolver) {
		r.log = logger
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		log: logging.NewZLogger(log.Logger),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DryRun reports whether the resolver runs in dry-run mode.
func (r *Resolver) DryRun() bool {
	return r.dryRun
}

// Clean removes duplicated prohibition constraints from the policy and
// drops prohibition rules left with neither constraints nor an action.
// It returns whether the policy was modified (in dry-run mode: whether it
// would have been).
func (r *Resolver) Clean(policy *odrl.Policy) bool {
	modified, _ := r.CleanReport(policy)
	return modified
}

// CleanReport is Clean plus the list of duplications it acted on, for
// callers that audit or display individual removals.
func (r *Resolver) CleanReport(policy *odrl.Policy) (bool, []Duplication) {
	// nothing to cross-check without both rule sets
	if len(policy.Permission) == 0 || len(policy.Prohibition) == 0 {
		return false, nil
	}

	duplications := r.FindDuplications(policy)
	if len(duplications) == 0 {
		return false, nil
	}

	policyID := policy.UID
	if policyID == "" {
		policyID = "(no uid)"
	}
	r.log.Info("found %d duplication(s) in %s", len(duplications), policyID)
	for _, dup := range duplications {
		r.log.Debug("  - %s: %s [perm: %s, prohib: %s]",
			dup.Kind, dup.PermConstraint.LeftOperand,
			dup.PermConstraint.Operator, dup.ProhibConstraint.Operator)
	}

	if r.dryRun {
		r.log.Info("[dry run] would remove %d constraint(s)", len(duplications))
		return true, duplications
	}

	modified := removeDuplicateConstraints(policy.Prohibition, duplications)

	kept := policy.Prohibition[:0]
	for _, rule := range policy.Prohibition {
		if !rule.Malformed() && (len(rule.Constraint) > 0 || hasAction(rule.Action)) {
			kept = append(kept, rule)
		}
	}
	policy.Prohibition = kept

	if modified {
		r.log.Info("resolved %d duplication(s) in %s", len(duplications), policyID)
	}
	return modified, duplications
}

// FindDuplications exhaustively compares every permission constraint
// against every prohibition constraint. A pair yields at most one record;
// the exact-duplicate check takes precedence over the inverse check.
// Malformed rules and constraints contribute nothing.
func (r *Resolver) FindDuplications(policy *odrl.Policy) []Duplication {
	var duplications []Duplication

	for permIdx := range policy.Permission {
		permission := &policy.Permission[permIdx]
		if permission.Malformed() {
			continue
		}

		for prohibIdx := range policy.Prohibition {
			prohibition := &policy.Prohibition[prohibIdx]
			if prohibition.Malformed() {
				continue
			}

			for _, permConstraint := range permission.Constraint {
				if permConstraint.Malformed() {
					continue
				}
				for _, prohibConstraint := range prohibition.Constraint {
					if prohibConstraint.Malformed() {
						continue
					}

					var kind Kind
					switch {
					case areIdentical(permConstraint, prohibConstraint):
						kind = KindExactDuplicate
					case areLogicalInverses(permConstraint, prohibConstraint):
						kind = KindLogicalInverse
					default:
						continue
					}

					duplications = append(duplications, Duplication{
						Kind:             kind,
						PermissionIdx:    permIdx,
						ProhibitionIdx:   prohibIdx,
						PermConstraint:   permConstraint,
						ProhibConstraint: prohibConstraint,
					})
				}
			}
		}
	}

	return duplications
}

// areIdentical checks field, operator, and normalized value equality.
func areIdentical(a, b odrl.Constraint) bool {
	return a.LeftOperand == b.LeftOperand &&
		a.Operator == b.Operator &&
		NormalizeValue(a.RightOperand) == NormalizeValue(b.RightOperand)
}

// areLogicalInverses checks whether the permission constraint's registered
// inverse operator matches the prohibition constraint over the same
// operand and normalized value.
func areLogicalInverses(perm, prohib odrl.Constraint) bool {
	if perm.LeftOperand != prohib.LeftOperand {
		return false
	}
	inverse, ok := perm.Operator.Inverse()
	if !ok || inverse != prohib.Operator {
		return false
	}
	return NormalizeValue(perm.RightOperand) == NormalizeValue(prohib.RightOperand)
}

// removeDuplicateConstraints filters the constraint lists of the affected
// prohibition rules. Removal always uses the identity predicate against
// the recorded prohibition-side constraint, also for inverse-classified
// records: the constraint that was matched is the one removed.
func removeDuplicateConstraints(prohibitions odrl.Rules, duplications []Duplication) bool {
	toRemove := make(map[int][]odrl.Constraint)
	for _, dup := range duplications {
		toRemove[dup.ProhibitionIdx] = append(toRemove[dup.ProhibitionIdx], dup.ProhibConstraint)
	}

	modified := false
	for prohibIdx, removals := range toRemove {
		if prohibIdx >= len(prohibitions) {
			continue
		}
		prohibition := &prohibitions[prohibIdx]
		if prohibition.Malformed() {
			continue
		}

		filtered := make(odrl.Constraints, 0, len(prohibition.Constraint))
		for _, c := range prohibition.Constraint {
			if !c.Malformed() && matchesAny(c, removals) {
				continue
			}
			filtered = append(filtered, c)
		}

		if len(filtered) < len(prohibition.Constraint) {
			prohibition.Constraint = filtered
			modified = true
		}
	}

	return modified
}

func matchesAny(c odrl.Constraint, removals []odrl.Constraint) bool {
	for _, rem := range removals {
		if areIdentical(c, rem) {
			return true
		}
	}
	return false
}

// hasAction mirrors truthiness of the action member: empty strings,
// empty collections, and nil all count as "no action".
func hasAction(action any) bool {
	switch v := action.(type) {
	case nil:
		return false
	case string:
		return v != ""
	}
	rv := reflect.ValueOf(action)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}
