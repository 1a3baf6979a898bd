package engine

// Policy is the process-wide configuration consumed by the engine. It is
// built once at startup and never mutated; per-call changes go through
// Overrides.
type Policy struct {
	// Operator is the default combinator for every fold: records, resources
	// and the final extra check.
	Operator Operator
	// Godmode grants every resource without looking at any data.
	Godmode bool
	// Debug turns swallowed conditions into DecisionErrors.
	Debug bool
	// SubjectType, when set, is the only principal type accepted.
	SubjectType string
}

func DefaultPolicy() Policy {
	return Policy{Operator: And}
}

// Overrides change the policy for a single call.
type Overrides struct {
	Godmode *bool
	Debug   *bool
}

// Options tune one evaluation. All three operators share one default: an
// empty operator falls back to Policy.Operator (permy.logic_operator), not to
// a literal And. Pass And explicitly to fold resources or the extra check
// with AND while records use the configured operator.
type Options struct {
	// Operator folds the resource decision with ExtraCheck.
	Operator Operator
	// ResourceOperator folds decisions across requested resources.
	ResourceOperator Operator
	// RecordOperator folds the records of a single resource.
	RecordOperator Operator
	// ExtraCheck defaults to true for Evaluate and false for Negate.
	ExtraCheck *bool
	Overrides  Overrides
}

// Bool returns a pointer to v, for Options and Overrides literals.
func Bool(v bool) *bool {
	return &v
}
