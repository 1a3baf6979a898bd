package engine

import "strings"

// Operator is the logical combinator used to fold several decisions into one.
type Operator string

const (
	And Operator = "and"
	Or  Operator = "or"
	Xor Operator = "xor"
)

// Valid reports whether o is one of the supported combinators.
func (o Operator) Valid() bool {
	switch o {
	case And, Or, Xor:
		return true
	}
	return false
}

// ParseOperator returns op when it names a supported combinator. An empty op
// falls back to fallback; anything unsupported resolves to And.
func ParseOperator(op string, fallback Operator) Operator {
	candidate := Operator(strings.ToLower(strings.TrimSpace(op)))
	if candidate == "" {
		candidate = fallback
	}
	if candidate.Valid() {
		return candidate
	}
	return And
}

// Combine applies op to a pair of decisions. Unknown operators behave as And.
func Combine(a, b bool, op Operator) bool {
	switch op {
	case Or:
		return a || b
	case Xor:
		return a != b
	default:
		return a && b
	}
}

// Fold reduces terms left to right, seeding with the first term. An empty
// sequence yields the identity of op.
func Fold(terms []bool, op Operator) bool {
	if len(terms) == 0 {
		return !op.Valid() || op == And
	}
	result := terms[0]
	for _, term := range terms[1:] {
		result = Combine(result, term, op)
	}
	return result
}
