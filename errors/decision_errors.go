// errors/decision_errors.go
package permyerrors

import (
	"errors"
	"strings"
)

// Conditions raised while evaluating a permission decision. In normal mode
// they are swallowed into a deny; in debug mode they reach the caller wrapped
// in a DecisionError.
var (
	ErrSubjectNotSet         = errors.New("subject is not set")
	ErrSubjectTypeMismatch   = errors.New("subject is not of the configured principal type")
	ErrResourceNotConfigured = errors.New("resource is not configured")
	ErrRecordsNotFound       = errors.New("permission records not found")
	ErrStoreUnavailable      = errors.New("permission store unavailable")
	ErrActionNotConfigured   = errors.New("action is not configured")
)

// DecisionError carries the context of a failed evaluation.
type DecisionError struct {
	Kind     error
	Subject  string
	URI      string
	Resource string
	Action   string
	Err      error
}

func (e *DecisionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Subject != "" {
		b.WriteString(" subject=" + e.Subject)
	}
	if e.URI != "" {
		b.WriteString(" uri=" + e.URI)
	}
	if e.Resource != "" {
		b.WriteString(" resource=" + e.Resource)
	}
	if e.Action != "" {
		b.WriteString(" action=" + e.Action)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *DecisionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsDecisionError reports whether err came out of a strict-mode evaluation.
func IsDecisionError(err error) bool {
	var de *DecisionError
	return errors.As(err, &de)
}
