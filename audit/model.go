// audit/model.go
package audit

import (
	"time"

	pdp_model "github.com/dev-mohitbeniwal/permy/pdp/model"
)

// AuditLog records one permission decision.
type AuditLog struct {
	ID        string                       `json:"id"`
	Timestamp time.Time                    `json:"timestamp"`
	SubjectID string                       `json:"subject_id"`
	Allowed   bool                         `json:"allowed"`
	Negated   bool                         `json:"negated,omitempty"`
	Godmode   bool                         `json:"godmode,omitempty"`
	Resources []pdp_model.ResourceDecision `json:"resources"`
	RequestID string                       `json:"request_id,omitempty"`
}

// FromDecision builds the audit entry of an explained decision.
func FromDecision(d *pdp_model.Decision, requestID string) AuditLog {
	return AuditLog{
		ID:        d.ID,
		SubjectID: d.SubjectID,
		Allowed:   d.Allowed,
		Negated:   d.Negated,
		Godmode:   d.Godmode,
		Resources: d.Resources,
		RequestID: requestID,
	}
}
