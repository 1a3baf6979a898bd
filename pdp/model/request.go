package model

// CheckRequest is the wire form of a permission check.
type CheckRequest struct {
	SubjectID        string   `json:"subject_id" binding:"required"`
	Resources        []string `json:"resources" binding:"required,min=1,dive,required"`
	Operator         string   `json:"operator,omitempty"`
	ResourceOperator string   `json:"resource_operator,omitempty"`
	RecordOperator   string   `json:"record_operator,omitempty"`
	ExtraCheck       *bool    `json:"extra_check,omitempty"`
	Negate           bool     `json:"negate,omitempty"`
}
