package model

// Reasons attached to a ResourceDecision.
const (
	ReasonGranted               = "granted"
	ReasonDenied                = "denied"
	ReasonGodmode               = "godmode"
	ReasonSubjectNotSet         = "subject_not_set"
	ReasonSubjectTypeMismatch   = "subject_type_mismatch"
	ReasonResourceNotConfigured = "resource_not_configured"
	ReasonRecordsNotFound       = "records_not_found"
	ReasonStoreUnavailable      = "store_unavailable"
	ReasonActionNotConfigured   = "action_not_configured"
)

// Decision is the explained outcome of one evaluation call.
type Decision struct {
	ID               string             `json:"id,omitempty"`
	SubjectID        string             `json:"subject_id,omitempty"`
	Allowed          bool               `json:"allowed"`
	Negated          bool               `json:"negated,omitempty"`
	Godmode          bool               `json:"godmode,omitempty"`
	Operator         string             `json:"operator"`
	ResourceOperator string             `json:"resource_operator"`
	RecordOperator   string             `json:"record_operator"`
	ExtraCheck       bool               `json:"extra_check"`
	Resources        []ResourceDecision `json:"resources"`
}

// ResourceDecision is the per-resource trace of a Decision.
type ResourceDecision struct {
	Ref         string `json:"ref"`
	URI         string `json:"uri,omitempty"`
	ResourceKey string `json:"resource_key,omitempty"`
	Action      string `json:"action,omitempty"`
	Records     int    `json:"records"`
	Allowed     bool   `json:"allowed"`
	Reason      string `json:"reason"`
}
