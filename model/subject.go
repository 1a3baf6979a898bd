// model/subject.go
package model

// SubjectTypeUser is the principal type handed out by the bundled stores.
const SubjectTypeUser = "user"

// Subject is the principal whose access is being checked.
type Subject struct {
	ID    string `json:"id" yaml:"id"`
	Type  string `json:"type" yaml:"type"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}
