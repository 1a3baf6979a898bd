// model/permy.go
package model

// Permy is a permission record: a role-like grant holding, per resource key,
// a JSON map of action name to boolean.
type Permy struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"desc,omitempty" yaml:"desc,omitempty"`
	Rules       map[string]string `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Assignment binds a permission record to a subject.
type Assignment struct {
	SubjectID string `json:"subject_id" yaml:"subject_id"`
	PermyID   string `json:"permy_id" yaml:"permy_id"`
}
