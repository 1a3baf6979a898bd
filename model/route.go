// model/route.go
package model

import "strings"

// ActionSeparator splits "Namespace\Controller@method" action strings.
const ActionSeparator = "@"

// Route is one entry of the host application's route table.
type Route struct {
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Method     string   `json:"method" yaml:"method"`
	Path       string   `json:"uri" yaml:"uri"`
	Action     string   `json:"action,omitempty" yaml:"action,omitempty"`
	Middleware []string `json:"middleware,omitempty" yaml:"middleware,omitempty"`
}

func (r Route) URI() string {
	return r.Path
}

// ControllerAction returns the "Controller@method" string bound to the route.
// Closures and static handlers have none.
func (r Route) ControllerAction() (string, bool) {
	if r.Action == "" || !strings.Contains(r.Action, ActionSeparator) {
		return "", false
	}
	return r.Action, true
}

// SplitAction splits "Controller@method" into its two halves.
func SplitAction(action string) (controller, method string, ok bool) {
	controller, method, ok = strings.Cut(action, ActionSeparator)
	if !ok || controller == "" || method == "" {
		return "", "", false
	}
	return controller, method, true
}

// ControllerFilter is a guard applied at controller level, optionally
// restricted to some methods.
type ControllerFilter struct {
	Name   string   `json:"name" yaml:"name"`
	Only   []string `json:"only,omitempty" yaml:"only,omitempty"`
	Except []string `json:"except,omitempty" yaml:"except,omitempty"`
}

// AppliesTo reports whether the filter guards the given controller method.
func (f ControllerFilter) AppliesTo(method string) bool {
	if len(f.Only) > 0 {
		return contains(f.Only, method)
	}
	if len(f.Except) > 0 {
		return !contains(f.Except, method)
	}
	return true
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
