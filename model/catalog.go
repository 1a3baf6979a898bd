// model/catalog.go
package model

import "sort"

// Label is the human description of a controller or one of its methods.
type Label struct {
	Name string `json:"name" yaml:"name"`
	Desc string `json:"desc" yaml:"desc"`
}

// ControllerLabels describes a resource and its guarded methods.
type ControllerLabels struct {
	Name    string           `json:"name" yaml:"name"`
	Desc    string           `json:"desc" yaml:"desc"`
	Methods map[string]Label `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Catalog maps resource keys to their labels.
type Catalog map[string]ControllerLabels

// Keys returns the resource keys sorted A-Z.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
