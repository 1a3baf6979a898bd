// catalog/labels.go
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dev-mohitbeniwal/permy/model"
)

// Default labels written for resources nobody has described yet.
const (
	DefaultControllerName = "* :controller - please update"
	DefaultControllerDesc = "* The developer was way to busy to care describing the :controller class"
	DefaultMethodName     = "* :controller@:method - please update"
	DefaultMethodDesc     = "* The developer was way to busy to care describing the :method method of :controller class"
)

// LabelStore persists the human readable catalog.
type LabelStore interface {
	Load() (model.Catalog, error)
	Save(model.Catalog) error
}

// FileStore keeps the catalog in a YAML file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an empty catalog when the file does not exist yet.
func (s *FileStore) Load() (model.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read labels %s: %w", s.path, err)
	}

	var labels model.Catalog
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parse labels %s: %w", s.path, err)
	}
	if labels == nil {
		labels = model.Catalog{}
	}
	return labels, nil
}

func (s *FileStore) Save(labels model.Catalog) error {
	data, err := yaml.Marshal(labels)
	if err != nil {
		return fmt.Errorf("encode labels: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create labels dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write labels %s: %w", s.path, err)
	}
	return nil
}

func controllerLabels(key string) model.ControllerLabels {
	r := strings.NewReplacer(":controller", key)
	return model.ControllerLabels{
		Name:    r.Replace(DefaultControllerName),
		Desc:    r.Replace(DefaultControllerDesc),
		Methods: map[string]model.Label{},
	}
}

func methodLabel(key, method string) model.Label {
	r := strings.NewReplacer(":controller", key, ":method", method)
	return model.Label{
		Name: r.Replace(DefaultMethodName),
		Desc: r.Replace(DefaultMethodDesc),
	}
}
