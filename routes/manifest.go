// routes/manifest.go
package routes

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	logger "github.com/dev-mohitbeniwal/permy/logging"
	"github.com/dev-mohitbeniwal/permy/model"
)

// ManifestSource reads the route table from a YAML file. Its version is the
// BLAKE3 digest of the file content.
type ManifestSource struct {
	path string
}

func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

func (s *ManifestSource) Load(ctx context.Context) (*Manifest, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read route manifest %s: %w", s.path, err)
	}
	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	manifest.Version = digest(data)
	logger.Debug("Route manifest loaded",
		zap.String("path", s.path),
		zap.Int("routes", len(manifest.Routes)))
	return manifest, nil
}

func (s *ManifestSource) Version(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read route manifest %s: %w", s.path, err)
	}
	return digest(data), nil
}

// ParseManifest decodes and validates a YAML route manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", permy_errors.ErrInvalidManifest, err)
	}

	for i := range manifest.Routes {
		route := &manifest.Routes[i]
		if strings.TrimSpace(route.Path) == "" {
			return nil, fmt.Errorf("%w: route %d has no uri", permy_errors.ErrInvalidManifest, i)
		}
		if route.Method == "" {
			route.Method = "GET"
		}
		route.Method = strings.ToUpper(route.Method)
		route.Action = NormalizeAction(route.Action)
	}

	normalized := make(map[string][]model.ControllerFilter, len(manifest.Controllers))
	for controller, filters := range manifest.Controllers {
		normalized[NormalizeAction(controller)] = filters
	}
	manifest.Controllers = normalized
	return &manifest, nil
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
