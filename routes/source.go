// routes/source.go
package routes

import (
	"context"
	"strings"

	"github.com/dev-mohitbeniwal/permy/model"
)

// Manifest is the route table of the host application together with the
// controller level filters declared for it.
type Manifest struct {
	Routes      []model.Route                       `yaml:"routes"`
	Controllers map[string][]model.ControllerFilter `yaml:"controllers,omitempty"`
	// Version identifies the content the manifest was built from.
	Version string `yaml:"-"`
}

// Source delivers the route table and a version that changes whenever the
// table does. Load should stamp Manifest.Version from the data it read, so
// the version always matches the routes it is stored with.
type Source interface {
	Load(ctx context.Context) (*Manifest, error)
	Version(ctx context.Context) (string, error)
}

// NormalizeAction drops the leading namespace separator so that
// `\Acme\UsersController@index` and `Acme\UsersController@index` match.
func NormalizeAction(action string) string {
	return strings.TrimLeft(strings.TrimSpace(action), `\`)
}
