// dao/store.go
package dao

import (
	"context"

	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/pdp/engine"
)

// SubjectStore looks principals up by ID.
type SubjectStore interface {
	FindSubject(ctx context.Context, id string) (*model.Subject, error)
}

// Store is a backend able to serve both subjects and their permission
// records.
type Store interface {
	SubjectStore
	engine.PermissionStore
}
