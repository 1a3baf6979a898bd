// errors/store_errors.go
package permyerrors

import "errors"

var (
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrRouteNotFound     = errors.New("route not found")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInvalidFixtures   = errors.New("invalid fixtures")
	ErrInvalidManifest   = errors.New("invalid route manifest")
)
