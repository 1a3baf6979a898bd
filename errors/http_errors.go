// errors/http_errors.go
package permyerrors

import "errors"

var (
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidCheckData  = errors.New("invalid permission check data")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingAuthSecret = errors.New("auth secret is not configured")
)
