// filepath: internal/services/service_errors.go
package services

import "errors"

// Standard errors returned by the service layer.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrSelfDelete = errors.New("an account cannot delete itself")
	ErrLastAdmin  = errors.New("cannot delete the last admin account")
)
