package services

import "errors"

// Sentinel errors returned by services. Controllers map these onto HTTP
// status codes; wrap them with fmt.Errorf("%w: ...") to add detail.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)
