package ports

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
