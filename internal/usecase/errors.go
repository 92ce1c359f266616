package usecase

import "errors"

// Roster engine errors live in the roster package; these cover sessions and sheet loading.
var (
	ErrInvalidInput          = errors.New("invalid roster request")
	ErrNotFound              = errors.New("session or sheet not found")
	ErrDependencyUnavailable = errors.New("spreadsheet provider unavailable")
)
