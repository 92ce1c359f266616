package roster

import crerr "github.com/cockroachdb/errors"

var (
	ErrCapacityExceeded = crerr.New("roster capacity exceeded")
	ErrInvalidCandidate = crerr.New("invalid candidate")
	ErrNumberConflict   = crerr.New("number already assigned")
	ErrRoleConflict     = crerr.New("role already assigned")
	ErrInvalidOperation = crerr.New("invalid roster operation")
)
