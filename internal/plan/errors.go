package plan

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrNotFound indicates an update or removal referenced an unknown id.
	ErrNotFound = errors.New("entity not found")
	// ErrInvalidEnum indicates an unrecognized status, pattern, or type value.
	ErrInvalidEnum = errors.New("invalid enum value")
	// ErrBadDate indicates a date string that is not YYYY-MM or YYYY-MM-DD.
	ErrBadDate = errors.New("malformed date")
)
