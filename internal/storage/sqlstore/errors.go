package sqlstore

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
)
