package errors

import "errors"

var (
	ErrNotFound = errors.New("service not found")

	ErrDuplicateName = errors.New("service name already exists")
)
