package errors

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrNameExtraction and ErrDateParse stay inside the dialogue layer;
	// both degrade to a re-prompt reply, never an HTTP error.
	ErrNameExtraction = errors.New("could not extract a name")
	ErrDateParse      = errors.New("could not parse a date and time")
)
