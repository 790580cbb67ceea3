package dispatch

import "errors"

var (
	// ErrRead is returned when the recipients table cannot be read.
	ErrRead = errors.New("could not read recipients")

	// ErrWrite is returned when the remainder table cannot be created.
	ErrWrite = errors.New("could not write remainders")

	// ErrInvalidMessage is returned for empty, blank, or over-long messages.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidAmount is returned for amounts without a decimal form (NaN, ±Inf).
	ErrInvalidAmount = errors.New("invalid amount")
)
