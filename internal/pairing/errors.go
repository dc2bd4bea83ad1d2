package pairing

import "errors"

var (
	// ErrInvalidCode is returned when a submitted code is unknown or expired.
	ErrInvalidCode = errors.New("invalid or expired code")
	// ErrRequestNotFound is returned when a decision targets an unknown request.
	ErrRequestNotFound = errors.New("connection request not found")
	// ErrAlreadyDecided is returned when a request was already accepted or rejected.
	ErrAlreadyDecided = errors.New("connection request already decided")
	// ErrCodeSpaceExhausted is returned when Generate cannot draw a free code.
	ErrCodeSpaceExhausted = errors.New("could not generate an unused code")
)
