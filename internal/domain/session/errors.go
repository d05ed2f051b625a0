package session

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session is closed")
	ErrNoRoomSelected    = errors.New("no room selected")
	ErrRoomNotAvailable  = errors.New("room is not available")
	ErrAlreadySubmitting = errors.New("booking submission already in progress")
	ErrInvalidTransition = errors.New("operation not allowed in current state")
)
