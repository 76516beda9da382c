package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrBadQuestionIndex = errors.New("question index out of range")
)
