package sentinel

import "errors"

// Sentinel dependency errors. Dependencies should return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoIdentity   = errors.New("no active identity")
	ErrCorruptState = errors.New("corrupt persisted state")
	ErrUnavailable  = errors.New("unavailable")
)
