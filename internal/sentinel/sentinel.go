package sentinel

import "errors"

// Sentinel dependency errors. Stores should return these (optionally wrapped)
// so the engine can translate them into domain errors exactly once.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
