package domain

import "errors"

// ErrSessionNotFound is returned when a call ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyCallID is returned when an operation is attempted without a call ID.
var ErrEmptyCallID = errors.New("empty call id")

// ErrCorruptState is returned by a store when a record exists but cannot be
// decoded. Callers that need a record start the call over instead of failing.
var ErrCorruptState = errors.New("corrupt call state")
