package models

import "errors"

// Recoverable failure classes. None of these are fatal to the service;
// callers degrade to empty data and retry on the next triggering change.
var (
	ErrNetwork       = errors.New("network unavailable")
	ErrMalformedData = errors.New("malformed external data")
)
