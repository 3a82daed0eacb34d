package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so the registration service can translate them into domain signals.
//
// - ErrNotFound: no record exists for the requested key
// - ErrAlreadyUsed: the unique key (username) is already taken at write time
// - ErrUnavailable: the backing store cannot be reached
//
// For bad input or rule violations, use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
