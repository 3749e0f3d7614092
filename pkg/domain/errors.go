package domain

import "errors"

// Error kinds surfaced by the engine. Callers test with errors.Is; the
// wrapping message carries the specifics.
var (
	// ErrNotFound reports an unknown collection or, for direct lookups, an
	// unknown document id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports a malformed filter, negative pagination
	// bounds, a duplicate id on insert, or resolving a non-reference field.
	ErrInvalidArgument = errors.New("invalid argument")
)
