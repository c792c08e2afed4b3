package domain

import "errors"

// Sentinel errors for the core operations. Use cases wrap these with
// fmt.Errorf("...: %w", Err...) so adapters can classify failures with
// errors.Is without string matching.
var (
	// ErrNotFound indicates a referenced company, account or category
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a missing or contradictory required
	// parameter. Raised before any read or write happens.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indicates a malformed category assignment, such as a
	// mapping that references a category of the wrong shape.
	ErrConflict = errors.New("conflict")
)
