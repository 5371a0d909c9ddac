package schemas

import "errors"

// -- Error Taxonomy --
//
// Every error surfaced to a boundary (HTTP, CLI) wraps exactly one of these
// sentinels so callers can classify it with errors.Is.

var (
	// ErrInvalidRequest marks missing or malformed identity/snapshot fields.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptySelection marks an explicitly provided, empty module selection.
	ErrEmptySelection = errors.New("at least one module must be selected")
	// ErrNotFound marks an unknown team or organization.
	ErrNotFound = errors.New("not found")
	// ErrGenerationFailed marks an upstream text-generation error or timeout.
	ErrGenerationFailed = errors.New("failed to generate report")
	// ErrPersistenceFailed marks a failed attempt to save a generated report.
	ErrPersistenceFailed = errors.New("failed to persist report")
)
