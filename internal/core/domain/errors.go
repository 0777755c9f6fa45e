package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chat is disabled and search answers degrade to ranked results only.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrStoreUnavailable indicates the entity store could not be reached.
	ErrStoreUnavailable = errors.New("entity store unavailable")

	// ErrReadOnly indicates a write was attempted on a read-only store
	// such as the static fixture file.
	ErrReadOnly = errors.New("store is read-only")

	// ErrRateLimited indicates the caller exceeded the request rate.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnsupportedType indicates an unknown provider or storage backend.
	ErrUnsupportedType = errors.New("unsupported type")
)
