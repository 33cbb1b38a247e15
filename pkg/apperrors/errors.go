// Package apperrors defines the domain error taxonomy shared by services
// and handlers. Services return these sentinels (possibly wrapped); handlers
// translate them to HTTP status codes.
package apperrors

import "errors"

var (
	// ErrNotFound covers missing prompts, versions and users. It is also
	// returned instead of ErrForbidden when revealing the resource's
	// existence would leak a hidden prompt.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates a capability or ownership check failed.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyInState indicates a redundant state transition, e.g.
	// approving an already-approved prompt.
	ErrAlreadyInState = errors.New("already in requested state")

	// ErrVersionMismatch indicates a revert target version that belongs to
	// a different prompt.
	ErrVersionMismatch = errors.New("version does not belong to this prompt")

	// ErrValidation indicates a malformed or incomplete request, e.g. a
	// promotion without a username.
	ErrValidation = errors.New("validation failed")
)
