// Package domain defines core domain models and errors for help requests.
package domain

import (
	"github.com/allisson/helpmatch/internal/errors"
)

// Request-specific error definitions.
var (
	// ErrRequestNotFound indicates the help request does not exist.
	ErrRequestNotFound = errors.Wrap(errors.ErrNotFound, "request not found")

	// ErrHelperNotFound indicates the helper referenced by an offer does not exist.
	ErrHelperNotFound = errors.Wrap(errors.ErrNotFound, "helper not found")

	// ErrRequestClosed indicates the request no longer accepts offers.
	ErrRequestClosed = errors.Wrap(errors.ErrConflict, "request is closed")
)
