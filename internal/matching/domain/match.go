// Package domain defines the matching models: helpers and their matches to requests.
package domain

import (
	"time"

	"github.com/allisson/helpmatch/internal/errors"
)

// Match status values.
const (
	MatchStatusPending = "pending"
	MatchStatusOffered = "offered"
)

// Request status values the matcher reads and writes.
const (
	RequestStatusOpen    = "open"
	RequestStatusMatched = "matched"
	RequestStatusClosed  = "closed"
)

// Matching-specific error definitions.
var (
	// ErrRequestNotFound indicates an event referenced a request missing from the database.
	ErrRequestNotFound = errors.Wrap(errors.ErrNotFound, "request not found")
)

// Helper is a volunteer who can be matched to requests in their category.
type Helper struct {
	ID        int64
	Name      string
	Category  string
	Available bool
}

// Match links a request to a helper. The pair (RequestID, HelperID) is unique.
type Match struct {
	ID        int64
	RequestID int64
	HelperID  int64
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequestRef is the part of a help request the matcher needs.
type RequestRef struct {
	ID       int64
	Category string
	Status   string
}
