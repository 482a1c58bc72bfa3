package domain

import "time"

// Status values of a help request.
const (
	StatusOpen    = "open"
	StatusMatched = "matched"
	StatusClosed  = "closed"
)

// Request is a help request posted by a senior. ID is assigned by the database.
type Request struct {
	ID          int64
	UserID      int64
	Title       string
	Category    string
	Description string
	Urgency     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Offer is a helper volunteering for a request.
type Offer struct {
	ID        int64
	RequestID int64
	HelperID  int64
	Message   string
	CreatedAt time.Time
}
