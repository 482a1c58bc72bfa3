package events

import (
	validation "github.com/jellydator/validation"
)

// RequestCreated is published after a help request row is inserted.
type RequestCreated struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
}

// EventName implements Event.
func (RequestCreated) EventName() string { return NameRequestCreated }

// UrgencyLabel implements Prioritized.
func (e RequestCreated) UrgencyLabel() string { return e.Urgency }

// Validate checks the fields the matching consumer relies on.
func (e RequestCreated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&e.UserID, validation.Min(int64(0))),
	)
}

// OfferCreated is published when a helper offers to take a request.
type OfferCreated struct {
	ID        int64  `json:"id"`
	RequestID int64  `json:"request_id"`
	HelperID  int64  `json:"helper_id"`
	Message   string `json:"message,omitempty"`
}

// EventName implements Event.
func (OfferCreated) EventName() string { return NameOfferCreated }

// Validate checks the fields the matching consumer relies on.
func (e OfferCreated) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.ID, validation.Required, validation.Min(int64(1))),
		validation.Field(&e.RequestID, validation.Required, validation.Min(int64(1))),
		validation.Field(&e.HelperID, validation.Required, validation.Min(int64(1))),
	)
}
