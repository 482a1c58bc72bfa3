// Package events defines the typed messages exchanged over the broker and the
// name-keyed decoders used at the consumer boundary.
package events

import (
	"encoding/json"

	apperrors "github.com/allisson/helpmatch/internal/errors"
)

// Event names. They double as default queue names and as the AMQP "type" property.
const (
	NameRequestCreated = "request_created"
	NameOfferCreated   = "offer_created"
)

// Event-specific errors.
var (
	// ErrMalformedPayload indicates the body is not valid JSON for the event or fails validation.
	ErrMalformedPayload = apperrors.Wrap(apperrors.ErrInvalidInput, "malformed event payload")

	// ErrUnknownEvent indicates no decoder is registered for the event name.
	ErrUnknownEvent = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown event")
)

// Event is a message published to and consumed from a queue.
type Event interface {
	EventName() string
}

// Prioritized is implemented by events carrying an urgency label.
type Prioritized interface {
	UrgencyLabel() string
}

// Urgency returns the urgency label of evt, or "" when the event carries none.
func Urgency(evt Event) string {
	if p, ok := evt.(Prioritized); ok {
		return p.UrgencyLabel()
	}
	return ""
}

// Encode serializes an event as a bare JSON object.
func Encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}
