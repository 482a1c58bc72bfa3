package events

import (
	"encoding/json"
	"sync"

	apperrors "github.com/allisson/helpmatch/internal/errors"
)

// Decoder turns a raw delivery body into a typed event.
type Decoder func(body []byte) (Event, error)

type validatable interface {
	Event
	Validate() error
}

// JSONDecoder decodes a bare JSON object into T and validates it.
func JSONDecoder[T validatable]() Decoder {
	return func(body []byte) (Event, error) {
		var evt T
		if err := json.Unmarshal(body, &evt); err != nil {
			return nil, apperrors.Wrap(ErrMalformedPayload, err.Error())
		}
		if err := evt.Validate(); err != nil {
			return nil, apperrors.Wrap(ErrMalformedPayload, err.Error())
		}
		return evt, nil
	}
}

// Registry maps event names to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry returns a registry preloaded with the platform events.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]Decoder)}
	r.Register(NameRequestCreated, JSONDecoder[RequestCreated]())
	r.Register(NameOfferCreated, JSONDecoder[OfferCreated]())
	return r
}

// Register adds or replaces the decoder for name.
func (r *Registry) Register(name string, decoder Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[name] = decoder
}

// Decode looks up the decoder for name and applies it to body.
func (r *Registry) Decode(name string, body []byte) (Event, error) {
	r.mu.RLock()
	decoder, ok := r.decoders[name]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.Wrapf(ErrUnknownEvent, "event %q", name)
	}
	return decoder(body)
}
