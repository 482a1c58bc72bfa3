package broker

import "context"

// RawPublisher publishes pre-encoded messages.
type RawPublisher interface {
	PublishRaw(ctx context.Context, queue string, msg RawMessage) error
}

// MalformedSamples are messages the consumer must dead-letter: a body that is not JSON and
// a JSON object missing every required field.
func MalformedSamples() []RawMessage {
	return []RawMessage{
		{Body: []byte("not json"), ContentType: "text/plain"},
		{Body: []byte(`{"unexpected":true}`), ContentType: contentTypeJSON},
	}
}

// InjectMalformed publishes MalformedSamples to queue, bypassing event encoding. It returns
// the number of messages published.
func InjectMalformed(ctx context.Context, publisher RawPublisher, queue string) (int, error) {
	published := 0
	for _, msg := range MalformedSamples() {
		if err := publisher.PublishRaw(ctx, queue, msg); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}
