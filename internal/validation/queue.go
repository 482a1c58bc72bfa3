package validation

import (
	validation "github.com/jellydator/validation"
)

const maxQueueNameLength = 255

// QueueName validates a broker queue name: at most 255 bytes of letters, digits and
// the characters "-_.:".
var QueueName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_queue_name_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > maxQueueNameLength {
		return validation.NewError("validation_queue_name_length", "must be at most 255 bytes")
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return validation.NewError(
				"validation_queue_name_chars",
				"must contain only letters, digits and -_.:",
			)
		}
	}
	return nil
})
