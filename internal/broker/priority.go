package broker

import "strings"

// DefaultPriority is used for unknown or missing urgency labels.
const DefaultPriority uint8 = 1

var urgencyPriorities = map[string]uint8{
	"low":    1,
	"medium": 3,
	"high":   6,
	"urgent": 9,
}

// PriorityForUrgency maps an urgency label to a message priority, ignoring case and
// surrounding whitespace.
func PriorityForUrgency(urgency string) uint8 {
	if p, ok := urgencyPriorities[strings.ToLower(strings.TrimSpace(urgency))]; ok {
		return p
	}
	return DefaultPriority
}
