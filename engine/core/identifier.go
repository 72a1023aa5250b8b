package core

import "github.com/google/uuid"

// NewIdentifier returns a random, globally unique identifier used to tell
// shapes and other runtime objects apart in logs and lookups.
func NewIdentifier() string {
	return uuid.New().String()
}
