package session

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned for an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
}
