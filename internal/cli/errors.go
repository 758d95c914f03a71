package cli

import (
	"errors"
	"fmt"

	"datepick/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// sessionErr maps store errors for session name onto CLI errors.
func sessionErr(name string, err error) error {
	if errors.Is(err, store.ErrSessionNotFound) {
		return errNotFound("session", name)
	}
	return err
}
