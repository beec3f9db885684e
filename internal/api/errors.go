package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when no token is available or the API rejects it
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptySubEntities is returned before any network I/O for a batch without sub-entities
	ErrEmptySubEntities = errors.New("habit batch requires at least one sub-entity")
)

// RemoteError is a non-2xx response. Message is the server-supplied message.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound
}

// NetworkError is a transport-level failure: the request never got a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
