package faceapi

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable     = errors.New("face api unreachable")
	ErrInvalidResponse = errors.New("invalid response from face api")
)

// APIError is a non-2xx reply from the recognition backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("face api returned status %d: %s", e.Status, e.Body)
}
