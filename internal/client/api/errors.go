package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/escrowdeck/internal/common"
)

// APIError carries the HTTP status and the backend's message for a failed
// request. It unwraps to the matching sentinel in internal/common so
// callers can use errors.Is without inspecting status codes.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return common.ErrForbidden
	case e.Status == http.StatusNotFound:
		return common.ErrNotFound
	case e.Status >= 500:
		return common.ErrUnavailable
	}
	return nil
}

// errorEnvelope is the backend's error body shape.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (env *errorEnvelope) text() string {
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}
