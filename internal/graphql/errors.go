package graphql

import "fmt"

// ErrorDetail is one entry of a GraphQL response's errors list.
type ErrorDetail struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error is returned when the server answers with a non-empty errors list.
// Its message is the first reported error's message, which is what the UI
// shows to the user.
type Error struct {
	Operation string
	Errors    []ErrorDetail
}

func (e *Error) Error() string {
	if len(e.Errors) == 0 || e.Errors[0].Message == "" {
		return fmt.Sprintf("%s failed", e.Operation)
	}
	return e.Errors[0].Message
}

// HTTPError is returned for a non-2xx response that carried no GraphQL
// errors.
type HTTPError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.StatusCode)
}
