package exams

import (
	"fmt"
	"strings"
)

// StatusError is returned when an endpoint answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: unexpected status %s", e.Endpoint, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// SchemaError is returned when a response body is not the JSON shape the endpoint promises.
type SchemaError struct {
	Endpoint string
	Reason   string
	Err      error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s: invalid response: %s", e.Endpoint, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func snippet(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}
