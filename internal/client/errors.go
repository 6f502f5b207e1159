package client

import "fmt"

// ServerError is a non-success HTTP status from the analysis service.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Server error: %d", e.StatusCode)
}

// TransportError means the request could not be completed at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Could not complete request: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
