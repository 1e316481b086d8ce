package server

import "fmt"

// ServiceError wraps a failed store operation. It maps to a server-error
// response, as opposed to models.ValidationError which maps to a
// client-error response.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
