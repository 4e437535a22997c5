package catalogue

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrTransport    = errors.New("transport error")
)

// TransportError is returned when a request to the catalogue fails, times out or
// comes back with a non-2xx status. It matches ErrTransport with errors.Is.
type TransportError struct {
	// Op is the step that failed, "prime" or "search (<strategy>)".
	Op     string
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", ErrTransport, e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: unexpected status %d", ErrTransport, e.Op, e.URL, e.Status)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}
