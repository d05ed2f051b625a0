package pricing

import "fmt"

// NetworkError indicates the reservation service could not be reached at the
// transport level (DNS, connect, timeout). Callers must treat it as "no
// update", never as an empty result.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("pricing %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError indicates the reservation service answered with a non-success
// HTTP status. Detail carries the server's message when one was parseable.
type ServiceError struct {
	Op     string
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pricing %s: status=%d detail=%s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("pricing %s: status=%d", e.Op, e.Status)
}

// ValidationError indicates the reservation service rejected a booking
// submission as invalid. Detail is the server-provided human-readable message
// and must be surfaced to the guest verbatim when present.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "booking rejected by reservation service"
	}
	return e.Detail
}
