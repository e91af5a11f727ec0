package transport

import "fmt"

// TransportError wraps a failure at the connect/send/receive boundary with
// the operation that failed, so callers can log "what" without type-asserting
// into gorilla/websocket's own error types.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
