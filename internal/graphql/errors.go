package graphql

import "fmt"

// TransportError reports a failure to reach the endpoint or to read its
// reply: network errors, unexpected HTTP status, malformed JSON.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a well-formed response carrying a top-level error list.
// Only the first message is surfaced through Error.
type ServerError struct {
	Operation string
	Messages  []string
}

func (e *ServerError) Error() string {
	if len(e.Messages) == 0 {
		return "unknown server error"
	}
	return e.Messages[0]
}

// Detail includes the operation and the remaining messages; meant for logs.
func (e *ServerError) Detail() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Messages)
}
