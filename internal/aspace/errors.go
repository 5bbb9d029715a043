package aspace

import "fmt"

// ConnectionError wraps a transport-level failure reaching the backend.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("aspace: backend unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// AuthenticationError reports rejected credentials at login.
type AuthenticationError struct {
	Detail string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("aspace: authentication failed: %s", e.Detail)
}

// CommunicationError reports a response status that does not match the
// endpoint's expected success code. The raw body is kept for diagnosis.
type CommunicationError struct {
	StatusCode int
	Body       []byte
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("aspace: backend responded %d", e.StatusCode)
}

// ProtocolError reports a success-status response whose body is not valid
// structured data.
type ProtocolError struct {
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("aspace: backend responded %d with a non-JSON document: %v", e.StatusCode, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
