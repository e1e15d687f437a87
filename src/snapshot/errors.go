package snapshot

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a feed failure.
type ErrorKind string

const (
	// ErrTransport covers network failures and non-2xx HTTP responses.
	ErrTransport ErrorKind = "transport"
	// ErrProtocol covers an explicit errors payload in a GraphQL response.
	ErrProtocol ErrorKind = "protocol"
	// ErrDecode covers responses that do not match the expected shape.
	ErrDecode ErrorKind = "decode"
)

// Error wraps a feed failure with its kind. The cause stays reachable for
// logging via Unwrap.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("snapshot: %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the error's kind, or "" for non-feed errors.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
