package core

import "errors"

// SessionID is the transport-assigned identity of one live connection.
type SessionID string

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)
