package core

// Frame is a raw encoded payload.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// Send queues a named event for the remote end. It must not block;
	// a full queue yields ErrBackpressure.
	Send(event string, payload any) error
	Close()
}
