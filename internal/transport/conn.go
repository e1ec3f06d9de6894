package transport

// Conn is one live bidirectional connection as seen by the relay core. The
// transport owns the underlying socket; the core only holds references keyed
// by identity and room.
type Conn interface {
	// Identity returns the connection owner's identity, fixed at connect time
	Identity() string

	// Send enqueues one outbound frame. Frames enqueued from the same
	// goroutine are delivered in order; sends to a closed connection are
	// silently dropped.
	Send(frame string)

	// Close tears the connection down. Safe to call more than once.
	Close()
}
