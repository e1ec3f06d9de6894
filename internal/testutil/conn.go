package testutil

import (
	"strings"
	"sync"
)

// FakeConn is an in-memory connection for tests. It records every frame sent
// to it and is safe for concurrent use.
type FakeConn struct {
	mu       sync.Mutex
	identity string
	frames   []string
	closed   bool
}

// NewFakeConn creates a FakeConn with the given identity.
func NewFakeConn(identity string) *FakeConn {
	return &FakeConn{identity: identity}
}

// Identity returns the connection owner's identity.
func (c *FakeConn) Identity() string {
	return c.identity
}

// Send records the frame.
func (c *FakeConn) Send(frame string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
}

// Close marks the connection closed.
func (c *FakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close has been called.
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Frames returns a snapshot of every frame sent so far.
func (c *FakeConn) Frames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := make([]string, len(c.frames))
	copy(frames, c.frames)
	return frames
}

// FramesWithPrefix returns the recorded frames starting with the prefix.
func (c *FakeConn) FramesWithPrefix(prefix string) []string {
	var matched []string
	for _, frame := range c.Frames() {
		if strings.HasPrefix(frame, prefix) {
			matched = append(matched, frame)
		}
	}
	return matched
}

// Reset discards all recorded frames.
func (c *FakeConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}
