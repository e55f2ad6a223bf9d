package session

import (
	"fmt"
	"sync"
)

// Outbox buffers encoded frames for a connection writer goroutine.
type Outbox struct {
	id     string
	frames chan []byte
	mu     sync.Mutex
	closed bool
}

// NewOutbox creates an Outbox for the session id.
//
// Postcondition: a non-positive bufferSize falls back to 64.
func NewOutbox(id string, bufferSize int) *Outbox {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Outbox{id: id, frames: make(chan []byte, bufferSize)}
}

// Push enqueues a frame without blocking.
//
// Postcondition: returns an error if the outbox is closed or full.
func (o *Outbox) Push(frame []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return fmt.Errorf("outbox %s is closed", o.id)
	}
	select {
	case o.frames <- frame:
		return nil
	default:
		return fmt.Errorf("outbox %s buffer full", o.id)
	}
}

// Frames is drained by the writer goroutine until it is closed.
func (o *Outbox) Frames() <-chan []byte {
	return o.frames
}

// Close closes the frame channel. It is idempotent.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.closed {
		o.closed = true
		close(o.frames)
	}
}

// IsClosed reports whether Close was called.
func (o *Outbox) IsClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}
