package serial

import "sync"

// Pipe connects two in-memory byte channels. Bytes written to one
// endpoint become readable on the other. Both ends satisfy
// comm.ByteChannel and are safe to drive from separate goroutines.
func Pipe() (*Endpoint, *Endpoint) {
	a := &Endpoint{}
	b := &Endpoint{}
	a.peer, b.peer = b, a
	return a, b
}

// Endpoint is one end of an in-memory pipe.
type Endpoint struct {
	mu     sync.Mutex
	inbox  []byte
	peer   *Endpoint
	broken bool
}

// Available implements comm.ByteChannel.
func (e *Endpoint) Available() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.inbox)
}

// Read implements comm.ByteChannel.
func (e *Endpoint) Read(p []byte) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := copy(p, e.inbox)
	e.inbox = e.inbox[n:]
	if len(e.inbox) == 0 {
		e.inbox = nil
	}
	return n
}

// Write implements comm.ByteChannel.
func (e *Endpoint) Write(p []byte) bool {
	e.mu.Lock()
	broken := e.broken
	e.mu.Unlock()
	if broken {
		return false
	}
	e.peer.deliver(p)
	return true
}

// SetBroken makes subsequent writes fail, simulating a dead line.
func (e *Endpoint) SetBroken(broken bool) {
	e.mu.Lock()
	e.broken = broken
	e.mu.Unlock()
}

// Inject places raw bytes directly into this endpoint's inbox, as if
// the peer had written them.
func (e *Endpoint) Inject(p []byte) {
	e.deliver(p)
}

func (e *Endpoint) deliver(p []byte) {
	e.mu.Lock()
	e.inbox = append(e.inbox, p...)
	e.mu.Unlock()
}
