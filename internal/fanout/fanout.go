// Package fanout implements the Observer Fanout of §4.6: a per-match list
// of subscriber handles, broadcasting serialized snapshots and dropping any
// handle whose write fails.
package fanout

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Writer is the minimal capability a transport connection must offer to be
// registered as an observer. A *websocket.Conn satisfies this via a small
// adapter in internal/api; tests use an in-memory fake.
type Writer interface {
	WriteMessage(data []byte) error
}

// Handle is one subscriber. ID exists only for logging/debugging (§4.4's
// "Observer identity" supplement) and plays no role in game legality.
type Handle struct {
	ID uuid.UUID
	w  Writer
}

// Fanout tracks the live subscriber handles for a single match. It is safe
// for concurrent use, but in this system's concurrency model (§5) it is
// always called from within the owning Match's lock, so the internal mutex
// only guards against the adapter registering/removing handles from a
// different goroutine than the one doing the current broadcast.
type Fanout struct {
	mu      sync.Mutex
	handles []*Handle
	log     *zap.Logger
}

// New creates an empty Fanout. log may be nil, in which case a no-op logger
// is used.
func New(log *zap.Logger) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{log: log}
}

// Subscribe registers w as a new observer and returns its Handle so the
// caller (the transport layer) can later Unsubscribe it on disconnect.
func (f *Fanout) Subscribe(w Writer) *Handle {
	h := &Handle{ID: uuid.New(), w: w}
	f.mu.Lock()
	f.handles = append(f.handles, h)
	f.mu.Unlock()
	return h
}

// Unsubscribe removes h, if present. Safe to call more than once.
func (f *Fanout) Unsubscribe(h *Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.handles {
		if existing == h {
			f.handles = append(f.handles[:i], f.handles[i+1:]...)
			return
		}
	}
}

// Count returns the number of currently live subscribers.
func (f *Fanout) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// Broadcast writes payload to every live subscriber, removing any handle
// whose write fails. It never panics or returns an error: a dead observer
// is an expected event (§5 "writes to a dead handle must be detected and
// the handle removed -- this must never throw out of the match
// operation"), logged at info level, matching the teacher's own
// log.Printf("websocket.Send: %v", err) call site.
func (f *Fanout) Broadcast(payload []byte) {
	f.mu.Lock()
	live := f.handles[:0:0]
	var dead []*Handle
	for _, h := range f.handles {
		if err := h.w.WriteMessage(payload); err != nil {
			dead = append(dead, h)
			continue
		}
		live = append(live, h)
	}
	f.handles = live
	f.mu.Unlock()

	for _, h := range dead {
		f.log.Info("observer write failed, dropping handle", zap.String("handle", h.ID.String()))
	}
}
