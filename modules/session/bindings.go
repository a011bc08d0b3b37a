package session

import (
	"errors"
	"sync"
)

// ErrNotBound is returned when a connection has no active binding.
// Callers treat it as a benign no-op.
var ErrNotBound = errors.New("connection not bound to a room")

// Binding associates a realtime connection with its membership.
type Binding struct {
	RoomID        string
	ParticipantID string
}

// Bindings is the table of connection bindings with a participant reverse index.
// A participant id is bound to at most one connection at a time.
type Bindings struct {
	mu            sync.RWMutex
	byConn        map[string]Binding
	byParticipant map[string]string
}

// NewBindings creates an empty binding table.
func NewBindings() *Bindings {
	return &Bindings{
		byConn:        make(map[string]Binding),
		byParticipant: make(map[string]string),
	}
}

// Bind sets the binding for connID, overwriting any previous one.
// It returns the previous binding of connID, if any. Another connection that
// held the same participant id loses its binding.
func (b *Bindings) Bind(connID string, binding Binding) (Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, hadPrev := b.byConn[connID]
	if hadPrev {
		delete(b.byParticipant, prev.ParticipantID)
	}
	if other, ok := b.byParticipant[binding.ParticipantID]; ok && other != connID {
		delete(b.byConn, other)
	}

	b.byConn[connID] = binding
	b.byParticipant[binding.ParticipantID] = connID
	return prev, hadPrev
}

// Unbind clears and returns the binding of connID.
func (b *Bindings) Unbind(connID string) (Binding, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	binding, ok := b.byConn[connID]
	if !ok {
		return Binding{}, false
	}
	delete(b.byConn, connID)
	if b.byParticipant[binding.ParticipantID] == connID {
		delete(b.byParticipant, binding.ParticipantID)
	}
	return binding, true
}

// Lookup returns the binding of connID.
func (b *Bindings) Lookup(connID string) (Binding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	binding, ok := b.byConn[connID]
	return binding, ok
}

// UnbindRoom clears every binding that references roomID and returns them
// keyed by connection id.
func (b *Bindings) UnbindRoom(roomID string) map[string]Binding {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := make(map[string]Binding)
	for connID, binding := range b.byConn {
		if binding.RoomID != roomID {
			continue
		}
		removed[connID] = binding
		delete(b.byConn, connID)
		delete(b.byParticipant, binding.ParticipantID)
	}
	return removed
}

// Len returns the number of bound connections.
func (b *Bindings) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byConn)
}
