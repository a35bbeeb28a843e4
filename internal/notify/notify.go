// Package notify implements the ephemeral user-facing message sink.
// Every entry expires on its own timer, independent of all other state.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible before it is
// removed automatically.
const DefaultTTL = 3 * time.Second

// Severity classifies a notification for presentation purposes.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Notification is a single ephemeral message.
type Notification struct {
	ID       string
	Message  string
	Severity Severity
}

// Notifier accepts user-facing messages. Implemented by Sink; domain
// components depend on this interface so tests can capture messages.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Sink collects notifications and drops each one TTL after it was
// added. Expiry timers run on their own goroutines, so access to the
// entries is guarded by a mutex.
type Sink struct {
	ttl time.Duration

	mu      sync.Mutex
	entries []Notification
	timers  map[string]*time.Timer
	stopped bool
}

// NewSink creates a Sink with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func NewSink(ttl time.Duration) *Sink {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sink{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// Notify adds a notification and schedules its removal.
func (s *Sink) Notify(message string, severity Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	id := uuid.New().String()
	s.entries = append(s.entries, Notification{
		ID:       id,
		Message:  message,
		Severity: severity,
	})
	s.timers[id] = time.AfterFunc(s.ttl, func() {
		s.remove(id)
	})
}

// List returns the notifications that have not expired yet, oldest first.
func (s *Sink) List() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.entries))
	copy(out, s.entries)
	return out
}

// Stop cancels all pending expiry timers and drops remaining entries.
// The sink accepts no further notifications afterwards.
func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.entries = nil
}

func (s *Sink) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.timers, id)
	for i, n := range s.entries {
		if n.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}
