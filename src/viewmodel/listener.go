package viewmodel

import (
	"log/slog"
	"sync"
)

// Listener processes view model events
type Listener interface {
	// Process handles a single event
	Process(event Event) error

	// Close cleans up any resources
	Close() error
}

// ListenerFunc adapts a function to a Listener
type ListenerFunc func(event Event) error

func (f ListenerFunc) Process(event Event) error { return f(event) }
func (f ListenerFunc) Close() error              { return nil }

// Recorder keeps every event it receives. It is meant for tests and for
// collecting a one-shot turn. It may receive events from concurrent turns.
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

func (r *Recorder) Process(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// OfType returns the recorded events of the given type, in order.
func (r *Recorder) OfType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.Events {
		if ev.GetType() == t {
			out = append(out, ev)
		}
	}
	return out
}

// notify delivers events to listeners in order. Listener errors are logged
// and never stop delivery.
func notify(logger *slog.Logger, listeners []Listener, events ...Event) {
	for _, ev := range events {
		for _, l := range listeners {
			if err := l.Process(ev); err != nil {
				logger.Warn("listener failed to process event", "event", ev.GetType(), "error", err)
			}
		}
	}
}
