// Package toast delivers the short user-visible confirmations raised by the
// stores. A Dispatcher stamps each toast and fans it out to sinks: the log,
// an in-memory history, websocket clients and optionally RabbitMQ.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
)

// Level is the severity shown by the UI.
type Level string

// Level constants.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Toast is one user-visible confirmation.
type Toast struct {
	ID          string    `json:"id" toml:"id"`
	Level       Level     `json:"level" toml:"level"`
	Title       string    `json:"title" toml:"title"`
	Description string    `json:"description,omitempty" toml:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" toml:"created_at"`
}

// Notifier is what the stores use to raise toasts.
type Notifier interface {
	Success(title, description string)
	Error(title, description string)
	Info(title, description string)
}

// Sink receives every dispatched toast. Deliver must not block.
type Sink interface {
	Deliver(t Toast)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Toast)

// Deliver implements Sink.
func (f SinkFunc) Deliver(t Toast) { f(t) }

// Dispatcher implements Notifier by fanning toasts out to sinks.
type Dispatcher struct {
	sinks []Sink
	now   func() time.Time
	mu    sync.RWMutex
}

// NewDispatcher creates a Dispatcher delivering to sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks: sinks,
		now:   time.Now,
	}
}

// Attach adds a sink after construction.
func (d *Dispatcher) Attach(sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// Success raises a success toast.
func (d *Dispatcher) Success(title, description string) {
	d.raise(LevelSuccess, title, description)
}

// Error raises an error toast.
func (d *Dispatcher) Error(title, description string) {
	d.raise(LevelError, title, description)
}

// Info raises an informational toast.
func (d *Dispatcher) Info(title, description string) {
	d.raise(LevelInfo, title, description)
}

func (d *Dispatcher) raise(level Level, title, description string) {
	t := Toast{
		ID:          uuid.NewString(),
		Level:       level,
		Title:       title,
		Description: description,
		CreatedAt:   d.now(),
	}
	metrics.ToastsRaised.WithLabelValues(string(level)).Inc()

	d.mu.RLock()
	sinks := make([]Sink, len(d.sinks))
	copy(sinks, d.sinks)
	d.mu.RUnlock()

	for _, sink := range sinks {
		sink.Deliver(t)
	}
}

// Discard is a Notifier that drops every toast.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string, string) {}
func (discard) Error(string, string)   {}
func (discard) Info(string, string)    {}
