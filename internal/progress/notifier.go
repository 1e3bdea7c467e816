// Package progress carries (fraction, message) events from a long-running
// step to an optional consumer without ever blocking the producer.
package progress

import "sync"

// Event is one progress notification. Fraction is in [0, 1].
type Event struct {
	Fraction float64
	Message  string
}

// Notifier is a single-producer, single-consumer event channel.
// A nil *Notifier is valid and discards every event.
type Notifier struct {
	ch      chan Event
	once    sync.Once
	dropped int
}

// New creates a Notifier buffering up to size events.
func New(size int) *Notifier {
	if size < 1 {
		size = 1
	}
	return &Notifier{ch: make(chan Event, size)}
}

// Report sends an event. When the buffer is full the event is dropped.
func (n *Notifier) Report(fraction float64, message string) {
	if n == nil {
		return
	}
	switch {
	case fraction < 0:
		fraction = 0
	case fraction > 1:
		fraction = 1
	}
	select {
	case n.ch <- Event{Fraction: fraction, Message: message}:
	default:
		n.dropped++
	}
}

// Events returns the receive side. It is closed by Close.
func (n *Notifier) Events() <-chan Event {
	if n == nil {
		return nil
	}
	return n.ch
}

// Close closes the event channel. Reporting after Close panics.
func (n *Notifier) Close() {
	if n == nil {
		return
	}
	n.once.Do(func() { close(n.ch) })
}

// Dropped returns how many events were discarded because the consumer
// was not keeping up. Only the producer may call it.
func (n *Notifier) Dropped() int {
	if n == nil {
		return 0
	}
	return n.dropped
}
