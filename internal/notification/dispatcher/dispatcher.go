// Package dispatcher fans newly stored notifications out to delivery channels
// (live sockets, push, chat, event bus). Delivery is best effort: a failing
// sink is logged and never affects the stored notification.
package dispatcher

import (
	"context"
	"log"
	"sync"
	"time"

	"tasko-backend/internal/notification/domain"
)

// Sink delivers one notification to an external channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *domain.Notification) error
}

// Dispatcher delivers each notification to every sink in the background.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

// New creates a Dispatcher; nil sinks are skipped.
func New(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{timeout: 10 * time.Second}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Sinks returns the names of the configured sinks.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, 0, len(d.sinks))
	for _, s := range d.sinks {
		names = append(names, s.Name())
	}
	return names
}

// Dispatch hands n to every sink without blocking the caller.
func (d *Dispatcher) Dispatch(n *domain.Notification) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	copied := *n
	for _, s := range d.sinks {
		d.wg.Add(1)
		go func(s Sink) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := s.Deliver(ctx, &copied); err != nil {
				log.Printf("[Dispatcher] %s delivery of %s failed: %v", s.Name(), copied.ID, err)
			}
		}(s)
	}
}

// Wait blocks until every in-flight delivery has finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
