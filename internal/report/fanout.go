package report

import (
	"errors"

	"golang.org/x/sync/errgroup"
)

// Fanout forwards every call to a set of sinks concurrently.
type Fanout struct {
	sinks []Sink
}

var _ Sink = (*Fanout)(nil)

// NewFanout creates a sink forwarding to sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

// Len returns the number of sinks.
func (f *Fanout) Len() int {
	return len(f.sinks)
}

// Consume implements Sink. Every sink receives the item even when another
// sink fails, the errors are joined.
func (f *Fanout) Consume(item Item) error {
	return f.each(func(s Sink) error { return s.Consume(item) })
}

// Complete implements Sink.
func (f *Fanout) Complete() error {
	return f.each(Sink.Complete)
}

func (f *Fanout) each(fn func(Sink) error) error {
	var (
		g    errgroup.Group
		errs = make([]error, len(f.sinks))
	)

	for i, s := range f.sinks {
		g.Go(func() error {
			errs[i] = fn(s)
			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}
