package flatten

import (
	"context"
	"fmt"

	"github.com/vk/hepmctools/internal/hepmc"
)

// Sink receives flattened rows. WriteRows is called once per event with all
// of that event's rows; implementations must not retain the slice.
type Sink interface {
	WriteRows(ctx context.Context, rows []Row) error
	Close() error
}

// Emitter writes events to a Sink, one batch of rows per event.
type Emitter struct {
	sink Sink
	buf  []Row

	events int
	rows   int
}

// NewEmitter returns an Emitter writing to sink.
func NewEmitter(sink Sink) *Emitter {
	return &Emitter{sink: sink}
}

// Emit flattens ev and hands its rows to the sink. An event without
// particles produces no call to the sink.
func (e *Emitter) Emit(ctx context.Context, ev *hepmc.Event) error {
	e.buf = Rows(e.buf, ev)
	e.events++
	if len(e.buf) == 0 {
		return nil
	}
	if err := e.sink.WriteRows(ctx, e.buf); err != nil {
		return fmt.Errorf("emit event %d: %w", ev.Number, err)
	}
	e.rows += len(e.buf)
	return nil
}

// Events returns the number of events emitted so far.
func (e *Emitter) Events() int { return e.events }

// Rows returns the number of rows written so far.
func (e *Emitter) Rows() int { return e.rows }

// Close closes the underlying sink.
func (e *Emitter) Close() error {
	return e.sink.Close()
}
