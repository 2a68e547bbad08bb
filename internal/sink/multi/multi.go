// Package multi fans rows out to several sinks.
package multi

import (
	"context"
	"errors"

	"github.com/vk/hepmctools/internal/flatten"
)

// Sink writes every batch to each of its sinks in order.
type Sink []flatten.Sink

var _ flatten.Sink = Sink(nil)

// WriteRows writes rows to every sink, even after one fails, and joins the
// errors.
func (m Sink) WriteRows(ctx context.Context, rows []flatten.Row) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteRows(ctx, rows); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins the errors.
func (m Sink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
