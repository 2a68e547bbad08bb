// Package csv writes flattened particle rows as comma-separated values with
// a header row of column names.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vk/hepmctools/internal/flatten"
)

// Sink is a flatten.Sink writing CSV.
type Sink struct {
	w       *csv.Writer
	closer  io.Closer
	record  []string
	started bool
}

// Create creates (or truncates) the file at path and returns a Sink owning it.
func Create(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv output: %w", err)
	}
	s := New(f)
	s.closer = f
	return s, nil
}

// New returns a Sink writing to w. Close flushes but does not close w.
func New(w io.Writer) *Sink {
	return &Sink{
		w:      csv.NewWriter(w),
		record: make([]string, len(flatten.ColumnNames())),
	}
}

// WriteRows implements flatten.Sink.
func (s *Sink) WriteRows(_ context.Context, rows []flatten.Row) error {
	if !s.started {
		if err := s.w.Write(flatten.ColumnNames()); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		s.started = true
	}
	for i := range rows {
		for j, v := range rows[i].Values() {
			s.record[j] = format(v)
		}
		if err := s.w.Write(s.record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

// Close flushes buffered output, writing the header if no row was written,
// and closes the file when the Sink owns one.
func (s *Sink) Close() error {
	if !s.started {
		_ = s.w.Write(flatten.ColumnNames())
		s.started = true
	}
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
