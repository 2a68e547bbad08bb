// Package ndjson writes flattened particle rows as newline-delimited JSON,
// one object per row.
package ndjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vk/hepmctools/internal/flatten"
)

// Sink is a flatten.Sink writing NDJSON.
type Sink struct {
	bw     *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// Create creates (or truncates) the file at path and returns a Sink owning it.
func Create(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create ndjson output: %w", err)
	}
	s := New(f)
	s.closer = f
	return s, nil
}

// New returns a Sink writing to w. Close flushes but does not close w.
func New(w io.Writer) *Sink {
	bw := bufio.NewWriter(w)
	return &Sink{bw: bw, enc: json.NewEncoder(bw)}
}

// WriteRows implements flatten.Sink.
func (s *Sink) WriteRows(_ context.Context, rows []flatten.Row) error {
	for i := range rows {
		if err := s.enc.Encode(&rows[i]); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	return nil
}

// Close flushes buffered output and closes the file when the Sink owns one.
func (s *Sink) Close() error {
	err := s.bw.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}
