package decayfilter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/hepmctools/internal/hepmc"
)

// Trailer ends every listing written by Writer.
const Trailer = "HepMC::IO_GenEvent-END_EVENT_LISTING\n"

// ErrNoRawBytes is returned when an event was read without KeepRaw.
var ErrNoRawBytes = errors.New("event carries no raw bytes")

// OutputName returns the default output file name for input:
// filtered_<stem>.hepmc in the current directory.
func OutputName(input string) string {
	base := filepath.Base(input)
	return "filtered_" + strings.TrimSuffix(base, filepath.Ext(base)) + ".hepmc"
}

// Writer re-emits kept events verbatim after the source header.
type Writer struct {
	bw     *bufio.Writer
	closer io.Closer
	kept   int
	closed bool
}

// Create creates (or truncates) the file at path and writes header to it.
func Create(path string, header []byte) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create filter output: %w", err)
	}
	w, err := NewWriter(f, header)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// NewWriter writes header to w and returns a Writer appending to it. Close
// does not close w.
func NewWriter(w io.Writer, header []byte) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Writer{bw: bw}, nil
}

// Write appends the raw bytes of ev.
func (w *Writer) Write(ev *hepmc.Event) error {
	if ev.Raw == nil {
		return fmt.Errorf("event %d: %w", ev.Number, ErrNoRawBytes)
	}
	if _, err := w.bw.Write(ev.Raw); err != nil {
		return fmt.Errorf("write event %d: %w", ev.Number, err)
	}
	w.kept++
	return nil
}

// Kept returns the number of events written.
func (w *Writer) Kept() int { return w.kept }

// Close writes the trailer, flushes, and closes the file when the Writer
// owns one. Further calls to Close or Abort are no-ops.
func (w *Writer) Close() error {
	return w.finish(true)
}

// Abort flushes what was written and closes the file without the trailer,
// so a listing cut short by a failed run does not read as complete. Further
// calls to Close or Abort are no-ops.
func (w *Writer) Abort() error {
	return w.finish(false)
}

func (w *Writer) finish(trailer bool) error {
	if w.closed {
		return nil
	}
	w.closed = true
	var err error
	if trailer {
		_, err = w.bw.WriteString(Trailer)
	}
	if ferr := w.bw.Flush(); err == nil {
		err = ferr
	}
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
