package hepmc

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned by Open when the input path does not exist.
	ErrFileNotFound = errors.New("hepmc: input file not found")
	// ErrUnsupportedFormat is returned when the first non-blank line of the
	// input is not a HepMC::Version marker.
	ErrUnsupportedFormat = errors.New("hepmc: unsupported format")
	// ErrMalformedRecord is returned when a record cannot be decoded or a
	// record of the wrong kind appears where only one kind is valid. The
	// stream cannot be resumed after it.
	ErrMalformedRecord = errors.New("hepmc: malformed record")
)

// RecordError describes a malformed record and where it was found.
type RecordError struct {
	Line   int    // 1-based input line number
	Tag    Tag    // tag of the offending record
	Reason string // what was wrong with it
	Text   string // the offending line, without trailing newline
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%v: line %d (%s): %s: %q", ErrMalformedRecord, e.Line, e.Tag, e.Reason, e.Text)
}

// Unwrap makes errors.Is(err, ErrMalformedRecord) hold for every RecordError.
func (e *RecordError) Unwrap() error { return ErrMalformedRecord }
