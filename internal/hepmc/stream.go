package hepmc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

const readBufSize = 256 * 1024

// Options configures a Stream.
type Options struct {
	// MaxParticles caps the particles retained per event. Zero means
	// unlimited; 5000 reproduces the legacy fixed-size buffers.
	MaxParticles int
	// KeepRaw makes each event carry its verbatim source bytes in Event.Raw.
	KeepRaw bool
	// Logger receives record-level detail at debug level. Nil discards.
	Logger *slog.Logger
}

// Stream is a pull cursor over a HepMC2 listing.
type Stream struct {
	r       *bufio.Reader
	closer  io.Closer
	opts    Options
	logger  *slog.Logger
	builder *Builder

	header  []byte
	version string
	pending []byte // line read past the header that belongs to the body

	line       int
	eventsRead int
	raw        bytes.Buffer
	done       bool
	closed     bool
}

// Open opens the file at path and reads its header. The returned Stream owns
// the file and releases it on Close; on error the file is already closed.
func Open(path string, opts Options) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s, err := newStream(f, f, opts)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// NewStream reads the header from r. The caller keeps ownership of r.
func NewStream(r io.Reader, opts Options) (*Stream, error) {
	return newStream(r, nil, opts)
}

func newStream(r io.Reader, closer io.Closer, opts Options) (*Stream, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Stream{
		r:       bufio.NewReaderSize(r, readBufSize),
		closer:  closer,
		opts:    opts,
		logger:  logger,
		builder: NewBuilder(opts.MaxParticles, logger),
	}
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

// readHeader caches everything up to the version line, plus the
// listing-start line when present.
func (s *Stream) readHeader() error {
	for {
		line, err := s.readLine()
		if len(line) > 0 {
			s.header = append(s.header, line...)
			rec := Tokenize(string(line))
			if rec.Tag != TagBlank {
				if rec.Tag != TagVersion {
					return fmt.Errorf("%w: line %d: expected %s, got %q", ErrUnsupportedFormat, s.line, TagVersion, rec.Text)
				}
				if len(rec.Fields) > 0 {
					s.version = rec.Fields[0]
				}
				break
			}
		}
		if err == io.EOF {
			return fmt.Errorf("%w: no %s line found", ErrUnsupportedFormat, TagVersion)
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
	}

	line, err := s.readLine()
	if err != nil && err != io.EOF {
		return fmt.Errorf("read header: %w", err)
	}
	if Tokenize(string(line)).Tag == TagStartListing {
		s.header = append(s.header, line...)
	} else if len(line) > 0 {
		s.line--
		s.pending = line
	}
	s.logger.Debug("HepMC header read.", "version", s.version, "bytes", len(s.header))
	return nil
}

func (s *Stream) readLine() ([]byte, error) {
	if s.pending != nil {
		line := s.pending
		s.pending = nil
		s.line++
		return line, nil
	}
	line, err := s.r.ReadBytes('\n')
	if len(line) > 0 {
		s.line++
	}
	return line, err
}

// Next returns the next complete event, or nil at end of stream. An event cut
// off by the end of input is not returned. After an error the stream is
// unusable and every further call returns nil.
func (s *Stream) Next() (*Event, error) {
	if s.done || s.closed {
		return nil, nil
	}
	for {
		line, err := s.readLine()
		if len(line) > 0 {
			ev, ferr := s.feed(line)
			if ferr != nil {
				s.done = true
				return nil, ferr
			}
			if ev != nil {
				return ev, nil
			}
		}
		if err == io.EOF {
			s.done = true
			if s.builder.InFlight() {
				s.logger.Warn("Input ended inside an event; discarding it.", "line", s.line, "state", s.builder.state.String())
			}
			return nil, nil
		}
		if err != nil {
			s.done = true
			return nil, fmt.Errorf("read line %d: %w", s.line+1, err)
		}
	}
}

func (s *Stream) feed(line []byte) (*Event, error) {
	rec := Tokenize(string(line))
	rec.Line = s.line
	if rec.Tag == TagEvent {
		s.eventsRead++
		s.raw.Reset()
	}
	if s.opts.KeepRaw && (rec.Tag == TagEvent || s.builder.InFlight()) {
		s.raw.Write(line)
	}
	ev, err := s.builder.Feed(rec)
	if err != nil || ev == nil {
		return nil, err
	}
	if s.opts.KeepRaw {
		ev.Raw = bytes.Clone(s.raw.Bytes())
		s.raw.Reset()
	}
	return ev, nil
}

// Header returns the cached header bytes, verbatim.
func (s *Stream) Header() []byte { return s.header }

// Version returns the HepMC version named in the header.
func (s *Stream) Version() string { return s.version }

// EventsRead returns the number of event records seen so far, complete or not.
func (s *Stream) EventsRead() int { return s.eventsRead }

// Close releases the input. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
