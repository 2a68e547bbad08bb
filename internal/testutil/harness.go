package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/hepmctools/internal/hepmc"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFile writes content to name inside a per-test temporary directory and
// returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	return WriteFileIn(t, t.TempDir(), name, content)
}

// WriteFileIn writes content to dir/name, creating parent directories.
func WriteFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ReadEvents decodes every complete event of a listing held in memory.
func ReadEvents(t *testing.T, listing string, opts hepmc.Options) []*hepmc.Event {
	t.Helper()
	s, err := hepmc.NewStream(strings.NewReader(listing), opts)
	require.NoError(t, err)
	var events []*hepmc.Event
	for {
		ev, err := s.Next()
		require.NoError(t, err)
		if ev == nil {
			return events
		}
		events = append(events, ev)
	}
}

// ReadEvent decodes a listing that must contain exactly one complete event.
func ReadEvent(t *testing.T, listing string) *hepmc.Event {
	t.Helper()
	events := ReadEvents(t, listing, hepmc.Options{})
	require.Len(t, events, 1)
	return events[0]
}
