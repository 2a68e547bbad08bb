package multi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hepmctools/internal/flatten"
	"github.com/vk/hepmctools/internal/sink/multi"
)

type countingSink struct {
	rows     int
	writeErr error
	closeErr error
	closed   bool
}

func (s *countingSink) WriteRows(_ context.Context, rows []flatten.Row) error {
	s.rows += len(rows)
	return s.writeErr
}

func (s *countingSink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestSinkFansOut(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := multi.Sink{a, b}
	require.NoError(t, m.WriteRows(context.Background(), make([]flatten.Row, 3)))
	require.NoError(t, m.Close())
	assert.Equal(t, 3, a.rows)
	assert.Equal(t, 3, b.rows)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestSinkJoinsErrors(t *testing.T) {
	errWrite := errors.New("write failed")
	errClose := errors.New("close failed")
	a := &countingSink{writeErr: errWrite, closeErr: errClose}
	b := &countingSink{}
	m := multi.Sink{a, b}

	err := m.WriteRows(context.Background(), make([]flatten.Row, 2))
	require.ErrorIs(t, err, errWrite)
	assert.Equal(t, 2, b.rows, "later sinks still receive rows")

	err = m.Close()
	require.ErrorIs(t, err, errClose)
	assert.True(t, b.closed)
}
