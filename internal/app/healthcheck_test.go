package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMux(t *testing.T) {
	a, _, logs := SetupAppTest(t, &Config{Command: CommandList, Input: "x"})
	a.Metrics().EventsRead.Add(3)
	srv := httptest.NewServer(a.serverMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))
	assert.Contains(t, logs.String(), "Health check endpoint hit.")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "hepmc_events_read_total 3")
}

func TestServerLifecycle(t *testing.T) {
	a, _, _ := SetupAppTest(t, &Config{Command: CommandList, Input: "x"})
	require.NoError(t, a.closeServer(context.Background()), "closing a server that never started is a no-op")

	a.startServer(0)
	require.NotNil(t, a.httpServer)
	require.NoError(t, a.closeServer(context.Background()))
	assert.Nil(t, a.httpServer)
}
