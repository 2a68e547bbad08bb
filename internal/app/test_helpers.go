package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/vk/hepmctools/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns
// the app, its captured stdout, and its captured debug-level log.
func SetupAppTest(t *testing.T, cfg *Config, opts ...Option) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	stdout := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp := NewApp(stdout, logBuffer, cfg, opts...)

	t.Cleanup(func() {
		if os.Getenv("HEPMC_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, stdout, logBuffer
}
