package app

import (
	"context"
	"database/sql"
	stdcsv "encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hepmctools/internal/decayfilter"
	"github.com/vk/hepmctools/internal/hepmc"
	"github.com/vk/hepmctools/internal/testutil"
	"github.com/vk/hepmctools/internal/upload"

	_ "modernc.org/sqlite"
)

func mustConfig(t *testing.T, cfg Config) *Config {
	t.Helper()
	c, err := NewConfig(cfg)
	require.NoError(t, err)
	return c
}

func TestRunFlatten(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "rows.csv")
	dbPath := filepath.Join(dir, "rows.db")
	metricsPath := filepath.Join(dir, "run.prom")

	a, _, logs := SetupAppTest(t, mustConfig(t, Config{
		Command:       CommandFlatten,
		Input:         input,
		Outputs:       []string{csvPath, dbPath},
		ProgressEvery: 1,
		MetricsFile:   metricsPath,
	}))
	require.NoError(t, a.Run(context.Background()))

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := stdcsv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 11, "header plus ten particles")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM particles`).Scan(&n))
	assert.Equal(t, 10, n)

	assert.Equal(t, 2.0, promtest.ToFloat64(a.Metrics().EventsRead))
	assert.Equal(t, 10.0, promtest.ToFloat64(a.Metrics().ParticlesEmitted))
	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hepmc_events_kept_total 2")

	assert.Contains(t, logs.String(), "Progress.")
	assert.Contains(t, logs.String(), "Flattening finished.")
}

func TestRunFlattenCapacity(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	out := filepath.Join(t.TempDir(), "rows.ndjson")
	a, _, logs := SetupAppTest(t, mustConfig(t, Config{
		Command:      CommandFlatten,
		Input:        input,
		Outputs:      []string{out},
		MaxParticles: 4,
	}))
	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 8, strings.Count(string(data), "\n"))
	assert.Equal(t, 2.0, promtest.ToFloat64(a.Metrics().ParticlesDropped))
	assert.Contains(t, logs.String(), "Particle capacity exceeded")
}

func TestRunFilter(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	out := filepath.Join(t.TempDir(), "higgs.hepmc")
	a, stdout, _ := SetupAppTest(t, mustConfig(t, Config{
		Command:  CommandFilter,
		Input:    input,
		Outputs:  []string{out},
		RuleArgs: []string{"35", "15", "-15"},
	}))
	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.Header+testutil.HiggsToTaus+decayfilter.Trailer, string(data))

	assert.Contains(t, stdout.String(), "events(in):             2")
	assert.Contains(t, stdout.String(), "events(out):            1")
	assert.Contains(t, stdout.String(), "fraction:       5.000e-01")
	assert.Equal(t, 1.0, promtest.ToFloat64(a.Metrics().EventsKept))
}

func TestRunFilterFailureLeavesNoTrailer(t *testing.T) {
	// The second event's vertex owes two particles but a vertex follows.
	listing := testutil.WithHeader(testutil.SimpleDecay, `E 11 0 0 0 0 0 1 2 0 0 0 0
V 1 0 0 0 0 0 0 2 0
V 2 0 0 0 0 0 0 0 0
`, testutil.Footer)
	input := testutil.WriteFile(t, "broken.hepmc", listing)
	out := filepath.Join(t.TempDir(), "higgs.hepmc")
	a, stdout, _ := SetupAppTest(t, mustConfig(t, Config{
		Command:  CommandFilter,
		Input:    input,
		Outputs:  []string{out},
		RuleArgs: []string{"35", "15", "-15"},
	}))

	err := a.Run(context.Background())
	require.ErrorIs(t, err, hepmc.ErrMalformedRecord)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.Header+testutil.SimpleDecay, string(data), "kept events are flushed without the trailer")
	assert.NotContains(t, string(data), decayfilter.Trailer)
	assert.NotContains(t, stdout.String(), "Summary")
}

func TestRunFilterWithRulesFile(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	rules := testutil.WriteFile(t, "rules.hcl", `decay "2212" { daughters = [[6, -6]] }`)
	out := filepath.Join(t.TempDir(), "tops.hepmc")
	a, _, _ := SetupAppTest(t, mustConfig(t, Config{
		Command:   CommandFilter,
		Input:     input,
		Outputs:   []string{out},
		RulesFile: rules,
	}))
	require.NoError(t, a.Run(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, testutil.Header+testutil.TopPair+decayfilter.Trailer, string(data))
}

func TestRunList(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	a, stdout, _ := SetupAppTest(t, mustConfig(t, Config{Command: CommandList, Input: input, Limit: 1}))
	require.NoError(t, a.Run(context.Background()))

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "event 1: 4 vertices, 6 particles"))
	assert.Contains(t, out, "H0")
	assert.NotContains(t, out, "event 2:")
}

func TestRunListToFile(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	out := filepath.Join(t.TempDir(), "events.txt")
	a, stdout, _ := SetupAppTest(t, mustConfig(t, Config{Command: CommandList, Input: input, Outputs: []string{out}}))
	require.NoError(t, a.Run(context.Background()))

	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "event 2: 3 vertices, 4 particles")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	malformed := testutil.WriteFile(t, "bad.hepmc", testutil.WithHeader(`E 1 0 0 0 0 0 0 2 0 0
V -1 0 0 0 0 0 0 2 0
V -2 0 0 0 0 0 0 0 0
`))
	notHepMC := testutil.WriteFile(t, "notes.txt", "hello\n")

	testCases := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "missing input", cfg: Config{Command: CommandList, Input: filepath.Join(dir, "none.hepmc")}, wantErr: hepmc.ErrFileNotFound},
		{name: "bad header", cfg: Config{Command: CommandList, Input: notHepMC}, wantErr: hepmc.ErrUnsupportedFormat},
		{name: "malformed record in flatten", cfg: Config{Command: CommandFlatten, Input: malformed, Outputs: []string{filepath.Join(dir, "x.csv")}}, wantErr: hepmc.ErrMalformedRecord},
		{name: "malformed record in filter", cfg: Config{Command: CommandFilter, Input: malformed, RuleArgs: []string{"35"}, Outputs: []string{filepath.Join(dir, "x.hepmc")}}, wantErr: hepmc.ErrMalformedRecord},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _, _ := SetupAppTest(t, mustConfig(t, tc.cfg))
			require.ErrorIs(t, a.Run(context.Background()), tc.wantErr)
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	a, _, _ := SetupAppTest(t, mustConfig(t, Config{Command: CommandList, Input: input}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, a.Run(ctx), context.Canceled)
}

func TestRunUploadsArtifact(t *testing.T) {
	var uploaded []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	input := testutil.WriteFile(t, "events.hepmc", testutil.Listing)
	out := filepath.Join(t.TempDir(), "higgs.hepmc")
	a, _, _ := SetupAppTest(t, mustConfig(t, Config{
		Command:  CommandFilter,
		Input:    input,
		Outputs:  []string{out},
		RuleArgs: []string{"35 15 -15"},
		Upload:   srv.URL + "/higgs.hepmc",
	}), WithUploader(upload.New(upload.WithHTTPClient(srv.Client()))))
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, testutil.Header+testutil.HiggsToTaus+decayfilter.Trailer, string(uploaded))
}

func TestUploadNeedsDirectoryForSeveralArtifacts(t *testing.T) {
	a, _, _ := SetupAppTest(t, mustConfig(t, Config{Command: CommandFlatten, Input: "x", Upload: "s3://bucket/rows.csv"}))
	err := a.uploadArtifacts(context.Background(), []string{"a.csv", "b.ndjson"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must end with '/'")

	require.NoError(t, a.uploadArtifacts(context.Background(), nil))
}

func TestDefaultFlattenOutput(t *testing.T) {
	assert.Equal(t, "susy200.csv", defaultFlattenOutput("/data/susy200.hepmc"))
	assert.Equal(t, "events.csv", defaultFlattenOutput("events"))
}
