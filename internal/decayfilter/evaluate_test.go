package decayfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hepmctools/internal/decayfilter"
	"github.com/vk/hepmctools/internal/hepmc"
	"github.com/vk/hepmctools/internal/testutil"
)

func TestEvaluateScenarios(t *testing.T) {
	ev := testutil.ReadEvent(t, testutil.WithHeader(testutil.SimpleDecay))

	testCases := []struct {
		name  string
		rules decayfilter.Rules
		want  bool
	}{
		{name: "matching decay is kept", rules: decayfilter.Rules{35: {{15, -15}}}, want: true},
		{name: "no matching alternative is dropped", rules: decayfilter.Rules{35: {{6, -6}}}, want: false},
		{name: "missing second parent is dropped", rules: decayfilter.Rules{35: {{15, -15}}, 25: {{5, -5}}}, want: false},
		{name: "any alternative matches", rules: decayfilter.Rules{35: {{6, -6}, {15, -15}}}, want: true},
		{name: "subset of the daughters matches", rules: decayfilter.Rules{35: {{15}}}, want: true},
		{name: "superset of the daughters does not match", rules: decayfilter.Rules{35: {{15, -15, 22}}}, want: false},
		{name: "empty set accepts any decay", rules: decayfilter.Rules{35: {{}}}, want: true},
		{name: "parent that never decays is dropped", rules: decayfilter.Rules{-35: {{}}}, want: false},
		{name: "no rules keep everything", rules: decayfilter.Rules{}, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, decayfilter.Evaluate(ev, tc.rules))
			assert.Equal(t, tc.want, decayfilter.Evaluate(ev, tc.rules), "evaluation is idempotent")
		})
	}
}

func TestEvaluateListing(t *testing.T) {
	events := testutil.ReadEvents(t, testutil.Listing, hepmc.Options{})
	require.Len(t, events, 2)

	higgs := decayfilter.Rules{35: {{15, -15}}}
	assert.True(t, decayfilter.Evaluate(events[0], higgs))
	assert.False(t, decayfilter.Evaluate(events[1], higgs), "no H0 in the top pair event")
}

func TestEvaluateIgnoresCapacity(t *testing.T) {
	events := testutil.ReadEvents(t, testutil.WithHeader(testutil.SimpleDecay), hepmc.Options{MaxParticles: 1})
	require.Len(t, events, 1)
	require.Len(t, events[0].Particles, 1)
	assert.True(t, decayfilter.Evaluate(events[0], decayfilter.Rules{35: {{15, -15}}}))
}

func TestEvaluateMissingDecayVertex(t *testing.T) {
	// The H0 points at vertex 7, which the event does not contain.
	ev := testutil.ReadEvent(t, testutil.WithHeader(`E 4 0 0 0 0 0 1 1 0 0
V 1 0 0 0 0 0 0 2 0
P 1 35 0 0 0 500 490 2 0 0 7 0
P 2 -35 0 0 0 500 490 1 0 0 0 0
`))
	assert.False(t, decayfilter.Evaluate(ev, decayfilter.Rules{35: {{}}}))
}

func TestEvaluateUsesLastDecayingOccurrence(t *testing.T) {
	// The H0 is copied once: the first copy ends at vertex 2 (a recoil with no
	// taus), the second decays to taus at vertex 3.
	ev := testutil.ReadEvent(t, testutil.WithHeader(`E 5 0 0 0 0 0 1 3 0 0
V 1 0 0 0 0 0 0 1 0
P 1 35 0 0 0 500 490 44 0 0 2 0
V 2 0 0 0 0 0 0 2 0
P 2 35 0 0 0 500 490 62 0 0 3 0
P 3 21 0 0 0 10 0 1 0 0 0 0
V 3 0 0 0 0 0 0 2 0
P 4 15 0 0 0 250 1.777 1 0 0 0 0
P 5 -15 0 0 0 250 1.777 1 0 0 0 0
`))
	assert.True(t, decayfilter.Evaluate(ev, decayfilter.Rules{35: {{15, -15}}}))
	assert.False(t, decayfilter.Evaluate(ev, decayfilter.Rules{35: {{35, 21}}}))
}

// Adding an alternative to any parent never drops an event that was kept.
func TestEvaluateIsMonotonic(t *testing.T) {
	events := testutil.ReadEvents(t, testutil.WithHeader(testutil.HiggsToTaus, testutil.TopPair, testutil.SimpleDecay), hepmc.Options{})
	require.Len(t, events, 3)

	base := decayfilter.Rules{2212: {{6, -6}}}
	require.False(t, decayfilter.Evaluate(events[0], base))
	require.True(t, decayfilter.Evaluate(events[1], base))

	extras := [][]int{{35, -35}, {15, -15}, {}, {99}}
	for _, extra := range extras {
		wider := decayfilter.Rules{}
		wider.Merge(base)
		wider.Add(2212, extra...)
		for _, ev := range events {
			if decayfilter.Evaluate(ev, base) {
				assert.True(t, decayfilter.Evaluate(ev, wider), "event %d with extra %v", ev.Number, extra)
			}
		}
	}

	wider := decayfilter.Rules{2212: {{6, -6}, {35, -35}}}
	assert.True(t, decayfilter.Evaluate(events[0], wider))
}
