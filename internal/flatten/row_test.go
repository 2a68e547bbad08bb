package flatten_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/hepmctools/internal/flatten"
	"github.com/vk/hepmctools/internal/hepmc"
	"github.com/vk/hepmctools/internal/testutil"
)

func TestRowsFollowParticleOrder(t *testing.T) {
	ev := testutil.ReadEvent(t, testutil.WithHeader(testutil.HiggsToTaus))

	rows := flatten.Rows(nil, ev)
	require.Len(t, rows, len(ev.Particles))
	for i, r := range rows {
		p := ev.Particles[i]
		assert.Equal(t, i, r.Index)
		assert.Equal(t, p.Barcode, r.Barcode)
		assert.Equal(t, p.PID, r.PID)
		assert.Equal(t, p.Daughter1, r.Daughter1)
		assert.Equal(t, p.Daughter2, r.Daughter2)
		assert.Equal(t, 1, r.EventNumber)
		assert.Equal(t, 6, r.EventNumParticle)
		require.NotNil(t, r.XsectionValue)
		assert.Equal(t, 15.0, *r.XsectionValue)
		require.NotNil(t, r.PDFParton1)
		assert.Equal(t, 21, *r.PDFParton1)
	}
	assert.Equal(t, "H0", rows[2].Name)
	assert.Equal(t, "tau+", rows[5].Name)
	assert.Equal(t, 0.4, rows[4].CTau)
}

func TestRowsWithoutOptionalRecords(t *testing.T) {
	ev := testutil.ReadEvent(t, testutil.WithHeader(testutil.TopPair))
	rows := flatten.Rows(nil, ev)
	require.Len(t, rows, 4)
	assert.Nil(t, rows[0].XsectionValue)
	assert.Nil(t, rows[0].PDFQ2)

	values := rows[0].Values()
	names := flatten.ColumnNames()
	require.Len(t, values, len(names))
	for i, c := range flatten.Columns() {
		if c.Nullable {
			assert.Nil(t, values[i], c.Name)
		} else {
			assert.NotNil(t, values[i], c.Name)
		}
	}
}

func TestRowsReuseBuffer(t *testing.T) {
	events := testutil.ReadEvents(t, testutil.Listing, hepmc.Options{})
	require.Len(t, events, 2)
	buf := flatten.Rows(nil, events[0])
	first := cap(buf)
	buf = flatten.Rows(buf, events[1])
	assert.Len(t, buf, 4)
	assert.Equal(t, first, cap(buf))
	assert.Equal(t, 2, buf[0].EventNumber)
}

func TestRowsEmptyEvent(t *testing.T) {
	ev := testutil.ReadEvent(t, testutil.WithHeader("E 3 0 0 0 0 0 0 0 0 0\n"))
	assert.Empty(t, flatten.Rows(nil, ev))
}

// The JSON encoding of a Row must list its keys in Columns order, since the
// NDJSON sink relies on encoding/json and the other sinks on Values.
func TestColumnsMatchRowEncoding(t *testing.T) {
	ev := testutil.ReadEvent(t, testutil.WithHeader(testutil.HiggsToTaus))
	row := flatten.Rows(nil, ev)[0]
	data, err := json.Marshal(row)
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewReader(data))
	_, err = dec.Token()
	require.NoError(t, err)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	if diff := cmp.Diff(flatten.ColumnNames(), keys); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, row.Values(), len(keys))
}
