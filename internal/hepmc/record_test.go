package hepmc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name   string
		line   string
		tag    Tag
		fields []string
	}{
		{name: "version", line: "HepMC::Version 2.06.09\n", tag: TagVersion, fields: []string{"2.06.09"}},
		{name: "event", line: "E 1 0 1e3\n", tag: TagEvent, fields: []string{"1", "0", "1e3"}},
		{name: "crlf", line: "V -1 0 0\r\n", tag: TagVertex, fields: []string{"-1", "0", "0"}},
		{name: "extra whitespace", line: "  P\t1   22  \n", tag: TagParticle, fields: []string{"1", "22"}},
		{name: "blank", line: "   \n", tag: TagBlank, fields: nil},
		{name: "end listing", line: "HepMC::IO_GenEvent-END_EVENT_LISTING\n", tag: TagEndListing, fields: []string{}},
		{name: "unknown tag kept", line: "U GEV MM\n", tag: Tag("U"), fields: []string{"GEV", "MM"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Tokenize(tc.line)
			assert.Equal(t, tc.tag, rec.Tag)
			if len(tc.fields) == 0 {
				assert.Empty(t, rec.Fields)
			} else {
				assert.Equal(t, tc.fields, rec.Fields)
			}
		})
	}
}

func TestFieldReaderKeepsFirstError(t *testing.T) {
	rec := Tokenize("V -1 x 0.5")
	rec.Line = 7
	f := fieldReader{rec: rec}

	assert.Equal(t, -1, f.int(0))
	assert.Equal(t, 0, f.int(1))
	assert.Equal(t, 0.5, f.float(2))
	f.float(9)

	require.Error(t, f.err)
	assert.True(t, errors.Is(f.err, ErrMalformedRecord))
	var recErr *RecordError
	require.ErrorAs(t, f.err, &recErr)
	assert.Equal(t, 7, recErr.Line)
	assert.Equal(t, TagVertex, recErr.Tag)
	assert.Contains(t, recErr.Reason, "field 2")
	assert.Contains(t, recErr.Error(), "not an integer")
}
