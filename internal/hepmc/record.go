package hepmc

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is the leading token of a HepMC2 line.
type Tag string

const (
	TagBlank        Tag = ""
	TagVersion      Tag = "HepMC::Version"
	TagStartListing Tag = "HepMC::IO_GenEvent-START_EVENT_LISTING"
	TagEndListing   Tag = "HepMC::IO_GenEvent-END_EVENT_LISTING"
	TagEvent        Tag = "E"
	TagVertex       Tag = "V"
	TagParticle     Tag = "P"
	TagCrossSection Tag = "C"
	TagPDF          Tag = "F"
)

// Record is one tokenized input line.
type Record struct {
	Tag    Tag
	Fields []string // whitespace-separated tokens after the tag
	Line   int
	Text   string
}

// Tokenize splits a raw line into its tag and fields. Lines with no tokens
// yield TagBlank. Unknown tags (weight names, units, heavy-ion records) are
// returned as-is and ignored by the Builder.
func Tokenize(line string) Record {
	text := strings.TrimRight(line, "\r\n")
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return Record{Tag: TagBlank, Text: text}
	}
	return Record{Tag: Tag(tokens[0]), Fields: tokens[1:], Text: text}
}

// fieldReader decodes numeric fields of a record, keeping the first error
// so that a block of fields can be read before checking.
type fieldReader struct {
	rec Record
	err error
}

func (f *fieldReader) fail(i int, format string, args ...any) {
	if f.err != nil {
		return
	}
	f.err = &RecordError{
		Line:   f.rec.Line,
		Tag:    f.rec.Tag,
		Reason: fmt.Sprintf("field %d: %s", i+1, fmt.Sprintf(format, args...)),
		Text:   f.rec.Text,
	}
}

func (f *fieldReader) token(i int) (string, bool) {
	if i >= len(f.rec.Fields) {
		f.fail(i, "missing (record has %d fields)", len(f.rec.Fields))
		return "", false
	}
	return f.rec.Fields[i], true
}

func (f *fieldReader) int(i int) int {
	tok, ok := f.token(i)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		f.fail(i, "not an integer: %q", tok)
		return 0
	}
	return v
}

func (f *fieldReader) float(i int) float64 {
	tok, ok := f.token(i)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		f.fail(i, "not a number: %q", tok)
		return 0
	}
	return v
}

// Field positions, counted after the tag.
const (
	eNumber = iota
	eMPI
	eScale
	eAlphaQCD
	eAlphaQED
	eProcessID
	eSignalVertex
	eNumVertices
	eBeam1
	eBeam2
)

const (
	vBarcode = iota
	vID
	vX
	vY
	vZ
	vCTau
	vNumOrphanIn
	vNumOut
)

const (
	pBarcode = iota
	pPID
	pPx
	pPy
	pPz
	pEnergy
	pMass
	pStatus
	pTheta
	pPhi
	pEndVertex
)
