package hepmc

import (
	"log/slog"
	"strconv"
)

type builderState int

const (
	awaitingStart builderState = iota
	readingHeader
	readingBody
	complete
)

func (s builderState) String() string {
	switch s {
	case awaitingStart:
		return "awaiting_start"
	case readingHeader:
		return "reading_header"
	case readingBody:
		return "reading_body"
	case complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Builder accumulates the records of one event and resolves its decay links.
// It holds at most one event in flight and never hands out an event before
// the event's daughter links are resolved.
type Builder struct {
	maxParticles int
	logger       *slog.Logger

	state builderState
	ev    *Event

	current int // index of the vertex whose particles are being read
	orphans int // orphan incoming records still owed to the current vertex
	owed    int // outgoing particle records still owed to the current vertex
	pos     int // position of the next particle within the current vertex
}

// NewBuilder returns a Builder. maxParticles caps the particles retained per
// event; zero or less means unlimited.
func NewBuilder(maxParticles int, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{maxParticles: maxParticles, logger: logger}
}

// InFlight reports whether an event has been started but not completed.
func (b *Builder) InFlight() bool {
	return b.state == readingHeader || b.state == readingBody
}

// Feed consumes one record. It returns the event when the record completes
// it, and nil otherwise. Errors are fatal for the stream.
func (b *Builder) Feed(rec Record) (*Event, error) {
	if b.state == complete {
		b.reset()
	}

	switch b.state {
	case awaitingStart:
		if rec.Tag != TagEvent {
			return nil, nil
		}
		return b.start(rec)

	case readingBody:
		if b.orphans > 0 || b.owed > 0 {
			if rec.Tag != TagParticle {
				return nil, &RecordError{
					Line:   rec.Line,
					Tag:    rec.Tag,
					Reason: "expected particle record for vertex " + strconv.Itoa(b.ev.Vertices[b.current].Barcode),
					Text:   rec.Text,
				}
			}
			if b.orphans > 0 {
				if err := b.skipOrphan(rec); err != nil {
					return nil, err
				}
				return b.maybeFinish(), nil
			}
			if err := b.addParticle(rec); err != nil {
				return nil, err
			}
			return b.maybeFinish(), nil
		}

		switch rec.Tag {
		case TagEvent:
			b.logger.Warn("Event record found before the previous event was complete; discarding it.",
				"event", b.ev.Number, "vertices_read", len(b.ev.Vertices), "vertices_declared", b.ev.NumVertices, "line", rec.Line)
			b.reset()
			return b.start(rec)
		case TagEndListing:
			b.logger.Warn("Listing ended inside an event; discarding it.",
				"event", b.ev.Number, "vertices_read", len(b.ev.Vertices), "vertices_declared", b.ev.NumVertices)
			b.reset()
			return nil, nil
		case TagCrossSection:
			return nil, b.readCrossSection(rec)
		case TagPDF:
			return nil, b.readPDF(rec)
		case TagVertex:
			if err := b.addVertex(rec); err != nil {
				return nil, err
			}
			return b.maybeFinish(), nil
		default:
			return nil, nil
		}
	}
	return nil, nil
}

func (b *Builder) reset() {
	b.state = awaitingStart
	b.ev = nil
	b.current = 0
	b.orphans = 0
	b.owed = 0
	b.pos = 0
}

func (b *Builder) start(rec Record) (*Event, error) {
	b.state = readingHeader
	f := fieldReader{rec: rec}
	ev := &Event{
		Number:       f.int(eNumber),
		MPI:          f.int(eMPI),
		Scale:        f.float(eScale),
		AlphaQCD:     f.float(eAlphaQCD),
		AlphaQED:     f.float(eAlphaQED),
		ProcessID:    f.int(eProcessID),
		SignalVertex: f.int(eSignalVertex),
		NumVertices:  f.int(eNumVertices),
		Beam1:        f.int(eBeam1),
		Beam2:        f.int(eBeam2),
		index:        make(map[int]int),
	}
	if f.err != nil {
		b.reset()
		return nil, f.err
	}
	if ev.NumVertices > 0 {
		ev.Vertices = make([]Vertex, 0, ev.NumVertices)
	}
	b.ev = ev
	b.state = readingBody
	b.logger.Debug("Event started.", "event", ev.Number, "vertices", ev.NumVertices, "line", rec.Line)
	return b.maybeFinish(), nil
}

func (b *Builder) readCrossSection(rec Record) error {
	f := fieldReader{rec: rec}
	xs := &CrossSection{Value: f.float(0), Error: f.float(1)}
	if f.err != nil {
		return f.err
	}
	if b.ev.CrossSection != nil {
		b.logger.Debug("Duplicate cross-section record; keeping the last one.", "event", b.ev.Number, "line", rec.Line)
	}
	b.ev.CrossSection = xs
	b.logger.Debug("Cross section read.", "event", b.ev.Number, "value_pb", xs.Value, "error_pb", xs.Error)
	return nil
}

func (b *Builder) readPDF(rec Record) error {
	f := fieldReader{rec: rec}
	pdf := &PDFInfo{
		Parton1: f.int(0),
		Parton2: f.int(1),
		X1:      f.float(2),
		X2:      f.float(3),
		Q2:      f.float(4),
		PDF1:    f.float(5),
		PDF2:    f.float(6),
		ID1:     f.int(7),
		ID2:     f.int(8),
	}
	if f.err != nil {
		return f.err
	}
	b.ev.PDF = pdf
	b.logger.Debug("PDF info read.", "event", b.ev.Number)
	return nil
}

func (b *Builder) addVertex(rec Record) error {
	f := fieldReader{rec: rec}
	v := Vertex{
		Barcode:     f.int(vBarcode),
		X:           f.float(vX),
		Y:           f.float(vY),
		Z:           f.float(vZ),
		CTau:        f.float(vCTau),
		OrphansIn:   f.int(vNumOrphanIn),
		ExpectedOut: f.int(vNumOut),
		Slot:        [2]int{NoDaughter, NoDaughter},
	}
	if f.err != nil {
		return f.err
	}
	if v.ExpectedOut < 0 {
		return &RecordError{Line: rec.Line, Tag: rec.Tag, Reason: "negative outgoing particle count", Text: rec.Text}
	}
	if v.OrphansIn < 0 {
		return &RecordError{Line: rec.Line, Tag: rec.Tag, Reason: "negative orphan particle count", Text: rec.Text}
	}
	if v.ExpectedOut > 0 {
		v.Outgoing = make([]int, 0, v.ExpectedOut)
		v.Products = make([]Product, 0, v.ExpectedOut)
	}

	if i, dup := b.ev.index[v.Barcode]; dup {
		dropped := b.ev.Vertices[i].Outgoing
		b.logger.Warn("Duplicate vertex barcode; the later vertex and its particles replace the earlier ones.",
			"event", b.ev.Number, "vertex", v.Barcode, "particles_removed", len(dropped), "line", rec.Line)
		b.removeParticles(dropped)
		b.ev.Vertices[i] = v
		b.current = i
	} else {
		b.ev.index[v.Barcode] = len(b.ev.Vertices)
		b.current = len(b.ev.Vertices)
		b.ev.Vertices = append(b.ev.Vertices, v)
	}
	b.orphans = v.OrphansIn
	b.owed = v.ExpectedOut
	b.pos = 0

	b.logger.Debug("Vertex read.", "event", b.ev.Number, "vertex", v.Barcode, "orphans_in", v.OrphansIn, "outgoing", v.ExpectedOut)
	return nil
}

// removeParticles deletes the particles at the ascending indices idx and
// renumbers the indices held by every vertex.
func (b *Builder) removeParticles(idx []int) {
	if len(idx) == 0 {
		return
	}
	ev := b.ev
	remap := make([]int, len(ev.Particles))
	kept := ev.Particles[:0]
	next := 0
	for i, p := range ev.Particles {
		if next < len(idx) && idx[next] == i {
			remap[i] = NoDaughter
			next++
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, p)
	}
	ev.Particles = kept

	for vi := range ev.Vertices {
		v := &ev.Vertices[vi]
		out := v.Outgoing[:0]
		for _, i := range v.Outgoing {
			if remap[i] != NoDaughter {
				out = append(out, remap[i])
			}
		}
		v.Outgoing = out
		for s, i := range v.Slot {
			if i != NoDaughter {
				v.Slot[s] = remap[i]
			}
		}
	}
}

// skipOrphan consumes an orphan incoming particle record. Orphans have no
// production vertex in the event, so they take no part in the decay graph.
func (b *Builder) skipOrphan(rec Record) error {
	f := fieldReader{rec: rec}
	barcode, pid := f.int(pBarcode), f.int(pPID)
	if f.err != nil {
		return f.err
	}
	b.orphans--
	b.logger.Debug("Orphan incoming particle skipped.", "event", b.ev.Number, "vertex", b.ev.Vertices[b.current].Barcode, "particle", barcode, "pid", pid)
	return nil
}

func (b *Builder) addParticle(rec Record) error {
	f := fieldReader{rec: rec}
	v := &b.ev.Vertices[b.current]
	p := Particle{
		Barcode:          f.int(pBarcode),
		PID:              f.int(pPID),
		Px:               f.float(pPx),
		Py:               f.float(pPy),
		Pz:               f.float(pPz),
		Energy:           f.float(pEnergy),
		Mass:             f.float(pMass),
		Status:           f.int(pStatus),
		EndVertex:        f.int(pEndVertex),
		X:                v.X,
		Y:                v.Y,
		Z:                v.Z,
		CTau:             v.CTau,
		ProductionVertex: v.Barcode,
		Daughter1:        NoDaughter,
		Daughter2:        NoDaughter,
	}
	if f.err != nil {
		return f.err
	}

	pos := b.pos
	b.pos++
	b.owed--
	v.Products = append(v.Products, Product{PID: p.PID, EndVertex: p.EndVertex})

	if b.maxParticles > 0 && len(b.ev.Particles) >= b.maxParticles {
		b.ev.DroppedParticles++
		return nil
	}
	idx := len(b.ev.Particles)
	b.ev.Particles = append(b.ev.Particles, p)
	v.Outgoing = append(v.Outgoing, idx)
	if pos < len(v.Slot) {
		v.Slot[pos] = idx
	}
	return nil
}

// maybeFinish completes the event once every declared vertex has been read
// and the last vertex has all its particles.
func (b *Builder) maybeFinish() *Event {
	if b.orphans > 0 || b.owed > 0 || len(b.ev.Vertices) < b.ev.NumVertices {
		return nil
	}
	ev := b.ev
	for i := range ev.Particles {
		p := &ev.Particles[i]
		if end, ok := ev.Vertex(p.EndVertex); ok {
			p.Daughter1 = end.Slot[0]
			p.Daughter2 = end.Slot[1]
		}
	}
	if ev.DroppedParticles > 0 {
		b.logger.Warn("Particle capacity exceeded; extra particles dropped.",
			"event", ev.Number, "max_particles", b.maxParticles, "dropped", ev.DroppedParticles)
	}
	b.logger.Debug("Event complete.", "event", ev.Number, "vertices", len(ev.Vertices), "particles", len(ev.Particles))

	b.state = complete
	b.ev = nil
	return ev
}
