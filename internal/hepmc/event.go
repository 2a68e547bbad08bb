package hepmc

import "math"

// NoDaughter marks an absent daughter index.
const NoDaughter = -1

// Particle is one particle record of an event.
type Particle struct {
	Barcode int
	PID     int
	Px      float64
	Py      float64
	Pz      float64
	Energy  float64
	Mass    float64
	Status  int

	// Creation position, inherited from the production vertex.
	X    float64
	Y    float64
	Z    float64
	CTau float64

	ProductionVertex int // barcode of the vertex the particle is outgoing from
	EndVertex        int // barcode of the vertex the particle is incoming to, 0 if none

	// Indices into Event.Particles of the first two outgoing particles of
	// EndVertex, or NoDaughter.
	Daughter1 int
	Daughter2 int
}

// Pt returns the transverse momentum.
func (p *Particle) Pt() float64 { return math.Hypot(p.Px, p.Py) }

// Product is the pid and end vertex of one outgoing particle record of a
// vertex. Products are kept for every record, including those dropped by
// the particle capacity.
type Product struct {
	PID       int
	EndVertex int
}

// Vertex is one vertex record of an event.
type Vertex struct {
	Barcode     int
	X           float64
	Y           float64
	Z           float64
	CTau        float64
	ExpectedOut int
	// OrphansIn is the number of incoming particles without a production
	// vertex listed ahead of the outgoing ones. They are read but not kept.
	OrphansIn int

	Outgoing []int // indices of retained outgoing particles, in record order
	Products []Product

	// Slot holds the indices of the first and second outgoing particles,
	// NoDaughter when absent or dropped.
	Slot [2]int
}

// CrossSection is the optional C record of an event.
type CrossSection struct {
	Value float64
	Error float64
}

// PDFInfo is the optional F record of an event.
type PDFInfo struct {
	Parton1 int
	Parton2 int
	X1      float64
	X2      float64
	Q2      float64
	PDF1    float64 // x1*f(x1)
	PDF2    float64 // x2*f(x2)
	ID1     int
	ID2     int
}

// Event is a fully reconstructed event.
type Event struct {
	Number       int
	MPI          int
	Scale        float64
	AlphaQCD     float64
	AlphaQED     float64
	ProcessID    int
	SignalVertex int
	NumVertices  int
	Beam1        int
	Beam2        int

	CrossSection *CrossSection
	PDF          *PDFInfo

	Particles []Particle
	Vertices  []Vertex

	// DroppedParticles counts particle records beyond the configured
	// capacity. They are absent from Particles but present in the Products
	// of their vertex.
	DroppedParticles int

	// Raw holds the verbatim source bytes of the event block, from its E
	// record through its last record, when the stream keeps raw bytes.
	Raw []byte

	index map[int]int // vertex barcode -> index into Vertices
}

// Vertex returns the vertex with the given barcode.
func (e *Event) Vertex(barcode int) (*Vertex, bool) {
	i, ok := e.index[barcode]
	if !ok {
		return nil, false
	}
	return &e.Vertices[i], true
}
