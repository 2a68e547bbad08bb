// Package flatten turns decoded events into one tabular row per particle.
//
// Every row carries the particle's own columns followed by the scalar
// metadata of its event, so rows can be written to flat formats without any
// join. Optional event records (cross section, PDF info) are nil when absent.
package flatten

import (
	"github.com/vk/hepmctools/internal/hepmc"
	"github.com/vk/hepmctools/internal/pdg"
)

// Kind is the storage type of a column.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

// Column describes one field of a Row.
type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
}

// Row is one flattened particle. The JSON field order matches Columns.
type Row struct {
	EventNumber      int     `json:"Event_number"`
	EventMPI         int     `json:"Event_numberMP"`
	EventScale       float64 `json:"Event_scale"`
	EventAlphaQCD    float64 `json:"Event_alphaQCD"`
	EventAlphaQED    float64 `json:"Event_alphaQED"`
	EventProcessID   int     `json:"Event_processID"`
	EventSignalVtx   int     `json:"Event_barcodeSPV"`
	EventNumVertices int     `json:"Event_numberV"`
	EventBeam1       int     `json:"Event_barcodeBP1"`
	EventBeam2       int     `json:"Event_barcodeBP2"`
	EventNumParticle int     `json:"Event_numberP"`

	XsectionValue *float64 `json:"Xsection_value"`
	XsectionError *float64 `json:"Xsection_error"`

	PDFParton1 *int     `json:"PDF_parton1"`
	PDFParton2 *int     `json:"PDF_parton2"`
	PDFX1      *float64 `json:"PDF_x1"`
	PDFX2      *float64 `json:"PDF_x2"`
	PDFQ2      *float64 `json:"PDF_Q2"`
	PDFX1f     *float64 `json:"PDF_x1f"`
	PDFX2f     *float64 `json:"PDF_x2f"`
	PDFID1     *int     `json:"PDF_id1"`
	PDFID2     *int     `json:"PDF_id2"`

	Index            int     `json:"Particle_index"`
	Barcode          int     `json:"Particle_barcode"`
	PID              int     `json:"Particle_pid"`
	Name             string  `json:"Particle_name"`
	Px               float64 `json:"Particle_px"`
	Py               float64 `json:"Particle_py"`
	Pz               float64 `json:"Particle_pz"`
	Energy           float64 `json:"Particle_energy"`
	Mass             float64 `json:"Particle_mass"`
	Status           int     `json:"Particle_status"`
	X                float64 `json:"Particle_x"`
	Y                float64 `json:"Particle_y"`
	Z                float64 `json:"Particle_z"`
	CTau             float64 `json:"Particle_ctau"`
	ProductionVertex int     `json:"Particle_productionVertex"`
	EndVertex        int     `json:"Particle_endVertex"`
	Daughter1        int     `json:"Particle_d1"`
	Daughter2        int     `json:"Particle_d2"`
}

var columns = []Column{
	{Name: "Event_number", Kind: KindInt},
	{Name: "Event_numberMP", Kind: KindInt},
	{Name: "Event_scale", Kind: KindFloat},
	{Name: "Event_alphaQCD", Kind: KindFloat},
	{Name: "Event_alphaQED", Kind: KindFloat},
	{Name: "Event_processID", Kind: KindInt},
	{Name: "Event_barcodeSPV", Kind: KindInt},
	{Name: "Event_numberV", Kind: KindInt},
	{Name: "Event_barcodeBP1", Kind: KindInt},
	{Name: "Event_barcodeBP2", Kind: KindInt},
	{Name: "Event_numberP", Kind: KindInt},
	{Name: "Xsection_value", Kind: KindFloat, Nullable: true},
	{Name: "Xsection_error", Kind: KindFloat, Nullable: true},
	{Name: "PDF_parton1", Kind: KindInt, Nullable: true},
	{Name: "PDF_parton2", Kind: KindInt, Nullable: true},
	{Name: "PDF_x1", Kind: KindFloat, Nullable: true},
	{Name: "PDF_x2", Kind: KindFloat, Nullable: true},
	{Name: "PDF_Q2", Kind: KindFloat, Nullable: true},
	{Name: "PDF_x1f", Kind: KindFloat, Nullable: true},
	{Name: "PDF_x2f", Kind: KindFloat, Nullable: true},
	{Name: "PDF_id1", Kind: KindInt, Nullable: true},
	{Name: "PDF_id2", Kind: KindInt, Nullable: true},
	{Name: "Particle_index", Kind: KindInt},
	{Name: "Particle_barcode", Kind: KindInt},
	{Name: "Particle_pid", Kind: KindInt},
	{Name: "Particle_name", Kind: KindString},
	{Name: "Particle_px", Kind: KindFloat},
	{Name: "Particle_py", Kind: KindFloat},
	{Name: "Particle_pz", Kind: KindFloat},
	{Name: "Particle_energy", Kind: KindFloat},
	{Name: "Particle_mass", Kind: KindFloat},
	{Name: "Particle_status", Kind: KindInt},
	{Name: "Particle_x", Kind: KindFloat},
	{Name: "Particle_y", Kind: KindFloat},
	{Name: "Particle_z", Kind: KindFloat},
	{Name: "Particle_ctau", Kind: KindFloat},
	{Name: "Particle_productionVertex", Kind: KindInt},
	{Name: "Particle_endVertex", Kind: KindInt},
	{Name: "Particle_d1", Kind: KindInt},
	{Name: "Particle_d2", Kind: KindInt},
}

// Columns returns the row schema in emission order. The slice is a copy.
func Columns() []Column {
	return append([]Column(nil), columns...)
}

// ColumnNames returns just the names of Columns.
func ColumnNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// Values returns the row's values in column order. Absent optional values
// are nil; the rest are int, float64 or string.
func (r *Row) Values() []any {
	return []any{
		r.EventNumber, r.EventMPI, r.EventScale, r.EventAlphaQCD, r.EventAlphaQED,
		r.EventProcessID, r.EventSignalVtx, r.EventNumVertices, r.EventBeam1, r.EventBeam2,
		r.EventNumParticle,
		deref(r.XsectionValue), deref(r.XsectionError),
		deref(r.PDFParton1), deref(r.PDFParton2), deref(r.PDFX1), deref(r.PDFX2),
		deref(r.PDFQ2), deref(r.PDFX1f), deref(r.PDFX2f), deref(r.PDFID1), deref(r.PDFID2),
		r.Index, r.Barcode, r.PID, r.Name,
		r.Px, r.Py, r.Pz, r.Energy, r.Mass, r.Status,
		r.X, r.Y, r.Z, r.CTau,
		r.ProductionVertex, r.EndVertex, r.Daughter1, r.Daughter2,
	}
}

func deref[T int | float64](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// Rows flattens ev into dst, reusing its capacity, and returns the result.
// Rows follow particle order.
func Rows(dst []Row, ev *hepmc.Event) []Row {
	dst = dst[:0]
	base := Row{
		EventNumber:      ev.Number,
		EventMPI:         ev.MPI,
		EventScale:       ev.Scale,
		EventAlphaQCD:    ev.AlphaQCD,
		EventAlphaQED:    ev.AlphaQED,
		EventProcessID:   ev.ProcessID,
		EventSignalVtx:   ev.SignalVertex,
		EventNumVertices: ev.NumVertices,
		EventBeam1:       ev.Beam1,
		EventBeam2:       ev.Beam2,
		EventNumParticle: len(ev.Particles),
	}
	if xs := ev.CrossSection; xs != nil {
		base.XsectionValue = &xs.Value
		base.XsectionError = &xs.Error
	}
	if pdf := ev.PDF; pdf != nil {
		base.PDFParton1 = &pdf.Parton1
		base.PDFParton2 = &pdf.Parton2
		base.PDFX1 = &pdf.X1
		base.PDFX2 = &pdf.X2
		base.PDFQ2 = &pdf.Q2
		base.PDFX1f = &pdf.PDF1
		base.PDFX2f = &pdf.PDF2
		base.PDFID1 = &pdf.ID1
		base.PDFID2 = &pdf.ID2
	}

	for i, p := range ev.Particles {
		r := base
		r.Index = i
		r.Barcode = p.Barcode
		r.PID = p.PID
		r.Name = pdg.Name(p.PID)
		r.Px, r.Py, r.Pz, r.Energy = p.Px, p.Py, p.Pz, p.Energy
		r.Mass = p.Mass
		r.Status = p.Status
		r.X, r.Y, r.Z, r.CTau = p.X, p.Y, p.Z, p.CTau
		r.ProductionVertex = p.ProductionVertex
		r.EndVertex = p.EndVertex
		r.Daughter1 = p.Daughter1
		r.Daughter2 = p.Daughter2
		dst = append(dst, r)
	}
	return dst
}
