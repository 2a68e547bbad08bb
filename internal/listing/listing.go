// Package listing prints decoded events as human-readable particle tables.
package listing

import (
	"fmt"
	"io"

	"github.com/vk/hepmctools/internal/hepmc"
	"github.com/vk/hepmctools/internal/pdg"
)

// Print writes one header line for ev followed by one line per particle:
// index, name, pid, barcode, status, pt, (E, px, py, pz) and the daughter
// indices.
func Print(w io.Writer, ev *hepmc.Event) error {
	if _, err := fmt.Fprintf(w, "event %d: %d vertices, %d particles", ev.Number, len(ev.Vertices), len(ev.Particles)); err != nil {
		return err
	}
	if ev.DroppedParticles > 0 {
		if _, err := fmt.Fprintf(w, " (%d dropped)", ev.DroppedParticles); err != nil {
			return err
		}
	}
	if xs := ev.CrossSection; xs != nil {
		if _, err := fmt.Fprintf(w, ", cross section %.4g +/- %.2g pb", xs.Value, xs.Error); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for i := range ev.Particles {
		if _, err := fmt.Fprintf(w, "%4d\t%s\n", i, Line(&ev.Particles[i])); err != nil {
			return err
		}
	}
	return nil
}

// Line formats a single particle without its index.
func Line(p *hepmc.Particle) string {
	return fmt.Sprintf("%-14s %7d %4d %3d %7.1f (%7.1f, %7.1f, %7.1f, %7.1f) <%4d, %4d>",
		pdg.Name(p.PID), p.PID, p.Barcode, p.Status, p.Pt(),
		p.Energy, p.Px, p.Py, p.Pz,
		p.Daughter1, p.Daughter2)
}
