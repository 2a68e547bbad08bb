// Package hepmc decodes HepMC2 text event listings (IO_GenEvent) and rebuilds
// the decay graph of each event.
//
// A listing is read one event at a time. The Stream cursor owns the input
// handle and the cached header; it feeds tokenized records into a Builder,
// which accumulates a single event's vertices and particles and resolves
// parent to daughter links once the declared number of vertices has been
// read. Only complete events ever leave the package.
//
// Decay linkage in HepMC2 is indirect: a particle record names the vertex
// where it ends (is incoming), and that vertex's outgoing particles are its
// daughters. Vertices and particles are therefore kept in per-event arenas
// indexed by position, with a barcode to vertex index map built for the
// lifetime of one event.
//
// Typical use:
//
//	s, err := hepmc.Open("events.hepmc", hepmc.Options{Logger: logger})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	for {
//		ev, err := s.Next()
//		if err != nil {
//			return err
//		}
//		if ev == nil {
//			break // end of stream
//		}
//		// use ev
//	}
package hepmc
