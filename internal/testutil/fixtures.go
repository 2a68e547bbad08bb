package testutil

// Header is the two-line header written by HepMC2 IO_GenEvent.
const Header = "HepMC::Version 2.06.09\nHepMC::IO_GenEvent-START_EVENT_LISTING\n"

// Footer closes an IO_GenEvent listing.
const Footer = "HepMC::IO_GenEvent-END_EVENT_LISTING\n"

// HiggsToTaus is a four-vertex event: two beam protons meet at vertex -3,
// which produces H0 (35) and its antiparticle; the H0 decays to tau-/tau+
// at vertex -4.
const HiggsToTaus = `E 1 0 1.0000000000000000e+03 1.1800000000000000e-01 7.8125000000000000e-03 81 -3 4 1 2 0 1 1.0000000000000000e+00
N 1 "0"
U GEV MM
C 1.5000000000000000e+01 2.0000000000000001e-01
F 21 21 1.0000000000000001e-01 2.0000000000000001e-01 1.0000000000000000e+06 1.5000000000000000e+00 2.5000000000000000e+00 0 0
V -1 0 0 0 0 0 0 1 0
P 1 2212 0 0 6.5000000000000000e+03 6.5000000000000000e+03 9.3799999999999994e-01 4 0 0 -3 0
V -2 0 0 0 0 0 0 1 0
P 2 2212 0 0 -6.5000000000000000e+03 6.5000000000000000e+03 9.3799999999999994e-01 4 0 0 -3 0
V -3 0 0 0 0 0 0 2 0
P 3 35 3.0000000000000000e+01 4.0000000000000000e+01 5.0000000000000000e+01 5.0000000000000000e+02 4.9000000000000000e+02 22 0 0 -4 0
P 4 -35 -3.0000000000000000e+01 -4.0000000000000000e+01 -5.0000000000000000e+01 5.0000000000000000e+02 4.9000000000000000e+02 1 0 0 0 0
V -4 0 1.0000000000000001e-01 2.0000000000000001e-01 2.9999999999999999e-01 4.0000000000000002e-01 0 2 0
P 5 15 1.5000000000000000e+01 2.0000000000000000e+01 2.5000000000000000e+01 2.5000000000000000e+02 1.7769999999999999e+00 1 0 0 0 0
P 6 -15 1.5000000000000000e+01 2.0000000000000000e+01 2.5000000000000000e+01 2.5000000000000000e+02 1.7769999999999999e+00 1 0 0 0 0
`

// TopPair is a three-vertex event with a top/antitop pair and no H0.
const TopPair = `E 2 1 9.0000000000000000e+02 1.1800000000000000e-01 7.8125000000000000e-03 81 -3 3 1 2 0 0
V -1 0 0 0 0 0 0 1 0
P 1 2212 0 0 6.5000000000000000e+03 6.5000000000000000e+03 9.3799999999999994e-01 4 0 0 -3 0
V -2 0 0 0 0 0 0 1 0
P 2 2212 0 0 -6.5000000000000000e+03 6.5000000000000000e+03 9.3799999999999994e-01 4 0 0 -3 0
V -3 0 0 0 0 0 0 2 0
P 3 6 1.0000000000000000e+02 0 0 3.0000000000000000e+02 1.7250000000000000e+02 1 0 0 0 0
P 4 -6 -1.0000000000000000e+02 0 0 3.0000000000000000e+02 1.7250000000000000e+02 1 0 0 0 0
`

// SimpleDecay is a two-vertex event: vertex 1 produces pids 35 and -35, and
// the 35 decays to 15 and -15 at vertex 2.
const SimpleDecay = `E 10 0 0 0 0 0 1 2 0 0 0 0
V 1 0 0 0 0 0 0 2 0
P 1 35 0 0 0 500 490 2 0 0 2 0
P 2 -35 0 0 0 500 490 1 0 0 0 0
V 2 0 0 0 0 0 0 2 0
P 3 15 0 0 0 250 1.777 1 0 0 0 0
P 4 -15 0 0 0 250 1.777 1 0 0 0 0
`

// OrphanIncoming is a two-vertex event whose vertices list orphan incoming
// particles ahead of their outgoing ones: a beam proton into -1 and a gluon
// into the final vertex -2, where the 25 decays to 5 and -5.
const OrphanIncoming = `E 4 0 0 0 0 0 0 2 0 0
V -1 0 0 0 0 0 1 1 0
P 1 2212 0 0 7000 7000 0.938 4 0 0 -1 0
P 2 25 0 0 0 125 125 2 0 0 -2 0
V -2 0 0 0 0 0 1 2 0
P 3 21 0 0 10 10 0 4 0 0 -2 0
P 4 5 0 0 60 62.5 4.8 1 0 0 0 0
P 5 -5 0 0 -60 62.5 4.8 1 0 0 0 0
`

// Listing is a complete listing holding HiggsToTaus then TopPair.
const Listing = Header + HiggsToTaus + TopPair + Footer

// WithHeader wraps event blocks into a listing without a footer.
func WithHeader(events ...string) string {
	s := Header
	for _, e := range events {
		s += e
	}
	return s
}
