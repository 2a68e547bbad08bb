// Package decayfilter selects whole events by their decay chains.
//
// A rule set maps a required parent PDG id to the daughter sets it may decay
// into. An event is kept when every required parent is present and decays to
// a superset of at least one of its accepted daughter sets:
//
//	rules, _ := decayfilter.ParseRules([]string{"35", "15", "-15,", "35", "6", "-6"})
//	keep := decayfilter.Evaluate(ev, rules)
//
// Kept events are re-emitted byte for byte by Writer, which needs events
// read with hepmc.Options.KeepRaw.
package decayfilter
