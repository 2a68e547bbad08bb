package decayfilter

import "github.com/vk/hepmctools/internal/hepmc"

// Evaluate reports whether ev satisfies rules. Every required parent must
// decay in the event, and its daughter ids must include all ids of at least
// one accepted set. When a parent id occurs more than once, its last
// occurrence with a decay vertex is the one tested.
//
// Evaluate reads Vertex.Products, so particles dropped by a capacity limit
// still take part. An empty rule set keeps every event.
func Evaluate(ev *hepmc.Event, rules Rules) bool {
	if len(rules) == 0 {
		return true
	}

	decays := make(map[int]int, len(rules)) // parent pid -> end vertex barcode
	for i := range ev.Vertices {
		for _, p := range ev.Vertices[i].Products {
			if _, wanted := rules[p.PID]; wanted && p.EndVertex != 0 {
				decays[p.PID] = p.EndVertex
			}
		}
	}

	for _, parent := range rules.Parents() {
		end, ok := decays[parent]
		if !ok {
			return false
		}
		v, ok := ev.Vertex(end)
		if !ok {
			return false
		}
		if !matchesAny(v.Products, rules[parent]) {
			return false
		}
	}
	return true
}

func matchesAny(products []hepmc.Product, alternatives [][]int) bool {
	present := make(map[int]struct{}, len(products))
	for _, p := range products {
		present[p.PID] = struct{}{}
	}
	for _, want := range alternatives {
		if containsAll(present, want) {
			return true
		}
	}
	return false
}

func containsAll(present map[int]struct{}, want []int) bool {
	for _, id := range want {
		if _, ok := present[id]; !ok {
			return false
		}
	}
	return true
}
