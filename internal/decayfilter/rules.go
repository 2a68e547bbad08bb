package decayfilter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidRule is returned for a rule that cannot be parsed.
var ErrInvalidRule = errors.New("invalid decay rule")

// Rules maps a parent PDG id to its accepted daughter sets. An empty daughter
// set accepts any decay of the parent.
type Rules map[int][][]int

// Add appends one accepted daughter set for parent.
func (r Rules) Add(parent int, daughters ...int) {
	d := make([]int, len(daughters))
	copy(d, daughters)
	r[parent] = append(r[parent], d)
}

// Merge adds every alternative of other to r.
func (r Rules) Merge(other Rules) {
	for parent, alts := range other {
		for _, d := range alts {
			r.Add(parent, d...)
		}
	}
}

// Parents returns the required parent ids in ascending order.
func (r Rules) Parents() []int {
	parents := make([]int, 0, len(r))
	for p := range r {
		parents = append(parents, p)
	}
	slices.Sort(parents)
	return parents
}

// String renders the rules in command-line syntax, parents in ascending
// order.
func (r Rules) String() string {
	var groups []string
	for _, p := range r.Parents() {
		for _, d := range r[p] {
			parts := []string{strconv.Itoa(p)}
			for _, id := range d {
				parts = append(parts, strconv.Itoa(id))
			}
			groups = append(groups, strings.Join(parts, " "))
		}
	}
	return strings.Join(groups, ", ")
}

// ParseRules parses command-line rule syntax: the arguments are joined and
// split on commas into groups of the form "parent daughter daughter ...".
// Repeated parents accumulate alternatives.
//
//	35 15 -15, 35 6 -6
func ParseRules(args []string) (Rules, error) {
	rules := Rules{}
	joined := strings.Join(args, " ")
	if strings.TrimSpace(joined) == "" {
		return rules, nil
	}
	for i, group := range strings.Split(joined, ",") {
		fields := strings.Fields(group)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: group %d is empty", ErrInvalidRule, i+1)
		}
		ids := make([]int, len(fields))
		for j, f := range fields {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: group %d: %q is not a particle id", ErrInvalidRule, i+1, f)
			}
			ids[j] = id
		}
		rules.Add(ids[0], ids[1:]...)
	}
	return rules, nil
}
