package decayfilter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/hepmctools/internal/ctxlog"
	"github.com/vk/hepmctools/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// rulesFile is the top-level schema of a rules file:
//
//	decay "35" {
//	  daughters = [[15, -15], [6, -6]]
//	}
type rulesFile struct {
	Decays []*decayBlock `hcl:"decay,block"`
}

type decayBlock struct {
	Parent    string         `hcl:"parent,label"`
	Daughters hcl.Expression `hcl:"daughters"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// LoadRules reads decay rules from path. A directory contributes every
// .hcl file below it, merged in lexical order.
func LoadRules(ctx context.Context, path string) (Rules, error) {
	files, err := fsutil.FindFiles(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find rules files in %s: %w", path, err)
	}
	rules := Rules{}
	for _, f := range files {
		r, err := LoadRulesFile(ctx, f)
		if err != nil {
			return nil, err
		}
		rules.Merge(r)
	}
	return rules, nil
}

// LoadRulesFile reads decay rules from an HCL file. Blocks naming the same
// parent accumulate alternatives. A daughters value may be a list of sets or
// a single flat set.
func LoadRulesFile(ctx context.Context, path string) (Rules, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, diags)
	}
	var root rulesFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode rules file %s: %w", path, diags)
	}

	rules := Rules{}
	for _, b := range root.Decays {
		parent, err := strconv.Atoi(b.Parent)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: parent label %q is not a particle id", ErrInvalidRule, b.DeclRange, b.Parent)
		}
		val, diags := b.Daughters.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, b.DeclRange, diags)
		}
		sets, err := daughterSets(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: daughters: %w", ErrInvalidRule, b.DeclRange, err)
		}
		for _, d := range sets {
			rules.Add(parent, d...)
		}
		logger.Debug("Decay rule loaded.", "parent", parent, "alternatives", len(sets))
	}
	logger.Debug("Rules file loaded.", "path", path, "parents", len(rules))
	return rules, nil
}

// daughterSets converts a daughters value into integer sets. Nested lists
// are alternatives; a flat list is a single set.
func daughterSets(val cty.Value) ([][]int, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("value is null or unknown")
	}
	if nested, err := convert.Convert(val, cty.List(cty.List(cty.Number))); err == nil {
		var sets [][]int
		if err := gocty.FromCtyValue(nested, &sets); err != nil {
			return nil, err
		}
		if len(sets) == 0 {
			return [][]int{{}}, nil
		}
		return sets, nil
	}
	flat, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("want a list of particle ids or a list of such lists, got %s", val.Type().FriendlyName())
	}
	var set []int
	if err := gocty.FromCtyValue(flat, &set); err != nil {
		return nil, err
	}
	return [][]int{set}, nil
}
