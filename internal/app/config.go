package app

import (
	"errors"
	"fmt"

	"github.com/vk/hepmctools/internal/decayfilter"
)

// Commands understood by Run.
const (
	CommandFlatten = "flatten"
	CommandFilter  = "filter"
	CommandList    = "list"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string
	Input   string
	// Outputs are sink destinations for flatten, or a single path for filter
	// and list. Empty means the command's default.
	Outputs []string
	Format  string

	RuleArgs  []string
	RulesFile string
	// Rules is parsed from RuleArgs by NewConfig.
	Rules decayfilter.Rules

	MaxParticles  int
	Limit         int // list: stop after this many events, 0 for all
	ProgressEvery int

	LogFormat   string
	LogLevel    string
	MetricsPort int
	MetricsFile string
	Upload      string
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandFlatten, CommandFilter, CommandList:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.Input == "" {
		return nil, errors.New("an input HepMC file is required")
	}
	if cfg.MaxParticles < 0 {
		return nil, errors.New("max-particles cannot be negative")
	}
	if cfg.ProgressEvery < 0 {
		return nil, errors.New("progress-every cannot be negative")
	}
	if cfg.Limit < 0 {
		return nil, errors.New("events cannot be negative")
	}
	if cfg.Command != CommandFlatten && len(cfg.Outputs) > 1 {
		return nil, fmt.Errorf("%s writes a single output, got %d", cfg.Command, len(cfg.Outputs))
	}

	rules, err := decayfilter.ParseRules(cfg.RuleArgs)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules
	if cfg.Command == CommandFilter && len(rules) == 0 && cfg.RulesFile == "" {
		return nil, errors.New("filter needs at least one decay rule, e.g. '35 15 -15, 35 6 -6', or --rules")
	}

	return &cfg, nil
}
