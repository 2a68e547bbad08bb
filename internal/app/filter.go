package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/hepmctools/internal/decayfilter"
)

// rules merges the command-line rules with the rules file, if any.
func (a *App) rules(ctx context.Context) (decayfilter.Rules, error) {
	rules := decayfilter.Rules{}
	rules.Merge(a.config.Rules)
	if a.config.RulesFile != "" {
		fromFile, err := decayfilter.LoadRules(ctx, a.config.RulesFile)
		if err != nil {
			return nil, err
		}
		rules.Merge(fromFile)
	}
	if len(rules) == 0 {
		return nil, errors.New("no decay rules given")
	}
	return rules, nil
}

func (a *App) runFilter(ctx context.Context) (_ []string, err error) {
	rules, err := a.rules(ctx)
	if err != nil {
		return nil, err
	}

	s, err := a.openInput(true)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	output := decayfilter.OutputName(a.config.Input)
	if len(a.config.Outputs) > 0 {
		output = a.config.Outputs[0]
	}
	w, err := decayfilter.Create(output, s.Header())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if aerr := w.Abort(); aerr != nil {
				err = errors.Join(err, fmt.Errorf("close %s: %w", output, aerr))
			}
			return
		}
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", output, cerr))
		}
	}()

	a.logger.Info("Filtering events.", "input", a.config.Input, "output", output, "rules", rules.String())
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := s.Next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			break
		}
		a.metrics.ObserveRead(ev)
		if decayfilter.Evaluate(ev, rules) {
			if err := w.Write(ev); err != nil {
				return nil, err
			}
			a.metrics.ObserveKept(len(ev.Particles))
			a.logger.Debug("Event kept.", "event", ev.Number)
		}
		a.progress(s.EventsRead(), w.Kept())
	}

	a.printSummary(s.EventsRead(), w.Kept())
	a.logger.Info("Filtering finished.", "events_in", s.EventsRead(), "events_out", w.Kept(), "output", output)
	return []string{output}, nil
}

func (a *App) printSummary(in, out int) {
	fraction := 0.0
	if in > 0 {
		fraction = float64(out) / float64(in)
	}
	fmt.Fprintf(a.stdout, "\nSummary\n    events(in):    %10d\n    events(out):   %10d\n    fraction:      %10.3e\n", in, out, fraction)
}
