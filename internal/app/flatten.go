package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/hepmctools/internal/flatten"
	"github.com/vk/hepmctools/internal/sink"
	"github.com/vk/hepmctools/internal/sink/multi"
)

// defaultFlattenOutput names the CSV written next to the working directory
// when flatten gets no output.
func defaultFlattenOutput(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}

// openSinks opens every flatten destination. It returns the sink and the
// destinations that are local files, which are the ones worth uploading.
func (a *App) openSinks(ctx context.Context) (flatten.Sink, []string, error) {
	dests := a.config.Outputs
	if len(dests) == 0 {
		dests = []string{defaultFlattenOutput(a.config.Input)}
	}

	var sinks multi.Sink
	var files []string
	for _, dest := range dests {
		s, err := sink.Open(ctx, a.config.Format, dest)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("open output %s: %w", dest, err), sinks.Close())
		}
		sinks = append(sinks, s)
		format := a.config.Format
		if format == "" {
			format, _ = sink.InferFormat(dest)
		}
		if dest != sink.Stdout && format != sink.FormatPostgres {
			files = append(files, dest)
		}
		a.logger.Debug("Output opened.", "destination", dest, "format", format)
	}
	if len(sinks) == 1 {
		return sinks[0], files, nil
	}
	return sinks, files, nil
}

func (a *App) runFlatten(ctx context.Context) (_ []string, err error) {
	s, err := a.openInput(false)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	out, files, err := a.openSinks(ctx)
	if err != nil {
		return nil, err
	}
	em := flatten.NewEmitter(out)
	defer func() {
		if cerr := em.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
		}
	}()

	a.logger.Info("Flattening events.", "input", a.config.Input)
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
		if err := em.Emit(ctx, ev); err != nil {
			return nil, err
		}
		a.metrics.ObserveKept(len(ev.Particles))
		a.progress(em.Events(), em.Events())
	}
	a.logger.Info("Flattening finished.", "events", em.Events(), "rows", em.Rows(), "events_seen", s.EventsRead())
	return files, nil
}
