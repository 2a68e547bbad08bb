package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/hepmctools/internal/listing"
)

func (a *App) runList(ctx context.Context) (_ []string, err error) {
	s, err := a.openInput(false)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var out io.Writer = a.stdout
	var artifacts []string
	if len(a.config.Outputs) > 0 && a.config.Outputs[0] != "-" {
		f, err := os.Create(a.config.Outputs[0])
		if err != nil {
			return nil, fmt.Errorf("create listing output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
		out = f
		artifacts = append(artifacts, a.config.Outputs[0])
	}
	bw := bufio.NewWriter(out)
	defer func() {
		if ferr := bw.Flush(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	n := 0
	for a.config.Limit == 0 || n < a.config.Limit {
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
		if err := listing.Print(bw, ev); err != nil {
			return nil, fmt.Errorf("print event %d: %w", ev.Number, err)
		}
		n++
	}
	a.logger.Debug("Listing finished.", "events", n)
	return artifacts, nil
}
