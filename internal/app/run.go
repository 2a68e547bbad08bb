package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/hepmctools/internal/ctxlog"
	"github.com/vk/hepmctools/internal/hepmc"
)

// Run executes the configured command. Artifacts are uploaded and the
// metrics file written only when the command succeeds.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command, "input", a.config.Input)

	if a.config.MetricsPort > 0 {
		a.startServer(a.config.MetricsPort)
		defer func() {
			err = errors.Join(err, a.closeServer(ctx))
		}()
	}

	var artifacts []string
	switch a.config.Command {
	case CommandFlatten:
		artifacts, err = a.runFlatten(ctx)
	case CommandFilter:
		artifacts, err = a.runFilter(ctx)
	case CommandList:
		artifacts, err = a.runList(ctx)
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}
	if err != nil {
		return err
	}

	if a.config.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
			return err
		}
		a.logger.Debug("Metrics file written.", "path", a.config.MetricsFile)
	}
	if a.config.Upload != "" {
		if err := a.uploadArtifacts(ctx, artifacts); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// openInput opens the input listing with the run's capacity and logger.
func (a *App) openInput(keepRaw bool) (*hepmc.Stream, error) {
	s, err := hepmc.Open(a.config.Input, hepmc.Options{
		MaxParticles: a.config.MaxParticles,
		KeepRaw:      keepRaw,
		Logger:       a.logger,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Input opened.", "path", a.config.Input, "version", s.Version())
	return s, nil
}

func (a *App) progress(eventsIn, eventsOut int) {
	if a.config.ProgressEvery > 0 && eventsIn%a.config.ProgressEvery == 0 {
		a.logger.Info("Progress.", "events_in", eventsIn, "events_out", eventsOut)
	}
}

// uploadArtifacts sends every produced file to the upload destination. More
// than one artifact needs a destination ending in "/".
func (a *App) uploadArtifacts(ctx context.Context, artifacts []string) error {
	if len(artifacts) == 0 {
		a.logger.Warn("Nothing to upload: the run produced no files.", "destination", a.config.Upload)
		return nil
	}
	dest := a.config.Upload
	if len(artifacts) > 1 && dest[len(dest)-1] != '/' {
		return fmt.Errorf("upload destination %q must end with '/' for %d outputs", dest, len(artifacts))
	}
	for _, path := range artifacts {
		if err := a.uploader.Upload(ctx, path, dest); err != nil {
			return err
		}
	}
	return nil
}
