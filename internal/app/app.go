package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/hepmctools/internal/metrics"
	"github.com/vk/hepmctools/internal/upload"
)

// App encapsulates the run's dependencies, configuration, and lifecycle.
type App struct {
	stdout     io.Writer
	logger     *slog.Logger
	config     *Config
	metrics    *metrics.Metrics
	uploader   *upload.Uploader
	httpServer *http.Server
}

// Option customizes an App.
type Option func(*App)

// WithUploader replaces the default uploader.
func WithUploader(u *upload.Uploader) Option {
	return func(a *App) { a.uploader = u }
}

// NewApp returns an App writing command output (listings, the filter
// summary) to stdout and logs to logW.
func NewApp(stdout, logW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	a := &App{
		stdout:  stdout,
		logger:  logger,
		config:  cfg,
		metrics: metrics.New(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.uploader == nil {
		a.uploader = upload.New()
	}
	return a
}

// Metrics returns the run's instruments. This is primarily for testing.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}
