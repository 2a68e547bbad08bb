package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/vk/hepmctools/internal/app"
	"github.com/vk/hepmctools/internal/sink"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

const usage = `
hepmc - convert, filter and inspect HepMC2 event listings.

Usage:
  hepmc flatten [options] INPUT [OUTPUT...]
  hepmc filter  [options] INPUT [PARENT DAUGHTER... [, PARENT DAUGHTER...]]
  hepmc list    [options] INPUT

Commands:
  flatten  Write one row per particle to CSV, NDJSON, SQLite or Postgres.
  filter   Copy the events whose decays match the rules, byte for byte.
  list     Print each event as a particle table.

Run 'hepmc COMMAND -h' for the options of a command.
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if len(args) == 0 {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}
	command := args[0]
	switch command {
	case "-h", "-help", "--help", "help":
		fmt.Fprint(output, usage)
		return nil, true, nil
	case app.CommandFlatten, app.CommandFilter, app.CommandList:
	default:
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q; expected flatten, filter or list", command)}
	}

	flagSet := flag.NewFlagSet("hepmc "+command, flag.ContinueOnError)
	flagSet.SetOutput(output)

	var outputs stringList
	flagSet.Var(&outputs, "output", "Output destination. Repeatable for flatten.")
	flagSet.Var(&outputs, "o", "Output destination (shorthand).")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	maxParticlesFlag := flagSet.Int("max-particles", 0, "Particles retained per event. 0 is unlimited; 5000 matches the legacy buffers.")

	var (
		formatFlag, rulesFlag, metricsFileFlag, uploadFlag *string
		progressFlag, metricsPortFlag, eventsFlag          *int
	)
	positional := "INPUT"
	switch command {
	case app.CommandFlatten:
		positional = "INPUT [OUTPUT...]"
		formatFlag = flagSet.String("format", "", "Output format: "+strings.Join(sink.Formats(), ", ")+". Inferred from the output when empty.")
	case app.CommandFilter:
		positional = "INPUT [PARENT DAUGHTER... [, ...]]"
		rulesFlag = flagSet.String("rules", "", "HCL rules file, or a directory of .hcl files, merged with the rules given as arguments.")
	case app.CommandList:
		eventsFlag = flagSet.Int("events", 0, "Stop after this many events. 0 lists all.")
	}
	if command != app.CommandList {
		progressFlag = flagSet.Int("progress-every", 100, "Log progress every N events. 0 is disabled.")
		metricsPortFlag = flagSet.Int("metrics-port", 0, "Port for the /metrics and /health HTTP server. 0 is disabled.")
		metricsFileFlag = flagSet.String("metrics-file", "", "Write final metrics to this file in Prometheus text format.")
		uploadFlag = flagSet.String("upload", "", "Upload the output to s3://bucket/key or a pre-signed https URL.")
	}

	flagSet.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  hepmc %s [options] %s\n\nOptions:\n", command, positional)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if flagSet.NArg() == 0 {
		slog.Debug("No input provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, false, &ExitError{Code: 2, Message: "an input HepMC file is required"}
	}
	rest := flagSet.Args()[1:]

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := app.Config{
		Command:      command,
		Input:        flagSet.Arg(0),
		Outputs:      outputs,
		MaxParticles: *maxParticlesFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	}
	switch command {
	case app.CommandFlatten:
		cfg.Format = strings.ToLower(*formatFlag)
		if cfg.Format != "" && !slices.Contains(sink.Formats(), cfg.Format) {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid format %q: must be one of %s", cfg.Format, strings.Join(sink.Formats(), ", "))}
		}
		cfg.Outputs = append(cfg.Outputs, rest...)
	case app.CommandFilter:
		cfg.RulesFile = *rulesFlag
		cfg.RuleArgs = rest
	case app.CommandList:
		if len(rest) > 0 {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments after input: %s", strings.Join(rest, " "))}
		}
		cfg.Limit = *eventsFlag
	}
	if progressFlag != nil {
		cfg.ProgressEvery = *progressFlag
		cfg.MetricsPort = *metricsPortFlag
		cfg.MetricsFile = *metricsFileFlag
		cfg.Upload = *uploadFlag
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
