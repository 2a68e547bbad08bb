// Package sink opens the tabular outputs the flatten command writes to.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/hepmctools/internal/flatten"
	"github.com/vk/hepmctools/internal/sink/csv"
	"github.com/vk/hepmctools/internal/sink/ndjson"
	"github.com/vk/hepmctools/internal/sink/sqldb"
)

// Supported output formats.
const (
	FormatCSV      = "csv"
	FormatNDJSON   = "ndjson"
	FormatSQLite   = "sqlite"
	FormatPostgres = "postgres"
)

// ErrUnknownFormat is returned when no format is given and none can be
// inferred from the destination.
var ErrUnknownFormat = errors.New("unknown output format")

// Stdout is the destination naming standard output.
const Stdout = "-"

// Formats lists the accepted values of the format argument of Open.
func Formats() []string {
	return []string{FormatCSV, FormatNDJSON, FormatSQLite, FormatPostgres}
}

// InferFormat picks a format from the destination: postgres URLs select
// Postgres, otherwise the file extension decides.
func InferFormat(dest string) (string, error) {
	if strings.HasPrefix(dest, "postgres://") || strings.HasPrefix(dest, "postgresql://") {
		return FormatPostgres, nil
	}
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".csv":
		return FormatCSV, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: cannot infer a format from %q", ErrUnknownFormat, dest)
}

// Open returns a sink writing to dest in the given format. An empty format
// is inferred from dest. The Stdout destination is accepted for csv and
// ndjson and is never closed.
func Open(ctx context.Context, format, dest string) (flatten.Sink, error) {
	if format == "" {
		var err error
		if format, err = InferFormat(dest); err != nil {
			return nil, err
		}
	}
	switch format {
	case FormatCSV:
		if dest == Stdout {
			return csv.New(os.Stdout), nil
		}
		return csv.Create(dest)
	case FormatNDJSON:
		if dest == Stdout {
			return ndjson.New(os.Stdout), nil
		}
		return ndjson.Create(dest)
	case FormatSQLite:
		return sqldb.Open(ctx, sqldb.SQLite, dest)
	case FormatPostgres:
		return sqldb.Open(ctx, sqldb.Postgres, dest)
	}
	return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
}
