// Package sqldb stores flattened particle rows in a SQL table. SQLite
// (modernc.org/sqlite) and Postgres (pgx through database/sql) are supported.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/vk/hepmctools/internal/flatten"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Table is the name of the table rows are written to.
const Table = "particles"

// Dialect selects the driver and SQL flavour.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

func (d Dialect) driver() string {
	if d == Postgres {
		return "pgx"
	}
	return "sqlite"
}

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Sink is a flatten.Sink inserting rows into Table. Each WriteRows call runs
// in its own transaction, so an event is stored whole or not at all.
type Sink struct {
	db      *sql.DB
	dialect Dialect
	insert  string
}

// Open connects to dsn (a file path for SQLite, a URL for Postgres) and
// ensures the table exists.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Sink, error) {
	openMu.Lock()
	db, err := sqlOpen(dialect.driver(), dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	s, err := New(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and ensures the table exists. The Sink takes
// ownership of db and closes it on Close.
func New(ctx context.Context, db *sql.DB, dialect Dialect) (*Sink, error) {
	if _, err := db.ExecContext(ctx, createTableSQL(dialect)); err != nil {
		return nil, fmt.Errorf("create %s table: %w", Table, err)
	}
	return &Sink{db: db, dialect: dialect, insert: insertSQL(dialect)}, nil
}

// WriteRows implements flatten.Sink.
func (s *Sink) WriteRows(ctx context.Context, rows []flatten.Row) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i].Values()...); err != nil {
			return fmt.Errorf("insert event %d particle %d: %w", rows[i].EventNumber, rows[i].Index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DB exposes the underlying database for inspection in tests.
func (s *Sink) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Sink) Close() error {
	return s.db.Close()
}

func columnType(d Dialect, k flatten.Kind) string {
	switch k {
	case flatten.KindInt:
		if d == Postgres {
			return "BIGINT"
		}
		return "INTEGER"
	case flatten.KindFloat:
		if d == Postgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	default:
		return "TEXT"
	}
}

func createTableSQL(d Dialect) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + Table + " (\n")
	cols := flatten.Columns()
	for i, c := range cols {
		b.WriteString("\t" + strconv.Quote(c.Name) + " " + columnType(d, c.Kind))
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

func insertSQL(d Dialect) string {
	names := flatten.ColumnNames()
	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
		if d == Postgres {
			marks[i] = "$" + strconv.Itoa(i+1)
		} else {
			marks[i] = "?"
		}
	}
	return "INSERT INTO " + Table + " (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
}
