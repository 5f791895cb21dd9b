package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/spokewith/internal/querysql"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver (default).
	DriverCGO = "sqlite3"

	// DriverPure is the modernc.org/sqlite driver, for cgo-free builds.
	DriverPure = "sqlite"

	// MemoryPath selects a private in-memory database.
	MemoryPath = ":memory:"

	// DefaultPageSize is the number of rows per page produced by Read.
	DefaultPageSize = 50
)

// Clock supplies the wall time used for created and modified.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type options struct {
	driver   string
	pageSize int
	clock    Clock
	logger   *slog.Logger
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database/sql driver: DriverCGO or DriverPure.
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithPageSize sets how many rows each page of Read holds. Non-positive
// values keep the default.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithClock overrides the wall clock used for timestamps.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger for debug events. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Store persists records of schema T as rows of a single table.
// A Store owns one database connection; it is not safe for concurrent use
// without external synchronization.
type Store[T Schema] struct {
	db       *sql.DB
	sql      *querysql.Compiler
	table    string
	path     string
	pageSize int
	clock    Clock
	logger   *slog.Logger
}

// Open connects to the database at path, applies pragmas and ensures the
// table for T exists. path is a file path (created if absent) or MemoryPath.
//
// The connection is acquired here and released by Close; Open closes it
// itself on every failure path.
func Open[T Schema](path string, opts ...Option) (*Store[T], error) {
	o := options{
		driver:   DriverCGO,
		pageSize: DefaultPageSize,
		clock:    systemClock{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	table, err := TableName[T]()
	if err != nil {
		return nil, &Error{Code: CodeValidation, Op: "open", Err: err}
	}

	if o.driver != DriverCGO && o.driver != DriverPure {
		return nil, &Error{Code: CodeStorageUnavailable, Op: "open", Table: table,
			Err: fmt.Errorf("unsupported driver %q", o.driver)}
	}

	dsn, inMemory := dataSourceName(path)

	db, err := sql.Open(o.driver, dsn)
	if err != nil {
		return nil, &Error{Code: CodeStorageUnavailable, Op: "open", Table: table,
			Err: fmt.Errorf("failed to open database: %w", err)}
	}

	// SQLite serializes writers, and a private in-memory database dies with
	// its last connection: keep exactly one, forever.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &Error{Code: CodeStorageUnavailable, Op: "open", Table: table,
			Err: fmt.Errorf("failed to connect to database: %w", err)}
	}

	if err := applyPragmas(db, inMemory); err != nil {
		db.Close()
		return nil, &Error{Code: CodeStorageUnavailable, Op: "open", Table: table,
			Err: fmt.Errorf("failed to apply pragmas: %w", err)}
	}

	s := &Store[T]{
		db:       db,
		sql:      querysql.NewCompiler(table),
		table:    table,
		path:     path,
		pageSize: o.pageSize,
		clock:    o.clock,
		logger:   o.logger,
	}

	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("store opened", "table", table, "path", path, "driver", o.driver)
	return s, nil
}

// Init creates the table for T if it does not exist.
// This function is idempotent - safe to call multiple times.
func (s *Store[T]) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.sql.CreateTable()); err != nil {
		return &Error{Code: CodeStorageUnavailable, Op: "init", Table: s.table,
			Err: fmt.Errorf("create table: %w", err)}
	}
	return nil
}

// Close closes the database connection.
// Safe to call on a nil or already closed store.
func (s *Store[T]) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Table returns the name of the table bound to T.
func (s *Store[T]) Table() string {
	return s.table
}

// Path returns the location the store was opened with.
func (s *Store[T]) Path() string {
	return s.path
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store[T]) DB() *sql.DB {
	return s.db
}

// now returns the current time with monotonic readings stripped.
func (s *Store[T]) now() time.Time {
	return s.clock.Now().UTC().Round(0)
}

// IsMemory reports whether path selects a private in-memory database.
func IsMemory(path string) bool {
	return path == "" || path == MemoryPath
}

// dataSourceName maps a store location to a driver DSN. Each in-memory
// store gets a uniquely named database so two stores never share one.
func dataSourceName(path string) (dsn string, inMemory bool) {
	if IsMemory(path) {
		return fmt.Sprintf("file:spokewith-%s?mode=memory&cache=shared", uuid.NewString()), true
	}
	return path, false
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, inMemory bool) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if !inMemory {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL", "PRAGMA synchronous = NORMAL")
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store[T]) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if !strings.EqualFold(value, expected) {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
