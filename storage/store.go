// Package storage persists bookkeeping data in SQLite.
//
// The store owns the schema and migrates it on open. Foreign keys are always
// enforced, so deleting an account that splits still reference fails with an
// IntegrityError. Amounts and quantities are stored as exact "num/den"
// fraction text and never as floating point.
//
// Identity follows one rule for every entity: an entity with ID 0 is inserted
// and gets its generated ID assigned, an entity with an ID must already exist.
// Each save runs in a single database transaction, so a failing split insert
// leaves the previous version of a transaction untouched.
//
// Example usage:
//
//	st, err := storage.Open(ctx, "books.sqlite")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = st.SaveAccount(ctx, checking)
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/robinvdvleuten/bookkeeper/logging"
)

// SchemaVersion is the schema version this package reads and writes.
const SchemaVersion = 1

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is a SQLite-backed bookkeeping store. It is safe for use by one
// process; all statements share a single connection.
type Store struct {
	db   *sql.DB
	path string
	log  zerolog.Logger
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens or creates the database at path and brings its schema up to
// date. Use Memory for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &StorageError{Op: "open", Reason: "must pass in a database path"}
	}

	log := logging.Component(ctx, "storage").With().Str("path", path).Logger()

	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &StorageError{Op: "open", Reason: "create database directory", Err: err}
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	// One connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Reason: "ping database", Err: err}
	}

	s := &Store{db: db, path: path, log: log}

	if err := s.checkForeignKeys(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.checkSchemaVersion(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Int("schema_version", SchemaVersion).Msg("database ready")
	return s, nil
}

func dsn(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == Memory {
		return Memory + "?" + pragmas
	}
	return "file:" + path + "?" + pragmas
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) checkForeignKeys(ctx context.Context) error {
	var enabled int
	if err := s.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return &StorageError{Op: "open", Reason: "read foreign_keys pragma", Err: err}
	}
	if enabled != 1 {
		return &StorageError{Op: "open", Reason: "can't enable sqlite foreign keys"}
	}
	return nil
}

// migrate applies the embedded migrations. The migrate instance is not closed
// because closing its driver would close the shared *sql.DB.
func (s *Store) migrate() error {
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return &StorageError{Op: "migrate", Reason: "create sqlite driver", Err: err}
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return &StorageError{Op: "migrate", Reason: "create iofs source", Err: err}
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return &StorageError{Op: "migrate", Reason: "create migrate instance", Err: err}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return &StorageError{Op: "migrate", Reason: "run migrations", Err: err}
	}
	return nil
}

func (s *Store) checkSchemaVersion(ctx context.Context) error {
	var version int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM misc WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return &StorageError{Op: "open", Reason: "read schema version", Err: err}
	}
	if version != SchemaVersion {
		s.log.Error().Int("schema_version", version).Msg("wrong schema version")
		return &StorageError{Op: "open", Reason: fmt.Sprintf("wrong schema version: %d", version)}
	}
	return nil
}

// withTx runs fn in a database transaction. The transaction commits when fn
// returns nil and rolls back on error or panic.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap(op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error().Err(rbErr).Str("op", op).Msg("rollback failed")
		}
		s.log.Debug().Err(err).Str("op", op).Msg("rolled back")
		return wrap(op, err)
	}

	if err := tx.Commit(); err != nil {
		return wrap(op, err)
	}
	return nil
}

func nullInt(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
