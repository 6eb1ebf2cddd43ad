package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	"jiraboardsync/config"
)

// DatabaseError wraps a connection, statement or commit failure.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Open connects to the configured database and checks the connection.
// The pool is capped at one connection since a run uses a single transaction.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	dsn, err := DataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.SQLDriver, dsn)
	if err != nil {
		return nil, &DatabaseError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &DatabaseError{Op: "connect", Err: err}
	}
	return db, nil
}

// DataSourceName builds the driver specific connection string.
func DataSourceName(cfg *config.Config) (string, error) {
	useCredentials := cfg.SQLAuth == config.AuthSQL

	switch cfg.SQLDriver {
	case config.DriverSQLServer:
		// Without a user id go-mssqldb falls back to integrated (Windows) auth.
		parts := []string{
			"server=" + cfg.SQLServer,
			"database=" + cfg.SQLDatabase,
			"encrypt=true",
			"TrustServerCertificate=true",
		}
		if useCredentials {
			parts = append(parts, "user id="+cfg.SQLUsername, "password="+cfg.SQLPassword)
		}
		return strings.Join(parts, ";"), nil

	case config.DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			Host:     cfg.SQLServer,
			Path:     "/" + cfg.SQLDatabase,
			RawQuery: url.Values{"sslmode": {cfg.SQLSSLMode}}.Encode(),
		}
		if useCredentials {
			u.User = url.UserPassword(cfg.SQLUsername, cfg.SQLPassword)
		}
		return u.String(), nil

	case config.DriverSQLite:
		return cfg.SQLDatabase, nil
	}
	return "", fmt.Errorf("unsupported SQL_DRIVER %q", cfg.SQLDriver)
}

// RunInTx runs fn inside a transaction and commits when fn succeeds. On any
// error, or a panic, the transaction is rolled back.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &DatabaseError{Op: "begin transaction", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return &DatabaseError{Op: "commit", Err: err}
	}
	committed = true
	return nil
}
