// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Rohith723/nss-election-app/cliparse"
)

// sqlitePragmas are applied to every SQLite connection
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
	"_txlock=immediate",
}

// Open connects to the configured database, verifies the connection
// and creates the schema.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch cfg.DatabaseType {
	case cliparse.DatabaseSQLite:
		conn, err = sql.Open("sqlite", SQLiteDSN(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		// Single writer: transactions queue for the one connection
		conn.SetMaxOpenConns(1)
	case cliparse.DatabasePostgres:
		conn, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		conn.SetMaxOpenConns(10)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := CreateSchema(conn, cfg.DatabaseType); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// SQLiteDSN appends the connection pragmas to a SQLite DSN
func SQLiteDSN(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(sqlitePragmas, "&")
}
