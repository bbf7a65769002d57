package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// NewSQLiteReadOnly opens a legacy database file strictly read-only. The
// desktop application owns the file; this process only observes it. A busy
// timeout covers the writer holding its lock mid-transaction.
func NewSQLiteReadOnly(path string, pingTimeout time.Duration) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}

	dsn := "file:" + path + "?mode=ro&_pragma=busy_timeout(5000)"
	dbx, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// queries are short-lived; one connection avoids SQLITE_BUSY churn
	dbx.SetMaxOpenConns(1)

	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := dbx.PingContext(ctx); err != nil {
		_ = dbx.Close()
		return nil, err
	}

	return dbx, nil
}
