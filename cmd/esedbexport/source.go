package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/beltran/gohive"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/go-data-exporter/esedb-exporter/internal/config"
	"github.com/go-data-exporter/esedb-exporter/scanner"
)

// source opens the records of one table at a time. Each returned Rows is
// released with its close function.
type source interface {
	Rows(ctx context.Context, table string) (scanner.Rows, func() error, error)
	Close() error
}

func openSource(cfg config.SourceConfig) (source, error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database %q: %w", cfg.DSN, err)
		}
		return &sqlSource{db: db, driver: "sqlite"}, nil
	case "hive":
		conn, err := gohive.Connect(cfg.Hive.Host, cfg.Hive.Port, cfg.Hive.Auth, gohive.NewConnectConfiguration())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to hive at %s:%d: %w", cfg.Hive.Host, cfg.Hive.Port, err)
		}
		return &hiveSource{conn: conn}, nil
	}
	return nil, fmt.Errorf("unsupported source driver: %s", cfg.Driver)
}

type sqlSource struct {
	db     *sql.DB
	driver string
}

func (s *sqlSource) Rows(ctx context.Context, table string) (scanner.Rows, func() error, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return nil, nil, err
	}
	return scanner.FromSQL(rows, s.driver, table), rows.Close, nil
}

func (s *sqlSource) Close() error {
	return s.db.Close()
}

type hiveSource struct {
	conn *gohive.Connection
}

func (s *hiveSource) Rows(ctx context.Context, table string) (scanner.Rows, func() error, error) {
	cursor := s.conn.Cursor()
	cursor.Exec(ctx, "SELECT * FROM "+quoteHiveIdent(table))
	if cursor.Err != nil {
		cursor.Close()
		return nil, nil, cursor.Err
	}
	closeCursor := func() error {
		cursor.Close()
		return nil
	}
	return scanner.FromHiveCursor(cursor, ctx, table), closeCursor, nil
}

func (s *hiveSource) Close() error {
	return s.conn.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteHiveIdent quotes a HiveQL identifier with backticks.
func quoteHiveIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
