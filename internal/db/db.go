// Package db opens and pools the relational database backing ArtFlow.
// SQLite is the default; PostgreSQL is selected by configuration.
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/artflow/artflow/internal/common/config"
	"github.com/artflow/artflow/internal/db/dialect"
)

// Open creates the connection pool described by cfg.
//
// For SQLite a single-connection writer and a multi-connection read-only
// reader are opened against the same file. For PostgreSQL one pgx-backed
// pool serves both roles.
func Open(cfg config.DatabaseConfig) (*Pool, error) {
	switch cfg.Driver {
	case dialect.SQLite3, "":
		writer, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		reader, err := OpenSQLiteReader(cfg.Path)
		if err != nil {
			_ = writer.Close()
			return nil, err
		}
		return NewPool(
			sqlx.NewDb(writer, dialect.SQLite3),
			sqlx.NewDb(reader, dialect.SQLite3),
		), nil

	case dialect.PGX:
		pg, err := OpenPostgres(cfg.DSN(), cfg.MaxConns, cfg.MinConns)
		if err != nil {
			return nil, err
		}
		pool := sqlx.NewDb(pg, dialect.PGX)
		return NewPool(pool, pool), nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}
