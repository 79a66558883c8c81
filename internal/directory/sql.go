package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/autogeral/dashboard-sso/internal/config"
)

// SQLDirectory reads role records from the access directory table.
// The table is owned by another system; this adapter never writes to it.
type SQLDirectory struct {
	db           *sql.DB
	query        string
	queryTimeout time.Duration
}

// Open connects to the directory store described by cfg.
// The connection pool is verified with a ping before returning.
func Open(ctx context.Context, cfg *config.DirectoryConfig) (*SQLDirectory, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory store: %w", err)
	}

	// Role lookups are rare (one per login); keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping directory store: %w", err)
	}

	return NewSQLDirectory(db, cfg), nil
}

// NewSQLDirectory wraps an existing database handle. Used by Open and by
// tests that substitute a mock handle.
func NewSQLDirectory(db *sql.DB, cfg *config.DirectoryConfig) *SQLDirectory {
	return &SQLDirectory{
		db: db,
		// The table name comes from validated configuration, not user input.
		query:        fmt.Sprintf("SELECT nome, cargo, email FROM %s WHERE email = $1", cfg.Table),
		queryTimeout: time.Duration(cfg.QueryTimeout) * time.Second,
	}
}

// LookupRole returns the role record for email, or ErrNotFound when the
// directory has no entry for it.
func (d *SQLDirectory) LookupRole(ctx context.Context, email string) (*RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, d.queryTimeout)
	defer cancel()

	rec := &RoleRecord{}
	err := d.db.QueryRowContext(ctx, d.query, email).Scan(&rec.Name, &rec.Role, &rec.Email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("directory lookup failed: %w", err)
	}

	return rec, nil
}

// Close releases the underlying connection pool.
func (d *SQLDirectory) Close() error {
	return d.db.Close()
}
