package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    preset TEXT NOT NULL,
    integrator TEXT NOT NULL,
    field TEXT NOT NULL,
    spheres INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    steps INTEGER NOT NULL,
    collisions INTEGER NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_metrics (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (run_id, name)
);
CREATE INDEX IF NOT EXISTS idx_run_metrics_name ON run_metrics(name, value);
`

// Catalog is a SQLite index of saved runs, kept next to the run
// directories as runs.db.
type Catalog struct {
	db *sql.DB
}

func OpenCatalog(dir string) (*Catalog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "runs.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error { return c.db.Close() }

// Record inserts or replaces meta and its metrics.
func (c *Catalog) Record(meta RunMetadata) error {
	ctx := context.Background()
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, preset, integrator, field, spheres, seed, steps, collisions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Preset, meta.Integrator, meta.Field, meta.Spheres, meta.Seed,
		meta.Steps, meta.Collisions, meta.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_metrics WHERE run_id = ?`, meta.ID); err != nil {
		return err
	}
	for name, value := range meta.Metrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_metrics (run_id, name, value) VALUES (?, ?, ?)`,
			meta.ID, name, value); err != nil {
			return fmt.Errorf("insert metric %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// CatalogEntry is one row of a ranking query.
type CatalogEntry struct {
	ID         string
	Preset     string
	Integrator string
	Spheres    int
	Seed       int64
	Value      float64
}

// Top returns up to limit runs ordered by metric, largest first.
func (c *Catalog) Top(ctx context.Context, metric string, limit int) ([]CatalogEntry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT r.id, r.preset, r.integrator, r.spheres, r.seed, m.value
		FROM runs r JOIN run_metrics m ON m.run_id = r.id
		WHERE m.name = ?
		ORDER BY m.value DESC, r.created_at DESC
		LIMIT ?`, metric, limit)
	if err != nil {
		return nil, fmt.Errorf("query top %s: %w", metric, err)
	}
	defer rows.Close()

	var out []CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.ID, &e.Preset, &e.Integrator, &e.Spheres, &e.Seed, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of indexed runs.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}
