// Package ledger records settled manifests in SQLite.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"axiom/internal/checkout"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultDSN keeps the ledger in memory for the life of the process.
const DefaultDSN = "file:axiom-ledger?mode=memory&cache=shared"

// settledLayout is fixed width so that settled_at orders lexically by time.
const settledLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get for an unknown manifest id.
var ErrNotFound = errors.New("ledger: manifest not found")

// Ledger is an append-only record of settled purchases.
type Ledger struct {
	db  *sql.DB
	mu  sync.Mutex
	dsn string
	log *zap.Logger
}

// Open connects to dsn and prepares the schema. An empty dsn uses DefaultDSN.
func Open(ctx context.Context, dsn string, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	// One connection keeps a shared in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		log.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		log.Debug("failed to enable foreign keys", zap.Error(err))
	}

	l := &Ledger{db: db, dsn: dsn, log: log}
	if err := l.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("ledger ready", zap.String("dsn", dsn))
	return l, nil
}

func (l *Ledger) initialize(ctx context.Context) error {
	manifests := `
	CREATE TABLE IF NOT EXISTS manifests (
		id TEXT PRIMARY KEY,
		total INTEGER NOT NULL,
		item_count INTEGER NOT NULL,
		settled_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_manifests_settled ON manifests(settled_at);`

	items := `
	CREATE TABLE IF NOT EXISTS manifest_items (
		manifest_id TEXT NOT NULL REFERENCES manifests(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price INTEGER NOT NULL,
		PRIMARY KEY (manifest_id, position)
	);`

	for _, stmt := range []string{manifests, items} {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create ledger schema: %w", err)
		}
	}
	return runMigrations(ctx, l.db, l.log)
}

// Record appends a manifest. Recording the same id twice is an error.
func (l *Ledger) Record(ctx context.Context, m checkout.Manifest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO manifests (id, total, item_count, member, settled_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.Total, len(m.Items), m.Member, m.SettledAt.UTC().Format(settledLayout))
	if err != nil {
		return fmt.Errorf("failed to record manifest %s: %w", m.ID, err)
	}
	for i, item := range m.Items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO manifest_items (manifest_id, position, product_id, name, price) VALUES (?, ?, ?, ?, ?)",
			m.ID, i, item.ProductID, item.Name, item.Price)
		if err != nil {
			return fmt.Errorf("failed to record line item %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit manifest: %w", err)
	}

	l.log.Info("manifest recorded",
		zap.String("id", m.ID),
		zap.Int("items", len(m.Items)),
		zap.Int64("total", m.Total))
	return nil
}

// List returns up to limit manifests, newest first. A limit <= 0 returns all.
func (l *Ledger) List(ctx context.Context, limit int) ([]checkout.Manifest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	query := "SELECT id, total, member, settled_at FROM manifests ORDER BY settled_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	var out []checkout.Manifest
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate manifests: %w", err)
	}
	rows.Close()

	for i := range out {
		items, err := l.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// Get returns one manifest or ErrNotFound.
func (l *Ledger) Get(ctx context.Context, id string) (checkout.Manifest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	row := l.db.QueryRowContext(ctx, "SELECT id, total, member, settled_at FROM manifests WHERE id = ?", id)
	m, err := scanManifest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return checkout.Manifest{}, ErrNotFound
	}
	if err != nil {
		return checkout.Manifest{}, err
	}
	if m.Items, err = l.items(ctx, id); err != nil {
		return checkout.Manifest{}, err
	}
	return m, nil
}

// Count returns the number of recorded manifests.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM manifests").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count manifests: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanManifest(s scanner) (checkout.Manifest, error) {
	var (
		m       checkout.Manifest
		settled string
	)
	if err := s.Scan(&m.ID, &m.Total, &m.Member, &settled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return m, err
		}
		return m, fmt.Errorf("failed to scan manifest: %w", err)
	}
	// RFC3339Nano also reads the fixed-width layout.
	t, err := time.Parse(time.RFC3339Nano, settled)
	if err != nil {
		return m, fmt.Errorf("bad settled_at %q: %w", settled, err)
	}
	m.SettledAt = t
	return m, nil
}

func (l *Ledger) items(ctx context.Context, id string) ([]checkout.LineItem, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT product_id, name, price FROM manifest_items WHERE manifest_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}
	defer rows.Close()

	var items []checkout.LineItem
	for rows.Next() {
		var it checkout.LineItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
