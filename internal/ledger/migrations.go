package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration adds a column missing from ledgers created by older builds.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists all schema migrations to apply.
var pendingMigrations = []Migration{
	// Membership of the buyer at settlement
	{"manifests", "member", "INTEGER NOT NULL DEFAULT 0"},
}

func runMigrations(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	applied := 0
	for _, m := range pendingMigrations {
		exists, err := columnExists(ctx, db, m.Table, m.Column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %s.%s failed: %w", m.Table, m.Column, err)
		}
		applied++
		log.Debug("migration applied", zap.String("table", m.Table), zap.String("column", m.Column))
	}
	if applied > 0 {
		log.Info("ledger migrations complete", zap.Int("applied", applied))
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("PRAGMA table_info(%s) failed: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid          int
			name, ctype  string
			notnull, pk  int
			defaultValue sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &defaultValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan table_info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
