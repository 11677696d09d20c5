package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Sync states of a record relative to the spreadsheet mirror.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// SQLiteRepository is a key/value store over a single records table.
// Every write bumps the row version and marks it pending for the mirror.
type SQLiteRepository struct {
	db            *sql.DB
	schemaVersion uint
}

// PendingRecord identifies a record version that has not been mirrored yet.
type PendingRecord struct {
	Key       string
	Version   int64
	UpdatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	schema, err := migrateRecords(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, schemaVersion: schema}, nil
}

// SchemaVersion is the migration version the database was opened at.
func (r *SQLiteRepository) SchemaVersion() uint { return r.schemaVersion }

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Get implements kv.Store.
func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get record %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements kv.Store.
func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (key, value, version, sync_status, updated_at)
		VALUES (?, ?, 1, 'pending', CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = records.version + 1,
			sync_status = 'pending',
			updated_at = CURRENT_TIMESTAMP`, key, value)
	if err != nil {
		return fmt.Errorf("set record %s: %w", key, err)
	}
	slog.DebugContext(ctx, "Record saved to SQLite", "key", key, "bytes", len(value))
	return nil
}

// HealthCheck implements kv.HealthChecker.
func (r *SQLiteRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Version returns the current version of key, or 0 when it does not exist.
func (r *SQLiteRepository) Version(ctx context.Context, key string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx, `SELECT version FROM records WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get record version %s: %w", key, err)
	}
	return v, nil
}

// PendingSync lists records whose latest version has not been mirrored,
// oldest change first.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]PendingRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key, version, CAST(strftime('%s', updated_at) AS INTEGER) FROM records
		WHERE sync_status != 'synced'
		ORDER BY updated_at, key
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync records: %w", err)
	}
	defer rows.Close()

	var out []PendingRecord
	for rows.Next() {
		var (
			p       PendingRecord
			updated int64
		)
		if err := rows.Scan(&p.Key, &p.Version, &updated); err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		p.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records that version of key reached the mirror. A newer
// write in the meantime keeps the record pending.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, key string, version int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE records SET synced_version = ?, sync_status = 'synced'
		WHERE key = ? AND version = ?`, version, key, version)
	if err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "key", key, "version", version)
	return nil
}

// MarkSyncError flags key so the next sweep retries it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE records SET sync_status = 'error' WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "key", key)
	return nil
}
