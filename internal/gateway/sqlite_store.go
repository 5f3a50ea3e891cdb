package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"aim/internal/domain"
)

// SQLiteRecordStore persists mapped records in a local SQLite database. The
// fingerprint column carries a UNIQUE constraint, which is the sole mechanism
// preventing duplicate storage.
type SQLiteRecordStore struct {
	db *sql.DB
}

// NewSQLiteRecordStore opens (or creates) the database at the given path and
// ensures the schema exists.
func NewSQLiteRecordStore(path string) (*SQLiteRecordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	store := &SQLiteRecordStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteRecordStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		product_type TEXT NOT NULL,
		session_id TEXT NOT NULL,
		data TEXT NOT NULL,
		data_hash TEXT UNIQUE NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_product ON records(product_type);
	CREATE INDEX IF NOT EXISTS idx_records_session ON records(session_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteRecordStore) Close() error {
	return s.db.Close()
}

// Save inserts a mapped record. When the fingerprint already exists the
// record is rejected with domain.ErrDuplicateRecord and nothing is written.
func (s *SQLiteRecordStore) Save(ctx context.Context, rec *domain.StoredRecord) (int64, error) {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize record %q: %w", rec.Name, err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO records (name, product_type, session_id, data, data_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.ProductType, rec.SessionID, string(data), rec.Fingerprint,
		createdAt.Format(time.RFC3339))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, domain.ErrDuplicateRecord
		}
		return 0, fmt.Errorf("failed to save record %q: %w", rec.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// Get loads one stored record by id.
func (s *SQLiteRecordStore) Get(ctx context.Context, id int64) (*domain.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, product_type, session_id, data, data_hash, created_at
		FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %d not found", id)
	}
	return rec, err
}

// List returns stored records, newest first, optionally filtered by product
// type.
func (s *SQLiteRecordStore) List(ctx context.Context, productType string) ([]domain.StoredRecord, error) {
	query := `
		SELECT id, name, product_type, session_id, data, data_hash, created_at
		FROM records`
	args := []any{}
	if productType != "" {
		query += ` WHERE product_type = ?`
		args = append(args, productType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []domain.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Stats counts stored records in total and per product type.
func (s *SQLiteRecordStore) Stats(ctx context.Context) (*domain.StoreStats, error) {
	stats := &domain.StoreStats{ProductCounts: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT product_type, COUNT(*) FROM records GROUP BY product_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to read store stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product string
		var count int
		if err := rows.Scan(&product, &count); err != nil {
			return nil, fmt.Errorf("failed to scan store stats: %w", err)
		}
		stats.ProductCounts[product] = count
		stats.TotalRecords += count
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.StoredRecord, error) {
	var rec domain.StoredRecord
	var data, createdAt string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.ProductType, &rec.SessionID, &data, &rec.Fingerprint, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &rec.Data); err != nil {
		return nil, fmt.Errorf("corrupt record data for id %d: %w", rec.ID, err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return &rec, nil
}
