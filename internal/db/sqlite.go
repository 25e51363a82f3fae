package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thesavant42/exportatlas/internal/models"

	_ "modernc.org/sqlite"
)

// Metadata keys written by ReplaceServices
const (
	MetaImportSource = "import_source"
	MetaImportedAt   = "imported_at"
)

// DB wraps a SQLite catalog file holding one service list
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createServicesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create services schema: %w", err)
	}

	if _, err := conn.Exec(createMetaTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create meta schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// OpenExisting opens a catalog file that must already exist
func OpenExisting(dbPath string) (*DB, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("catalog database not found: %w", err)
	}
	return New(dbPath)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) String() string {
	return db.path
}

// ReplaceServices swaps the stored service list for records in one transaction,
// keeping their order, and records where they came from.
func (db *DB) ReplaceServices(records []models.Service, importSource string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(deleteAllServices); err != nil {
		return fmt.Errorf("failed to clear services: %w", err)
	}

	stmt, err := tx.Prepare(insertService)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		formats, err := encodeFormats(r.Formats)
		if err != nil {
			return fmt.Errorf("failed to encode formats for %q: %w", r.Name, err)
		}
		_, err = stmt.Exec(
			i,
			r.Name,
			formats,
			r.DeletionRequired,
			nullIfEmpty(r.ProcessTime),
			nullIfEmpty(r.Notes),
			nullIfEmpty(r.ExportLink),
			nullIfEmpty(r.LastVerifiedDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert service %q: %w", r.Name, err)
		}
	}

	if _, err := tx.Exec(upsertMeta, MetaImportSource, importSource); err != nil {
		return fmt.Errorf("failed to save import source: %w", err)
	}
	if _, err := tx.Exec(upsertMeta, MetaImportedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to save import time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Services returns the stored service list in import order
func (db *DB) Services(ctx context.Context) ([]models.Service, error) {
	rows, err := db.conn.QueryContext(ctx, selectServices)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var s models.Service
		var formats sql.NullString
		if err := rows.Scan(
			&s.Name,
			&formats,
			&s.DeletionRequired,
			&s.ProcessTime,
			&s.Notes,
			&s.ExportLink,
			&s.LastVerifiedDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		if s.Formats, err = decodeFormats(formats); err != nil {
			return nil, fmt.Errorf("failed to decode formats for %q: %w", s.Name, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}
	return services, nil
}

// Load implements catalog.DataSource
func (db *DB) Load(ctx context.Context) ([]models.Service, error) {
	return db.Services(ctx)
}

// Count returns the number of stored services
func (db *DB) Count() (int, error) {
	var count int
	if err := db.conn.QueryRow(selectServiceCount).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}

// GetMeta returns a metadata value, or "" if it was never set
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.QueryRow(selectMeta, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meta %s: %w", key, err)
	}
	return value, nil
}

// Summary describes the catalog for report headers, e.g.
// "42 services, imported from services.json at 2026-01-02T03:04:05Z".
// The import part is left out when the catalog was never imported.
func (db *DB) Summary() (string, error) {
	count, err := db.Count()
	if err != nil {
		return "", err
	}
	summary := fmt.Sprintf("%d services", count)
	if count == 1 {
		summary = "1 service"
	}

	from, err := db.GetMeta(MetaImportSource)
	if err != nil {
		return "", err
	}
	if from == "" {
		return summary, nil
	}
	summary += ", imported from " + from

	at, err := db.GetMeta(MetaImportedAt)
	if err != nil {
		return "", err
	}
	if at != "" {
		summary += " at " + at
	}
	return summary, nil
}

// encodeFormats stores absent formats as NULL and present ones as a JSON array
func encodeFormats(formats []string) (interface{}, error) {
	if formats == nil {
		return nil, nil
	}
	data, err := json.Marshal(formats)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeFormats(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var formats []string
	if err := json.Unmarshal([]byte(raw.String), &formats); err != nil {
		return nil, err
	}
	return formats, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
