package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/structpdf-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/structpdf-cli/internal/core/domain"
	"github.com/custodia-labs/structpdf-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ScanStore = (*Store)(nil)

// Store is the SQLite-backed scan catalog.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.structpdf/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".structpdf", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "catalog.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRecord inserts or replaces the record for its path.
func (s *Store) SaveRecord(ctx context.Context, record domain.ScanRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_records (id, path, has_payload, domain, version, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			has_payload = excluded.has_payload,
			domain      = excluded.domain,
			version     = excluded.version,
			scanned_at  = excluded.scanned_at
	`, record.ID, record.Path, record.HasPayload, record.Domain, record.Version,
		record.ScannedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving scan record: %w", err)
	}
	return nil
}

// GetRecord retrieves the record for a path. A missing record is
// (nil, nil), not an error.
func (s *Store) GetRecord(ctx context.Context, path string) (*domain.ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, has_payload, domain, version, scanned_at
		FROM scan_records WHERE path = ?
	`, path)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting scan record: %w", err)
	}
	return rec, nil
}

// ListRecords returns all records ordered by path.
func (s *Store) ListRecords(ctx context.Context) ([]domain.ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, has_payload, domain, version, scanned_at
		FROM scan_records ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("listing scan records: %w", err)
	}
	defer rows.Close()

	var records []domain.ScanRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("reading scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan records: %w", err)
	}
	return records, nil
}

// DeleteRecord removes the record for a path, if any.
func (s *Store) DeleteRecord(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scan_records WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting scan record: %w", err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*domain.ScanRecord, error) {
	var (
		rec       domain.ScanRecord
		scannedAt string
	)
	if err := scan(&rec.ID, &rec.Path, &rec.HasPayload, &rec.Domain, &rec.Version, &scannedAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, scannedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing scanned_at: %w", err)
	}
	rec.ScannedAt = t
	return &rec, nil
}

// migrate applies any pending SQL migrations from fsys.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue
		}

		ddl, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(ddl)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
