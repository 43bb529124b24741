package store

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// documentID is the primary key of the single row holding the collection
const documentID = "tasks"

// SQLBackend keeps the JSON document in a one-row table so the same store
// can live in a SQLite file or a PostgreSQL database.
type SQLBackend struct {
	db     *sql.DB
	driver string
	name   string
}

// OpenSQL connects to the database and ensures the document table exists.
// driver is "sqlite3" or "postgres"; for sqlite3 the dsn is a file path.
func OpenSQL(driver, dsn string) (*SQLBackend, error) {
	var db *sql.DB
	var err error

	switch driver {
	case "sqlite3", "sqlite":
		driver = "sqlite3"
		db, err = connectSQLite(dsn)
	case "postgres", "postgresql":
		driver = "postgres"
		db, err = sql.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// the postgres dsn may carry credentials, keep it out of messages
	name := driver
	if driver == "sqlite3" {
		name = driver + ":" + dsn
	}
	b := &SQLBackend{db: db, driver: driver, name: name}
	if err := b.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// connectSQLite expands the path and creates its directory; SQLite creates
// the database file itself.
func connectSQLite(dbPath string) (*sql.DB, error) {
	dbPath, err := expandPath(dbPath)
	if err != nil {
		return nil, err
	}

	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	return sql.Open("sqlite3", dbPath)
}

// EnsureSchema creates the document table if it doesn't exist
func (b *SQLBackend) EnsureSchema() error {
	_, err := b.db.Exec(`
		CREATE TABLE IF NOT EXISTS tasklist_documents (
			id TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Read returns the stored document, or an fs.ErrNotExist error when no
// document has been written yet.
func (b *SQLBackend) Read() ([]byte, error) {
	var body string
	err := b.db.QueryRow(
		"SELECT body FROM tasklist_documents WHERE id = "+b.placeholder(1),
		documentID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read %s: %w", b.name, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.name, err)
	}
	return []byte(body), nil
}

// Write upserts the document row.
func (b *SQLBackend) Write(data []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO tasklist_documents (id, body, updated)
		VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated = CURRENT_TIMESTAMP
	`, b.placeholder(1), b.placeholder(2))

	if _, err := b.db.Exec(query, documentID, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", b.name, err)
	}
	return nil
}

// Close closes the database connection.
func (b *SQLBackend) Close() error {
	return b.db.Close()
}

func (b *SQLBackend) String() string {
	return b.name
}

func (b *SQLBackend) placeholder(n int) string {
	if b.driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
