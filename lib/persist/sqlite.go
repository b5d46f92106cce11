package persist

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// sqliteBackend keeps the snapshot in a single SQLite database.
//
// Tables:
//
//	collections(name)                   PRIMARY KEY (name)
//	records(collection, position, data) PRIMARY KEY (collection, position)
//
// Empty collections only exist in the collections table.
// The database is opened on first use. A file that is not a usable database
// fails Read with ErrLoadFailure and is replaced by the next Write.
type sqliteBackend struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
}

// NewSQLiteBackend creates a backend for the SQLite snapshot database at path.
// Neither the file nor its directory have to exist yet.
func NewSQLiteBackend(path string) (ISnapshotBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("no snapshot path provided")
	}
	return &sqliteBackend{path: path}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see persist.ISnapshotBackend)
// --------------------------------------------------------------------------

func (b *sqliteBackend) Name() string {
	return fmt.Sprintf("sqlite (%s)", b.path)
}

func (b *sqliteBackend) Read() (store.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	snap := store.Snapshot{}

	rows, err := b.db.Query("SELECT name FROM collections")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
		}
		snap[name] = make([]record.Record, 0)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}

	rows, err = b.db.Query("SELECT collection, data FROM records ORDER BY collection, position")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	defer rows.Close()
	for rows.Next() {
		var collection, raw string
		if err := rows.Scan(&collection, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
		}
		if _, ok := snap[collection]; !ok {
			return nil, fmt.Errorf("%w: record of unknown collection %q", ErrLoadFailure, collection)
		}
		var r record.Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("%w: collection %q: %v", ErrLoadFailure, collection, err)
		}
		snap[collection] = append(snap[collection], r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	return snap.Normalize(), nil
}

func (b *sqliteBackend) Write(snap store.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.open(); err != nil {
		// not a database (anymore), start over with a new file
		Logger.Warningf("replacing unusable snapshot database %s: %v", b.path, err)
		if err := b.recreate(); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteFailure, err)
		}
	}
	if err := b.write(snap.Normalize()); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

func (b *sqliteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// open opens the database and sets up the schema if it is not open yet.
// On failure the backend stays closed.
func (b *sqliteBackend) open() error {
	if b.db != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", b.path)
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			collection TEXT NOT NULL,
			position INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (collection, position)
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return err
		}
	}
	b.db = db
	return nil
}

// recreate removes the database file (and its WAL files) and opens a new one
func (b *sqliteBackend) recreate() error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(b.path + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return b.open()
}

// write replaces the database contents with snap in one transaction
func (b *sqliteBackend) write(snap store.Snapshot) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM collections"); err != nil {
		return err
	}

	insertCollection, err := tx.Prepare("INSERT INTO collections (name) VALUES (?)")
	if err != nil {
		return err
	}
	defer insertCollection.Close()

	insertRecord, err := tx.Prepare("INSERT INTO records (collection, position, data) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertRecord.Close()

	for name, records := range snap {
		if _, err := insertCollection.Exec(name); err != nil {
			return err
		}
		for i, r := range records {
			data, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("collection %q record %d: %v", name, i, err)
			}
			if _, err := insertRecord.Exec(name, i, string(data)); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}
