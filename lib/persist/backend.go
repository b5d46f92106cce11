package persist

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/rediDB/lib/store"
)

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrLoadFailure is returned (wrapped) when a snapshot can't be read or parsed.
	ErrLoadFailure = errors.New("persistence load failure")
	// ErrWriteFailure is returned (wrapped) when a snapshot can't be written.
	ErrWriteFailure = errors.New("persistence write failure")
)

// --------------------------------------------------------------------------
// Backend Interface
// --------------------------------------------------------------------------

type BackendType string

const (
	BackendJSON   BackendType = "json"
	BackendSQLite BackendType = "sqlite"
)

// ISnapshotBackend stores complete snapshots of a store.
// Implementations only ever hold a single snapshot; Write replaces it entirely.
type ISnapshotBackend interface {
	// Name returns a human-readable description of the backend
	Name() string
	// Read returns the stored snapshot. Any error is wrapped in ErrLoadFailure.
	Read() (store.Snapshot, error)
	// Write replaces the stored snapshot. Any error is wrapped in ErrWriteFailure.
	Write(snap store.Snapshot) error
	// Close releases all resources held by the backend.
	Close() error
}

// NewBackend creates a snapshot backend of the given type storing its data at path.
func NewBackend(kind BackendType, path string) (ISnapshotBackend, error) {
	switch kind {
	case BackendJSON, "":
		return NewJSONFileBackend(path), nil
	case BackendSQLite:
		return NewSQLiteBackend(path)
	default:
		return nil, fmt.Errorf("unknown snapshot backend: %q (supported: json, sqlite)", kind)
	}
}
