package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/rediDB/lib/store"
)

// jsonFileBackend keeps the snapshot as one JSON document on disk.
//
// Format:
//
//	{
//	  "users": [{"name": "a"}, {"name": "b", "age": 3}],
//	  "empty": []
//	}
type jsonFileBackend struct {
	path string
}

// NewJSONFileBackend creates a backend reading and writing the JSON snapshot at path.
// Neither the file nor its directory have to exist yet.
func NewJSONFileBackend(path string) ISnapshotBackend {
	return &jsonFileBackend{path: path}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see persist.ISnapshotBackend)
// --------------------------------------------------------------------------

func (b *jsonFileBackend) Name() string {
	return fmt.Sprintf("json file (%s)", b.path)
}

func (b *jsonFileBackend) Read() (store.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	return decodeSnapshot(data)
}

func (b *jsonFileBackend) Write(snap store.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	if err := os.WriteFile(b.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return nil
}

func (b *jsonFileBackend) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// encodeSnapshot serializes a snapshot to its JSON document.
// Collections always encode as arrays, never as null.
func encodeSnapshot(snap store.Snapshot) ([]byte, error) {
	if snap == nil {
		snap = store.Snapshot{}
	}
	data, err := json.Marshal(snap.Normalize())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return data, nil
}

// decodeSnapshot parses a JSON snapshot document.
// The top level must be an object of arrays of objects.
func decodeSnapshot(data []byte) (store.Snapshot, error) {
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailure, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: snapshot is not an object", ErrLoadFailure)
	}
	return snap.Normalize(), nil
}
