package persist

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/lib/store/lstore"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "data.db")
	backend, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer backend.Close()

	// a fresh database holds an empty snapshot
	got, err := backend.Read()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, backend.Write(testSnapshot()))

	got, err = backend.Read()
	require.NoError(t, err)
	if diff := cmp.Diff(testSnapshot(), got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteKeepsOrder(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer backend.Close()

	// more than ten records so a textual sort of positions would fail
	records := make([]record.Record, 0, 25)
	for i := range 25 {
		records = append(records, record.Record{"i": float64(i), "s": fmt.Sprint(i)})
	}
	require.NoError(t, backend.Write(store.Snapshot{"x": records}))

	got, err := backend.Read()
	require.NoError(t, err)
	assert.Equal(t, records, got["x"])
}

func TestSQLiteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	backend, err := NewSQLiteBackend(path)
	require.NoError(t, err)

	require.NoError(t, backend.Write(testSnapshot()))
	require.NoError(t, backend.Write(store.Snapshot{"only": {{"a": 1.0}}}))
	require.NoError(t, backend.Close())

	// reopen to make sure the data was committed
	backend, err = NewSQLiteBackend(path)
	require.NoError(t, err)
	defer backend.Close()

	got, err := backend.Read()
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot{"only": {{"a": 1.0}}}, got)
}

func TestSQLiteCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	require.NoError(t, os.WriteFile(path, garbageFile(), 0o644))

	backend, err := NewBackend(BackendSQLite, path)
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.Read()
	assert.ErrorIs(t, err, ErrLoadFailure)

	// the next write replaces the file
	require.NoError(t, backend.Write(testSnapshot()))
	got, err := backend.Read()
	require.NoError(t, err)
	if diff := cmp.Diff(testSnapshot(), got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteInitRecoversFromCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	require.NoError(t, os.WriteFile(path, garbageFile(), 0o644))

	backend, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer backend.Close()

	s := lstore.NewLocalStore()
	recovered, err := NewManager(s, backend, time.Hour).Init()
	require.NoError(t, err)
	assert.True(t, recovered)
	assert.Empty(t, s.Snapshot())

	// the immediate write left a valid, empty database behind
	require.NoError(t, backend.Close())
	reopened, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Read()
	require.NoError(t, err)
	assert.Empty(t, got)
}

// garbageFile returns content larger than a database page that is not a database
func garbageFile() []byte {
	return bytes.Repeat([]byte("not a database "), 1024)
}
