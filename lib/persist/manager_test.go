package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/lib/store/lstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend is a snapshot backend for tests that can be told to fail
type memoryBackend struct {
	mu       sync.Mutex
	snap     store.Snapshot
	readErr  error
	writeErr error
	writes   int
}

func (b *memoryBackend) Name() string { return "memory" }

func (b *memoryBackend) Read() (store.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readErr != nil {
		return nil, b.readErr
	}
	return b.snap.Normalize(), nil
}

func (b *memoryBackend) Write(snap store.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	if b.writeErr != nil {
		return b.writeErr
	}
	b.snap = snap.Normalize()
	return nil
}

func (b *memoryBackend) Close() error { return nil }

func (b *memoryBackend) state() (store.Snapshot, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap, b.writes
}

func (b *memoryBackend) setWriteErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestInitLoadsSnapshot(t *testing.T) {
	backend := &memoryBackend{snap: store.Snapshot{"users": {{"name": "a"}}}}
	s := lstore.NewLocalStore()

	recovered, err := NewManager(s, backend, time.Hour).Init()
	require.NoError(t, err)
	assert.False(t, recovered)

	got, err := s.Get("users")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"name": "a"}}, got)

	// a successful load does not write
	_, writes := backend.state()
	assert.Equal(t, 0, writes)
}

func TestInitRecoversFromLoadFailure(t *testing.T) {
	backend := &memoryBackend{readErr: fmt.Errorf("%w: broken", ErrLoadFailure)}
	s := lstore.NewLocalStore()
	require.NoError(t, s.CreateCollection("stale"))

	recovered, err := NewManager(s, backend, time.Hour).Init()
	require.NoError(t, err)
	assert.True(t, recovered)

	// store is empty and an empty snapshot was written immediately
	assert.Empty(t, s.Snapshot())
	snap, writes := backend.state()
	assert.Equal(t, 1, writes)
	assert.Equal(t, store.Snapshot{}, snap)
}

func TestInitMissingFileCreatesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data.json")
	s := lstore.NewLocalStore()

	recovered, err := NewManager(s, NewJSONFileBackend(path), time.Hour).Init()
	require.NoError(t, err)
	assert.True(t, recovered)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestInitMalformedFileIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	recovered, err := NewManager(lstore.NewLocalStore(), NewJSONFileBackend(path), time.Hour).Init()
	require.NoError(t, err)
	assert.True(t, recovered)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestInitWriteFailureIsReported(t *testing.T) {
	backend := &memoryBackend{
		readErr:  errors.New("missing"),
		writeErr: fmt.Errorf("%w: disk full", ErrWriteFailure),
	}
	m := NewManager(lstore.NewLocalStore(), backend, time.Hour)

	recovered, err := m.Init()
	assert.True(t, recovered)
	assert.ErrorIs(t, err, ErrWriteFailure)

	select {
	case reported := <-m.Errors():
		assert.ErrorIs(t, reported, ErrWriteFailure)
	default:
		t.Fatal("write failure was not reported")
	}
}

func TestSnapshotRoundTripThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	// fill a store and flush it
	s := lstore.NewLocalStore()
	require.NoError(t, s.CreateCollection("users"))
	require.NoError(t, s.CreateCollection("empty"))
	require.NoError(t, s.Append("users", record.Record{"name": "a", "n": 1.0}))
	require.NoError(t, s.Append("users", record.Record{"name": "b", "tags": []any{"x"}}))
	require.NoError(t, NewManager(s, NewJSONFileBackend(path), time.Hour).Flush())

	// load it into a new one
	loaded := lstore.NewLocalStore()
	recovered, err := NewManager(loaded, NewJSONFileBackend(path), time.Hour).Init()
	require.NoError(t, err)
	assert.False(t, recovered)
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
}

func TestRunFlushesPeriodically(t *testing.T) {
	backend := &memoryBackend{}
	s := lstore.NewLocalStore()
	m := NewManager(s, backend, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	require.NoError(t, s.CreateCollection("x"))

	// flushes happen even without further changes
	require.Eventually(t, func() bool {
		snap, writes := backend.state()
		_, ok := snap["x"]
		return ok && writes >= 3
	}, 2*time.Second, 5*time.Millisecond)

	// the final flush sees the last change
	require.NoError(t, s.Append("x", record.Record{"last": true}))
	cancel()
	<-done

	snap, _ := backend.state()
	assert.Equal(t, []record.Record{{"last": true}}, snap["x"])
}

func TestRunSurvivesWriteFailures(t *testing.T) {
	backend := &memoryBackend{writeErr: fmt.Errorf("%w: read-only", ErrWriteFailure)}
	s := lstore.NewLocalStore()
	m := NewManager(s, backend, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	// several failures are reported, the task keeps running
	for range 2 {
		select {
		case err := <-m.Errors():
			assert.ErrorIs(t, err, ErrWriteFailure)
		case <-time.After(2 * time.Second):
			t.Fatal("no write failure reported")
		}
	}

	// once the backend recovers, the data arrives
	require.NoError(t, s.CreateCollection("x"))
	backend.setWriteErr(nil)
	require.Eventually(t, func() bool {
		snap, _ := backend.state()
		_, ok := snap["x"]
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}

func TestNewManagerDefaultInterval(t *testing.T) {
	m := NewManager(lstore.NewLocalStore(), &memoryBackend{}, 0)
	assert.Equal(t, DefaultFlushInterval, m.interval)
}
