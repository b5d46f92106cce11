package lstore

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	storetesting "github.com/ValentinKolb/rediDB/lib/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	storetesting.RunStoreTests(t, "lstore", func() store.IStore {
		return NewLocalStore()
	})
}

func TestSnapshotRestore(t *testing.T) {
	s := NewLocalStore()
	require.NoError(t, s.CreateCollection("users"))
	require.NoError(t, s.CreateCollection("empty"))
	require.NoError(t, s.Append("users", record.Record{"name": "a", "meta": map[string]any{"n": 1.0}}))

	snap := s.Snapshot()
	assert.Equal(t, store.Snapshot{
		"users": {{"name": "a", "meta": map[string]any{"n": 1.0}}},
		"empty": {},
	}, snap)

	// the snapshot is detached from the store
	snap["users"][0]["meta"].(map[string]any)["n"] = 2.0
	got, err := s.Get("users")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0]["meta"].(map[string]any)["n"])

	// restore replaces everything
	other := NewLocalStore()
	require.NoError(t, other.CreateCollection("stale"))
	other.Restore(s.Snapshot())
	assert.Equal(t, s.Snapshot(), other.Snapshot())
	_, err = other.Get("stale")
	assert.True(t, store.IsCode(err, store.RetCNotFound))
}

func TestRestoreNormalizes(t *testing.T) {
	s := NewLocalStore()
	s.Restore(store.Snapshot{"a": nil, "b": {nil, {"x": true}}})

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = s.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{}, {"x": true}}, got)

	// appends after restore still work
	require.NoError(t, s.Append("a", record.Record{"y": 1.0}))
}

func TestAppendNilRecord(t *testing.T) {
	s := NewLocalStore()
	require.NoError(t, s.CreateCollection("x"))
	require.NoError(t, s.Append("x", nil))

	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{}}, got)
}

func TestSnapshotIsAtomicWithMutations(t *testing.T) {
	s := NewLocalStore()
	require.NoError(t, s.CreateCollection("c"))

	const n = 200
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			_ = s.Append("c", record.Record{"i": float64(i), "flag": false})
			_ = s.MutateMatching("c", record.Query{"i": float64(i)}, record.Record{"flag": true})
		}
	}()

	// every record in every snapshot was fully mutated or not yet appended,
	// but a record may be seen before its mutation
	for i := 0; i < 50; i++ {
		snap := s.Snapshot()
		for j, r := range snap["c"] {
			assert.Equal(t, float64(j), r["i"])
		}
	}
	wg.Wait()

	got, err := s.FindAll("c", record.Query{"flag": true})
	require.NoError(t, err)
	assert.Len(t, got, n)
}
