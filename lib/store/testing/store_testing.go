package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreFactory is a function that creates a new, empty instance of a store implementation
type StoreFactory func() store.IStore

// RunStoreTests runs the conformance test suite for a store implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("CreateCollection", func(t *testing.T) {
			testCreateCollection(t, factory())
		})

		t.Run("MissingCollection", func(t *testing.T) {
			testMissingCollection(t, factory())
		})

		t.Run("Append&Get", func(t *testing.T) {
			testAppendGet(t, factory())
		})

		t.Run("FindAll", func(t *testing.T) {
			testFindAll(t, factory())
		})

		t.Run("MutateMatching", func(t *testing.T) {
			testMutateMatching(t, factory())
		})

		t.Run("MutatePreMutationMatch", func(t *testing.T) {
			testMutatePreMutationMatch(t, factory())
		})

		t.Run("MutateArguments", func(t *testing.T) {
			testMutateArguments(t, factory())
		})

		t.Run("DeleteMatching", func(t *testing.T) {
			testDeleteMatching(t, factory())
		})

		t.Run("NestedValues", func(t *testing.T) {
			testNestedValues(t, factory())
		})

		t.Run("ReturnedRecordsAreCopies", func(t *testing.T) {
			testReturnedRecordsAreCopies(t, factory())
		})

		t.Run("ConcurrentAppend", func(t *testing.T) {
			testConcurrentAppend(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// requireCode fails the test if err is not a store error with the given code
func requireCode(t testing.TB, err error, code store.RetCode) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, store.IsCode(err, code), "expected code %s, got %v", code, err)
}

// seed creates a collection and appends the records in order
func seed(t testing.TB, s store.IStore, name string, records ...record.Record) {
	t.Helper()
	require.NoError(t, s.CreateCollection(name))
	for _, r := range records {
		require.NoError(t, s.Append(name, r))
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testCreateCollection(t *testing.T, s store.IStore) {
	seed(t, s, "x", record.Record{"a": 1.0})

	// second create fails and leaves the contents alone
	requireCode(t, s.CreateCollection("x"), store.RetCAlreadyExists)

	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"a": 1.0}}, got)

	// a new collection starts empty
	require.NoError(t, s.CreateCollection("y"))
	got, err = s.Get("y")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testMissingCollection(t *testing.T, s store.IStore) {
	_, err := s.Get("x")
	requireCode(t, err, store.RetCNotFound)

	requireCode(t, s.Append("x", record.Record{"a": 1.0}), store.RetCNotFound)

	// the failed append must not create the collection
	_, err = s.Get("x")
	requireCode(t, err, store.RetCNotFound)

	_, err = s.FindAll("x", record.Query{"a": 1.0})
	requireCode(t, err, store.RetCNotFound)

	// NotFound takes precedence over argument errors
	requireCode(t, s.MutateMatching("x", nil, nil), store.RetCNotFound)
	requireCode(t, s.DeleteMatching("x", nil), store.RetCNotFound)
}

func testAppendGet(t *testing.T, s store.IStore) {
	seed(t, s, "x",
		record.Record{"i": 0.0},
		record.Record{"i": 1.0},
		record.Record{},
		record.Record{"i": 3.0, "extra": "field"},
	)

	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{"i": 0.0},
		{"i": 1.0},
		{},
		{"i": 3.0, "extra": "field"},
	}, got)
}

func testFindAll(t *testing.T, s store.IStore) {
	seed(t, s, "x", record.Record{"a": 1.0})

	got, err := s.FindAll("x", record.Query{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"a": 1.0}}, got)

	got, err = s.FindAll("x", record.Query{"a": 2.0})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	// order of matches follows insertion order, empty query matches everything
	require.NoError(t, s.Append("x", record.Record{"a": 2.0, "n": "second"}))
	require.NoError(t, s.Append("x", record.Record{"a": 1.0, "n": "third"}))

	got, err = s.FindAll("x", record.Query{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"a": 1.0}, {"a": 1.0, "n": "third"}}, got)

	got, err = s.FindAll("x", record.Query{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// no coercion between strings and numbers
	got, err = s.FindAll("x", record.Query{"a": "1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testMutateMatching(t *testing.T, s store.IStore) {
	seed(t, s, "x",
		record.Record{"a": 1.0},
		record.Record{"a": 1.0, "b": 9.0},
		record.Record{"a": 3.0, "b": 9.0},
	)

	require.NoError(t, s.MutateMatching("x", record.Query{"a": 1.0}, record.Record{"b": 2.0}))

	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{"a": 1.0, "b": 2.0},
		{"a": 1.0, "b": 2.0},
		{"a": 3.0, "b": 9.0},
	}, got)

	// identical records are all affected
	require.NoError(t, s.MutateMatching("x", record.Query{"b": 2.0}, record.Record{"c": "new"}))
	got, err = s.FindAll("x", record.Query{"c": "new"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// mutating without matches is a no-op
	require.NoError(t, s.MutateMatching("x", record.Query{"a": 42.0}, record.Record{"b": 0.0}))
	got, err = s.FindAll("x", record.Query{"b": 0.0})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testMutatePreMutationMatch(t *testing.T, s store.IStore) {
	seed(t, s, "x",
		record.Record{"a": 1.0},
		record.Record{"a": 2.0},
	)

	// the patch makes the first record look like the second one,
	// the second record must still not be touched
	require.NoError(t, s.MutateMatching("x", record.Query{"a": 1.0}, record.Record{"a": 2.0, "m": true}))

	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{"a": 2.0, "m": true},
		{"a": 2.0},
	}, got)
}

func testMutateArguments(t *testing.T, s store.IStore) {
	seed(t, s, "x", record.Record{"a": 1.0})

	requireCode(t, s.MutateMatching("x", nil, record.Record{"b": 1.0}), store.RetCMissingPredicate)
	requireCode(t, s.MutateMatching("x", record.Query{}, record.Record{"b": 1.0}), store.RetCMissingPredicate)
	requireCode(t, s.MutateMatching("x", record.Query{"a": 1.0}, nil), store.RetCMissingPatch)
	requireCode(t, s.MutateMatching("x", record.Query{"a": 1.0}, record.Record{}), store.RetCMissingPatch)
	requireCode(t, s.DeleteMatching("x", nil), store.RetCMissingPredicate)
	requireCode(t, s.DeleteMatching("x", record.Query{}), store.RetCMissingPredicate)

	// failed commands leave the collection unchanged
	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"a": 1.0}}, got)
}

func testDeleteMatching(t *testing.T, s store.IStore) {
	seed(t, s, "x",
		record.Record{"a": 1.0, "i": 0.0},
		record.Record{"a": 2.0, "i": 1.0},
		record.Record{"a": 1.0, "i": 2.0},
		record.Record{"a": 3.0, "i": 3.0},
		record.Record{"a": 1.0, "i": 4.0},
	)

	// non matching query leaves the collection unchanged
	require.NoError(t, s.DeleteMatching("x", record.Query{"a": 99.0}))
	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Len(t, got, 5)

	require.NoError(t, s.DeleteMatching("x", record.Query{"a": 1.0}))
	got, err = s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{"a": 2.0, "i": 1.0},
		{"a": 3.0, "i": 3.0},
	}, got)

	// deleting everything keeps the (now empty) collection
	require.NoError(t, s.DeleteMatching("x", record.Query{"i": 1.0}))
	require.NoError(t, s.DeleteMatching("x", record.Query{"i": 3.0}))
	got, err = s.Get("x")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func testNestedValues(t *testing.T, s store.IStore) {
	doc := record.Record{
		"name":    "a",
		"nothing": nil,
		"flag":    false,
		"tags":    []any{"x", 1.0, true},
		"address": map[string]any{"city": "Ulm", "zip": 89073.0},
	}
	seed(t, s, "x", doc)

	got, err := s.FindAll("x", record.Query{"name": "a", "nothing": nil, "flag": false})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, doc, got[0])
}

func testReturnedRecordsAreCopies(t *testing.T, s store.IStore) {
	in := record.Record{"a": 1.0, "nested": map[string]any{"k": "v"}}
	seed(t, s, "x", in)

	// changing the appended record must not change the store
	in["a"] = 2.0

	got, err := s.Get("x")
	require.NoError(t, err)
	require.Len(t, got, 1)
	got[0]["a"] = 3.0
	got[0]["nested"].(map[string]any)["k"] = "changed"

	again, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []record.Record{{"a": 1.0, "nested": map[string]any{"k": "v"}}}, again)
}

func testConcurrentAppend(t *testing.T, s store.IStore) {
	require.NoError(t, s.CreateCollection("x"))

	const (
		workers   = 8
		perWorker = 25
	)

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range perWorker {
				err := s.Append("x", record.Record{"worker": float64(w), "i": float64(i)})
				if err != nil {
					errs <- fmt.Errorf("worker %d append %d: %w", w, i, err)
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	got, err := s.Get("x")
	require.NoError(t, err)
	assert.Len(t, got, workers*perWorker)

	// per worker the insertion order is preserved
	for w := range workers {
		mine, err := s.FindAll("x", record.Query{"worker": float64(w)})
		require.NoError(t, err)
		require.Len(t, mine, perWorker)
		for i, r := range mine {
			assert.Equal(t, float64(i), r["i"])
		}
	}
}
