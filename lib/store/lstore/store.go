package lstore

import (
	"slices"
	"sync"

	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

type storeImpl struct {
	mu          sync.RWMutex
	collections map[string][]record.Record
}

// NewLocalStore creates a new, empty local store instance.
// The store lives entirely in memory; use the persist package to snapshot it.
func NewLocalStore() store.ILocalStore {
	return &storeImpl{
		collections: make(map[string][]record.Record),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) CreateCollection(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; ok {
		return store.NewError(store.RetCAlreadyExists, "Database already exists!")
	}
	s.collections[name] = make([]record.Record, 0)
	Logger.Debugf("created collection %q", name)
	return nil
}

func (s *storeImpl) Get(name string) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[name]
	if !ok {
		return nil, notFound()
	}
	return record.CloneAll(records), nil
}

func (s *storeImpl) Append(name string, r record.Record) error {
	// copy outside the lock, the record belongs to the caller
	cp := r.Clone()
	if cp == nil {
		cp = record.Record{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[name]
	if !ok {
		return notFound()
	}
	s.collections[name] = append(records, cp)
	return nil
}

func (s *storeImpl) FindAll(name string, q record.Query) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.collections[name]
	if !ok {
		return nil, notFound()
	}
	return record.CloneAll(record.Filter(records, q)), nil
}

func (s *storeImpl) MutateMatching(name string, q record.Query, patch record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[name]
	if !ok {
		return notFound()
	}
	if q.IsEmpty() {
		return store.NewError(store.RetCMissingPredicate, "No query!")
	}
	if len(patch) == 0 {
		return store.NewError(store.RetCMissingPatch, "No new data!")
	}

	// collect first, then mutate: a record the patch makes matching is not touched
	indices := record.MatchingIndices(records, q)
	for _, i := range indices {
		records[i].Apply(patch)
	}
	Logger.Debugf("mutated %d records in collection %q", len(indices), name)
	return nil
}

func (s *storeImpl) DeleteMatching(name string, q record.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[name]
	if !ok {
		return notFound()
	}
	if q.IsEmpty() {
		return store.NewError(store.RetCMissingPredicate, "No query!")
	}

	before := len(records)
	records = slices.DeleteFunc(records, func(r record.Record) bool {
		return record.Matches(r, q)
	})
	s.collections[name] = records
	Logger.Debugf("deleted %d records from collection %q", before-len(records), name)
	return nil
}

// --------------------------------------------------------------------------
// Snapshot Methods (docu see store.ISnapshotter)
// --------------------------------------------------------------------------

func (s *storeImpl) Snapshot() store.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(store.Snapshot, len(s.collections))
	for name, records := range s.collections {
		snap[name] = record.CloneAll(records)
	}
	return snap
}

func (s *storeImpl) Restore(snap store.Snapshot) {
	// normalize outside the lock, it copies every record
	normalized := snap.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections = normalized
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func notFound() error {
	return store.NewError(store.RetCNotFound, "No such DB")
}
