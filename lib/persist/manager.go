package persist

import (
	"context"
	"sync"
	"time"

	"github.com/ValentinKolb/rediDB/lib/store"
	"github.com/ValentinKolb/rediDB/lib/util"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("persist")

const (
	// DefaultFlushInterval is the time between two snapshot flushes
	DefaultFlushInterval = 2 * time.Second

	// errorBufferSize is the number of write failures kept for Errors() readers
	errorBufferSize = 16
)

// Manager loads a store from a snapshot backend and periodically writes it back.
type Manager struct {
	store    store.ISnapshotter
	backend  ISnapshotBackend
	interval time.Duration
	errCh    chan error
	flushMu  sync.Mutex // only one flush writes to the backend at a time
}

// NewManager creates a persistence manager for the given store and backend.
// A non-positive interval falls back to DefaultFlushInterval.
func NewManager(s store.ISnapshotter, backend ISnapshotBackend, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Manager{
		store:    s,
		backend:  backend,
		interval: interval,
		errCh:    make(chan error, errorBufferSize),
	}
}

// Init loads the snapshot into the store.
//
// If the snapshot can't be loaded the store is reset to empty, recovered is true
// and one snapshot is written right away. The returned error is only set if that
// write failed; it is not fatal, the periodic flush keeps retrying.
func (m *Manager) Init() (recovered bool, err error) {
	snap, loadErr := m.backend.Read()
	if loadErr == nil {
		m.store.Restore(snap)
		Logger.Infof("loaded %d collections from %s", len(snap), m.backend.Name())
		return false, nil
	}

	util.CountLoadFailure()
	Logger.Warningf("could not load snapshot from %s, starting with an empty store: %v", m.backend.Name(), loadErr)

	m.store.Restore(store.Snapshot{})
	return true, m.Flush()
}

// Flush writes the current state of the store to the backend.
// Failures are logged, counted and delivered on Errors() before being returned.
//
// Thread-safe: concurrent calls are serialized
func (m *Manager) Flush() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	start := time.Now()

	// the copy is taken under the store lock, the write happens without it
	snap := m.store.Snapshot()
	err := m.backend.Write(snap)

	util.ObserveFlush(start, err)
	if err != nil {
		Logger.Warningf("snapshot flush to %s failed: %v", m.backend.Name(), err)
		m.report(err)
		return err
	}

	Logger.Debugf("flushed %d collections to %s in %s", len(snap), m.backend.Name(), time.Since(start))
	return nil
}

// Run flushes the store every interval until ctx is done.
// A final flush is performed before Run returns.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	Logger.Infof("flushing snapshots to %s every %s", m.backend.Name(), m.interval)

	for {
		select {
		case <-ctx.Done():
			_ = m.Flush()
			Logger.Infof("final snapshot flushed, persistence stopped")
			return
		case <-ticker.C:
			_ = m.Flush() // already reported
		}
	}
}

// Errors returns a channel delivering write failures.
// Failures are dropped if nobody reads them and the buffer is full.
func (m *Manager) Errors() <-chan error {
	return m.errCh
}

// report delivers err without blocking the flush
func (m *Manager) report(err error) {
	select {
	case m.errCh <- err:
	default:
		Logger.Debugf("error channel full, dropping: %v", err)
	}
}
