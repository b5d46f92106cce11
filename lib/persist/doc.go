// Package persist implements the persistence layer of rediDB: it loads the
// record store from a snapshot at startup and periodically writes the complete
// store back.
//
// The package focuses on:
//   - Load-or-init: a missing, unreadable or malformed snapshot is not fatal. The
//     store stays empty and one snapshot is written immediately, creating the
//     containing directory if needed.
//   - Periodic flush: on a fixed interval (2 seconds by default) the whole store
//     is serialized and overwrites the previous snapshot, whether or not anything
//     changed in between.
//   - Observable failures: a failed write never stops the periodic task. It is
//     logged, counted and delivered on the Errors channel.
//
// Key Components:
//
//   - ISnapshotBackend: where snapshots live. Two backends exist and are chosen
//     with NewBackend:
//
//   - "json": a single JSON document whose top-level object is the store
//     (collection name -> array of records). Read and written in one piece.
//
//   - "sqlite": the same snapshot kept in a SQLite database file, rewritten
//     in a single transaction.
//
//   - Manager: owns the periodic task. The snapshot is copied out of the store
//     under the store's lock, serialization and file I/O happen afterwards, so
//     connections are never blocked by disk writes.
//
// Usage Example:
//
//	backend, err := persist.NewBackend(persist.BackendJSON, "./data.json")
//	if err != nil {
//		return err
//	}
//	s := lstore.NewLocalStore()
//	m := persist.NewManager(s, backend, persist.DefaultFlushInterval)
//	if _, err := m.Init(); err != nil {
//		log.Printf("initial snapshot failed: %v", err)
//	}
//	go m.Run(ctx) // flushes until ctx is done, then flushes a final time
package persist
