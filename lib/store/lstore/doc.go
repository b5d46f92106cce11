// Package lstore implements a local, in-memory record store based on the
// store.IStore interface. All collections live in a single map guarded by one
// sync.RWMutex, which is the only synchronization boundary of the store.
//
// Key Features:
//   - Pure in-memory storage; persistence is added from the outside through
//     the store.ISnapshotter methods (see the persist package)
//   - Append, MutateMatching and DeleteMatching are atomic with respect to each
//     other and to Snapshot, so a snapshot never observes a half applied command
//   - Records are copied on the way in and on the way out, callers can never
//     change the store without taking the lock
//
// Implementation Details:
//
//   - Positional Identity: MutateMatching evaluates the query once and collects
//     the indices of all matching records before applying the patch. A record
//     that only starts matching because of the patch is therefore never touched,
//     and structurally identical records are all affected.
//
//   - Order: Append keeps insertion order, DeleteMatching compacts the sequence
//     in place and keeps the relative order of the survivors.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	_ = s.CreateCollection("users")
//	_ = s.Append("users", record.Record{"name": "a"})
//	users, _ := s.FindAll("users", record.Query{"name": "a"})
package lstore
