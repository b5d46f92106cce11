// Package store provides the interface of the rediDB record store: named
// collections ("databases") holding ordered sequences of open-schema records,
// together with a unified error type.
//
// The package focuses on:
//   - A unified interface (IStore) for collection operations across implementations
//   - Structured errors carrying a RetCode so callers can react to specific failures
//   - The Snapshot type, the complete state of a store and the persisted format
//
// Key Components:
//
//   - IStore Interface: CreateCollection, Get, Append, FindAll, MutateMatching and
//     DeleteMatching. Records have no stored identity; MutateMatching and
//     DeleteMatching select records by evaluating a query once and then acting
//     on the positions found. Structurally identical records are all affected.
//
//   - ISnapshotter Interface: Snapshot and Restore, used by the persistence layer
//     to copy the state out of and into a store atomically.
//
//   - Error System: A structured error reporting mechanism using typed error codes
//     (RetCNotFound, RetCAlreadyExists, RetCMissingPredicate, RetCMissingPatch, ...)
//     and descriptive messages. Use IsCode to test for a code.
//
// Implementations:
//
//	- Local Store (lstore): an in-memory store guarded by a single lock.
//	  Available in the "github.com/ValentinKolb/rediDB/lib/store/lstore" package.
//
//	- RPC Store (rpc/client): a client forwarding every operation to a remote
//	  rediDB server over an authenticated connection.
//	  Available in the "github.com/ValentinKolb/rediDB/rpc/client" package.
//
// Both implementations pass the conformance suite in lib/store/testing.
package store
