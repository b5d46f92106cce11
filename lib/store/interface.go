package store

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/rediDB/lib/record"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// Snapshot is the complete state of a store: collection name -> ordered records.
// It is also the top-level shape of the persisted snapshot document.
type Snapshot map[string][]record.Record

// IStore is the generic interface for interacting with a document store.
// Collections are named, ordered sequences of records. Records have no stored
// identity; they are selected by re-matching a query.
// All operations return a *Error (nil on success).
type IStore interface {
	// CreateCollection creates an empty collection.
	// Fails with RetCAlreadyExists if the name is already taken.
	CreateCollection(name string) (err error)
	// Get returns all records of a collection in insertion order.
	// Fails with RetCNotFound if the collection does not exist.
	Get(name string) (records []record.Record, err error)
	// Append adds a record to the end of a collection.
	// Fails with RetCNotFound if the collection does not exist.
	Append(name string, r record.Record) (err error)
	// FindAll returns all records matching the query, preserving their order.
	// The empty query matches every record.
	// Fails with RetCNotFound if the collection does not exist.
	FindAll(name string, q record.Query) (records []record.Record, err error)
	// MutateMatching overwrites the fields of patch on every record matching q.
	// The matching records are determined once, before any record is changed.
	// Fails with RetCNotFound, RetCMissingPredicate or RetCMissingPatch.
	MutateMatching(name string, q record.Query, patch record.Record) (err error)
	// DeleteMatching removes every record matching q, keeping the order of the rest.
	// Fails with RetCNotFound or RetCMissingPredicate.
	DeleteMatching(name string, q record.Query) (err error)
}

// ISnapshotter is implemented by stores whose complete state can be copied out
// and replaced. It is used by the persistence layer.
type ISnapshotter interface {
	// Snapshot returns a deep copy of the whole store, taken atomically.
	Snapshot() Snapshot
	// Restore replaces the whole store with a deep copy of the snapshot.
	Restore(s Snapshot)
}

// ILocalStore is a store that lives in this process and can be snapshotted.
type ILocalStore interface {
	IStore
	ISnapshotter
}

// Normalize returns a copy of the snapshot in which every collection maps to a
// non-nil sequence and no record is nil.
func (s Snapshot) Normalize() Snapshot {
	out := make(Snapshot, len(s))
	for name, records := range s {
		cp := make([]record.Record, 0, len(records))
		for _, r := range records {
			if r == nil {
				r = record.Record{}
			}
			cp = append(cp, r.Clone())
		}
		out[name] = cp
	}
	return out
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// IsCode reports whether err (or an error it wraps) is a store Error with the given code.
func IsCode(err error, code RetCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation.
	RetCNotFound                        // 3: The referenced collection does not exist.
	RetCAlreadyExists                   // 4: A collection with this name already exists.
	RetCMissingPredicate                // 5: The query of a command is missing or empty.
	RetCMissingPatch                    // 6: The new data of a command is missing or empty.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCNotFound:
		return "NotFound"
	case RetCAlreadyExists:
		return "AlreadyExists"
	case RetCMissingPredicate:
		return "MissingPredicate"
	case RetCMissingPatch:
		return "MissingPatch"
	default:
		return "Unknown"
	}
}
