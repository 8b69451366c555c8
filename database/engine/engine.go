// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine defines the ordered key/value store the pool is persisted
// in.  Backends live in the leveldb and pebbledb subpackages.
package engine

// Engine is an ordered key/value store supporting atomic write batches and
// point-in-time reads.
type Engine interface {
	// Transaction starts an atomic batch of writes.
	Transaction() (Transaction, error)

	// Snapshot returns a consistent read-only view of the store.
	Snapshot() (Snapshot, error)

	// Close releases the store.  Closing a closed engine fails.
	Close() error
}

// Transaction is an atomic batch of writes.  Nothing is visible to
// snapshots until Commit succeeds.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error

	// Discard abandons the transaction.  It is safe to call more than
	// once and after Commit.
	Discard()
}

// Snapshot is a read-only view of the store at the time it was taken.
type Snapshot interface {
	// Get returns the value of key and fails when key is absent.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// NewIterator returns an iterator over the keys in r in ascending
	// order.
	NewIterator(r *Range) Iterator

	// NewPrefixIterator returns an iterator over the keys starting with
	// prefix in ascending order.  It is meant for full scans of a key
	// space.
	NewPrefixIterator(prefix []byte) Iterator
	Releaser
}

// Releaser is implemented by resources that must be released after use.
// Release is safe to call more than once.
type Releaser interface {
	Release()
}
