// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pebbledb implements engine.Engine on top of pebble.
package pebbledb

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/btcsuite/txselect/database/engine"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
)

// Errors returned when a resource is used after it was closed.
var (
	ErrDbClosed         = errors.New("pebbledb: closed")
	ErrTxClosed         = errors.New("pebbledb: transaction already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
	ErrIteratorReleased = errors.New("pebbledb: iterator released")
)

// Defaults for the block cache size in MiB and the open file limit.
const (
	DefaultCache   = 64
	DefaultHandles = 16

	numLevels       = 7
	bloomBitsPerKey = 10
)

// NewDB opens the database at dbPath, creating it when it does not exist.
// When create is set an existing database is an error.  cache is the block
// cache size in MiB and handles the open file limit.
func NewDB(dbPath string, create bool, cache, handles int) (engine.Engine, error) {
	if cache <= 0 {
		cache = DefaultCache
	}
	if handles <= 0 {
		handles = DefaultHandles
	}

	// Pool records are small, so every level uses the same bloom filter
	// and the target file size doubles per level starting at 2 MiB.
	levels := make([]pebble.LevelOptions, numLevels)
	for i := range levels {
		levels[i] = pebble.LevelOptions{
			TargetFileSize: int64(2<<i) * 1024 * 1024,
			FilterPolicy:   bloom.FilterPolicy(bloomBitsPerKey),
		}
	}
	opts := &pebble.Options{
		Cache:                    pebble.NewCache(int64(cache) * 1024 * 1024),
		ErrorIfExists:            create,
		MaxOpenFiles:             handles,
		MaxConcurrentCompactions: runtime.NumCPU,
		Levels:                   levels,
	}
	opts.Experimental.ReadSamplingMultiplier = -1
	dbEngine, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, err
	}

	return &DB{DB: dbEngine}, nil
}

// DB is a pebble backed engine.
type DB struct {
	*pebble.DB

	closed atomic.Bool
}

// setClosed marks the database closed and reports whether it was open.
func (d *DB) setClosed() bool {
	return !d.closed.Swap(true)
}

func (d *DB) isClosed() bool {
	return d.closed.Load()
}

// Transaction starts a write batch.
func (d *DB) Transaction() (engine.Transaction, error) {
	if d.isClosed() {
		return nil, ErrDbClosed
	}
	return NewTransaction(d.DB.NewBatch()), nil
}

// Snapshot returns a point-in-time view of the database.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	if d.isClosed() {
		return nil, ErrDbClosed
	}
	return NewSnapshot(d.DB.NewSnapshot()), nil
}

// Close closes the database.  Closing it twice returns ErrDbClosed.
func (d *DB) Close() error {
	if !d.setClosed() {
		return ErrDbClosed
	}
	return d.DB.Close()
}
