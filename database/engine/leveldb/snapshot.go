// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"github.com/btcsuite/txselect/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// scanOptions are used by prefix scans, which read every record under the
// prefix exactly once and so should not evict point lookups from the block
// cache.
var scanOptions = &opt.ReadOptions{DontFillCache: true}

// snapshot adapts a goleveldb snapshot to engine.Snapshot.
type snapshot struct {
	snap *leveldb.Snapshot
}

func (s *snapshot) Has(key []byte) (bool, error) {
	return s.snap.Has(key, nil)
}

// Get returns leveldb.ErrNotFound for an absent key.
func (s *snapshot) Get(key []byte) ([]byte, error) {
	return s.snap.Get(key, nil)
}

func (s *snapshot) NewIterator(r *engine.Range) engine.Iterator {
	return s.snap.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
}

func (s *snapshot) NewPrefixIterator(prefix []byte) engine.Iterator {
	return s.snap.NewIterator(util.BytesPrefix(prefix), scanOptions)
}

// Release releases the snapshot.  Reads afterwards fail with
// leveldb.ErrSnapshotReleased.
func (s *snapshot) Release() {
	s.snap.Release()
}
