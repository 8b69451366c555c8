// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb implements engine.Engine on top of goleveldb.
package leveldb

import (
	"github.com/btcsuite/txselect/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// bloomBitsPerKey sizes the bloom filter of every table.  Pool lookups are
// point reads of outpoint keys, most of which hit.
const bloomBitsPerKey = 10

// NewDB opens the database at dbPath, creating it when it does not exist.
// When create is set an existing database is an error.
func NewDB(dbPath string, create bool) (engine.Engine, error) {
	ldb, err := leveldb.OpenFile(dbPath, &opt.Options{
		ErrorIfExist: create,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(bloomBitsPerKey),
	})
	if err != nil {
		return nil, err
	}
	return &DB{ldb: ldb}, nil
}

// DB is a goleveldb backed engine.  Using it after Close fails with
// leveldb.ErrClosed.
type DB struct {
	ldb *leveldb.DB
}

// Transaction opens a goleveldb transaction.  goleveldb allows a single open
// transaction per database and blocks other writers until it is closed.
func (d *DB) Transaction() (engine.Transaction, error) {
	tx, err := d.ldb.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return &transaction{tx: tx}, nil
}

// Snapshot takes a goleveldb snapshot of the current state.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	snap, err := d.ldb.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &snapshot{snap: snap}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.ldb.Close()
}
