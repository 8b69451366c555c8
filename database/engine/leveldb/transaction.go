// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// transaction adapts a goleveldb transaction to engine.Transaction.  Writes
// go to the transaction journal and become visible on Commit.
type transaction struct {
	tx *leveldb.Transaction
}

func (t *transaction) Put(key, value []byte) error {
	return t.tx.Put(key, value, nil)
}

func (t *transaction) Delete(key []byte) error {
	return t.tx.Delete(key, nil)
}

func (t *transaction) Commit() error {
	return t.tx.Commit()
}

// Discard is a no-op once the transaction was committed or discarded.
func (t *transaction) Discard() {
	t.tx.Discard()
}
