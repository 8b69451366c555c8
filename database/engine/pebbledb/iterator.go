// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"github.com/btcsuite/txselect/database/engine"
	"github.com/cockroachdb/pebble"
)

// NewIterator wraps a pebble iterator which has not been positioned yet.
func NewIterator(iter *pebble.Iterator) engine.Iterator {
	return &Iterator{Iterator: iter}
}

// Iterator adapts a pebble iterator to engine.Iterator.  Pebble iterators
// must be positioned before Next, so the first Next moves to the first key.
type Iterator struct {
	*pebble.Iterator
	positioned bool
	released   bool
}

func (i *Iterator) First() bool {
	i.positioned = true
	return i.Iterator.First()
}

func (i *Iterator) Seek(key []byte) bool {
	i.positioned = true
	return i.Iterator.SeekGE(key)
}

func (i *Iterator) Next() bool {
	if !i.positioned {
		return i.First()
	}
	return i.Iterator.Next()
}

func (i *Iterator) Key() []byte {
	if !i.positioned || !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Key()
}

func (i *Iterator) Value() []byte {
	if !i.positioned || !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Value()
}

func (i *Iterator) Release() {
	if !i.released {
		i.released = true
		i.Iterator.Close()
	}
}

func (i *Iterator) Error() error {
	if i.released {
		return engine.ErrIterReleased
	}
	return i.Iterator.Error()
}
