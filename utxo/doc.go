// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package utxo provides the pool of unspent transaction outputs that batches of
transactions are committed against.

The pool maps each OutPoint to an immutable Entry.  It is owned by exactly one
caller at a time: a batch is processed against a Clone of the previous pool,
and the clone becomes the next starting pool once the batch completes.

All modifications made on behalf of a transaction go through ApplyCommit,
which checks the whole commit before touching the pool.  A failure there is a
PoolError and means the caller tried to spend an output that does not exist or
create one that already does, which is a programming error rather than a
property of the transaction.

View layers speculative commits over a pool without modifying it, which lets
search based selection explore alternatives cheaply.
*/
package utxo
