// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mining selects and commits the transactions of a batch.

A batch is a set of proposed transactions processed against a pool of unspent
outputs.  Transactions may spend the outputs of other transactions of the same
batch and may conflict with each other.  Processing a batch commits a mutually
consistent subset of it to the pool, aiming for the highest total fee, and
reports why every other transaction was left out.

Strategies

StrategyGreedy repeatedly commits the ready transaction paying the highest
fee, ties broken by transaction id.  Committing a transaction makes the
transactions spending its outputs ready once all of their inputs exist.

StrategyBasic sweeps the batch in transaction id order committing whatever is
valid until nothing changes.

StrategySearch runs the greedy selection and then a bounded best-first search
over include/exclude decisions, keeping whichever selection pays more.

Every strategy commits through utxo.Pool.ApplyCommit and only commits
transactions that are valid against the pool at that moment, so no output is
ever spent twice and every accepted transaction satisfies the balance law.
*/
package mining
