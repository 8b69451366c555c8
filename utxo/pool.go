// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/wire"
)

// Entry houses the details of an individual unspent transaction output: how
// much it pays and the credential of its owner.  Entries are immutable once
// created, which allows pools and views to share them freely.
type Entry struct {
	amount btcutil.Amount
	owner  []byte
}

// NewEntry returns a new entry paying amount to owner.  The owner credential is
// copied.
func NewEntry(amount btcutil.Amount, owner []byte) *Entry {
	ownerCopy := make([]byte, len(owner))
	copy(ownerCopy, owner)
	return &Entry{amount: amount, owner: ownerCopy}
}

// EntryFromTxOut returns a new entry for the passed transaction output.
func EntryFromTxOut(txOut *wire.TxOut) *Entry {
	return NewEntry(btcutil.Amount(txOut.Value), txOut.Owner)
}

// Amount returns the amount of the output.
func (entry *Entry) Amount() btcutil.Amount {
	return entry.amount
}

// Owner returns the owner credential of the output.  The returned slice must
// not be modified.
func (entry *Entry) Owner() []byte {
	return entry.owner
}

// Pool is the set of unspent transaction outputs.  Every key corresponds to
// an output of a committed transaction that has not been spent yet.
//
// A pool has a single owner at a time and is not safe for concurrent access.
type Pool struct {
	entries map[wire.OutPoint]*Entry
	version uint64
}

// NewPool returns a new empty pool.
func NewPool() *Pool {
	return &Pool{
		entries: make(map[wire.OutPoint]*Entry),
	}
}

// Clone returns a copy of the pool that can be mutated without affecting the
// original.
func (p *Pool) Clone() *Pool {
	entries := make(map[wire.OutPoint]*Entry, len(p.entries))
	for outpoint, entry := range p.entries {
		entries[outpoint] = entry
	}
	return &Pool{entries: entries, version: p.version}
}

// Len returns the number of unspent outputs in the pool.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Version returns the number of commits applied to the pool since it was
// created.  Clones inherit the version of their source.
func (p *Pool) Version() uint64 {
	return p.version
}

// Contains returns whether the passed outpoint is unspent.
func (p *Pool) Contains(outpoint wire.OutPoint) bool {
	_, ok := p.entries[outpoint]
	return ok
}

// LookupEntry returns the entry for the passed outpoint or nil when the
// outpoint is not in the pool.
func (p *Pool) LookupEntry(outpoint wire.OutPoint) *Entry {
	return p.entries[outpoint]
}

// Get returns the entry for the passed outpoint.  ErrNotFound is returned when
// it is not in the pool.
func (p *Pool) Get(outpoint wire.OutPoint) (*Entry, error) {
	entry, ok := p.entries[outpoint]
	if !ok {
		str := fmt.Sprintf("output %v is not in the pool", outpoint)
		return nil, poolError(ErrNotFound, str)
	}
	return entry, nil
}

// Insert adds the entry for the passed outpoint.  ErrConflict is returned when
// the outpoint is already in the pool.
func (p *Pool) Insert(outpoint wire.OutPoint, entry *Entry) error {
	if _, ok := p.entries[outpoint]; ok {
		str := fmt.Sprintf("output %v is already in the pool", outpoint)
		return poolError(ErrConflict, str)
	}
	p.entries[outpoint] = entry
	return nil
}

// Remove deletes the passed outpoint.  ErrNotFound is returned when it is not
// in the pool.
func (p *Pool) Remove(outpoint wire.OutPoint) error {
	if _, ok := p.entries[outpoint]; !ok {
		str := fmt.Sprintf("output %v is not in the pool", outpoint)
		return poolError(ErrNotFound, str)
	}
	delete(p.entries, outpoint)
	return nil
}

// ApplyCommit spends every output referenced by the inputs of tx and adds
// every output tx creates, keyed by the hash of tx and the output index.
//
// The whole commit is checked before anything is modified, so the pool is
// left untouched when an error is returned.  Every selection strategy routes
// its state changes through this method.
func (p *Pool) ApplyCommit(tx *wire.MsgTx) error {
	txHash, err := checkCommit(p.Contains, tx)
	if err != nil {
		return err
	}

	for _, txIn := range tx.TxIn {
		delete(p.entries, txIn.PreviousOutPoint)
	}
	for idx, txOut := range tx.TxOut {
		outpoint := wire.OutPoint{Hash: txHash, Index: uint32(idx)}
		p.entries[outpoint] = EntryFromTxOut(txOut)
	}
	p.version++
	return nil
}

// Outpoints returns every outpoint in the pool ordered by hash and then index.
func (p *Pool) Outpoints() []wire.OutPoint {
	outpoints := make([]wire.OutPoint, 0, len(p.entries))
	for outpoint := range p.entries {
		outpoints = append(outpoints, outpoint)
	}
	slices.SortFunc(outpoints, CompareOutPoints)
	return outpoints
}

// ForEach calls fn for every entry of the pool in Outpoints order and stops at
// the first error, which is returned.
func (p *Pool) ForEach(fn func(wire.OutPoint, *Entry) error) error {
	for _, outpoint := range p.Outpoints() {
		if err := fn(outpoint, p.entries[outpoint]); err != nil {
			return err
		}
	}
	return nil
}

// TotalAmount returns the sum of all unspent outputs in the pool.
func (p *Pool) TotalAmount() btcutil.Amount {
	var total btcutil.Amount
	for _, entry := range p.entries {
		total += entry.amount
	}
	return total
}

// CompareOutPoints orders outpoints by hash and then by index.
func CompareOutPoints(a, b wire.OutPoint) int {
	if c := bytes.Compare(a.Hash[:], b.Hash[:]); c != 0 {
		return c
	}
	switch {
	case a.Index < b.Index:
		return -1
	case a.Index > b.Index:
		return 1
	}
	return 0
}

// checkCommit ensures every input of tx is spendable according to contains,
// that tx does not spend an output twice and that none of the outputs tx
// creates already exist.  The hash of tx is returned.
func checkCommit(contains func(wire.OutPoint) bool, tx *wire.MsgTx) (chainhash.Hash, error) {
	txHash := tx.TxHash()

	seen := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
	for _, txIn := range tx.TxIn {
		outpoint := txIn.PreviousOutPoint
		if _, ok := seen[outpoint]; ok {
			str := fmt.Sprintf("transaction %v spends output %v "+
				"more than once", txHash, outpoint)
			return txHash, poolError(ErrNotFound, str)
		}
		seen[outpoint] = struct{}{}

		if !contains(outpoint) {
			str := fmt.Sprintf("transaction %v spends output %v "+
				"which is not in the pool", txHash, outpoint)
			return txHash, poolError(ErrNotFound, str)
		}
	}

	for idx := range tx.TxOut {
		outpoint := wire.OutPoint{Hash: txHash, Index: uint32(idx)}
		if contains(outpoint) {
			str := fmt.Sprintf("transaction %v creates output %v "+
				"which is already in the pool", txHash, outpoint)
			return txHash, poolError(ErrConflict, str)
		}
	}

	return txHash, nil
}
