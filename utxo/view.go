// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"github.com/btcsuite/txselect/wire"
)

// View represents a view into a pool with a set of speculative commits
// applied on top of it.  The base pool is never modified, so many views can
// branch from the same pool to explore alternative selections.
type View struct {
	base    *Pool
	spent   map[wire.OutPoint]struct{}
	created map[wire.OutPoint]*Entry
}

// NewView returns a view with no speculative commits over the passed pool.
func NewView(base *Pool) *View {
	return &View{
		base:    base,
		spent:   make(map[wire.OutPoint]struct{}),
		created: make(map[wire.OutPoint]*Entry),
	}
}

// LookupEntry returns the entry for the passed outpoint as seen by the view or
// nil when the outpoint is not spendable in the view.
func (v *View) LookupEntry(outpoint wire.OutPoint) *Entry {
	if entry, ok := v.created[outpoint]; ok {
		return entry
	}
	if _, ok := v.spent[outpoint]; ok {
		return nil
	}
	return v.base.LookupEntry(outpoint)
}

// Contains returns whether the passed outpoint is spendable in the view.
func (v *View) Contains(outpoint wire.OutPoint) bool {
	return v.LookupEntry(outpoint) != nil
}

// Spend applies tx to the view with the same checks as Pool.ApplyCommit.  The
// view is left untouched when an error is returned.
func (v *View) Spend(tx *wire.MsgTx) error {
	txHash, err := checkCommit(v.Contains, tx)
	if err != nil {
		return err
	}

	for _, txIn := range tx.TxIn {
		outpoint := txIn.PreviousOutPoint
		if _, ok := v.created[outpoint]; ok {
			delete(v.created, outpoint)
			continue
		}
		v.spent[outpoint] = struct{}{}
	}
	for idx, txOut := range tx.TxOut {
		outpoint := wire.OutPoint{Hash: txHash, Index: uint32(idx)}
		v.created[outpoint] = EntryFromTxOut(txOut)
	}
	return nil
}

// Fork returns an independent copy of the view sharing the same base pool.
func (v *View) Fork() *View {
	spent := make(map[wire.OutPoint]struct{}, len(v.spent))
	for outpoint := range v.spent {
		spent[outpoint] = struct{}{}
	}
	created := make(map[wire.OutPoint]*Entry, len(v.created))
	for outpoint, entry := range v.created {
		created[outpoint] = entry
	}
	return &View{base: v.base, spent: spent, created: created}
}
