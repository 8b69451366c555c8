// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
)

// TxDesc is a descriptor about a transaction committed from a batch.
type TxDesc struct {
	// Tx is the committed transaction.
	Tx *wire.MsgTx

	// Hash is the id of Tx.
	Hash chainhash.Hash

	// Fee is the fee Tx paid when it was committed.
	Fee btcutil.Amount
}

// Rejection describes a transaction of a batch that was not committed.
type Rejection struct {
	// Tx is the rejected transaction.
	Tx *wire.MsgTx

	// Hash is the id of Tx.
	Hash chainhash.Hash

	// Err is the reason.  It is either a validate.RuleError or one of the
	// errors of this package.
	Err error
}

// BatchResult is the outcome of processing a batch.
type BatchResult struct {
	// Accepted lists the committed transactions in commit order.
	Accepted []*TxDesc

	// Rejected lists every other transaction of the batch.
	Rejected []*Rejection

	// TotalFees is the sum of the fees of the accepted transactions.
	TotalFees btcutil.Amount

	// Pool is the pool after every accepted transaction was committed.
	Pool *utxo.Pool
}

// Transactions returns the accepted transactions in commit order.
func (r *BatchResult) Transactions() []*wire.MsgTx {
	txns := make([]*wire.MsgTx, 0, len(r.Accepted))
	for _, desc := range r.Accepted {
		txns = append(txns, desc.Tx)
	}
	return txns
}
