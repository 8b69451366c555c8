// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/txgraph"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/validate"
	"github.com/btcsuite/txselect/wire"
)

// nodeStatus tracks the progress of a batch transaction through a selection.
type nodeStatus uint8

const (
	statusPending nodeStatus = iota
	statusQueued
	statusAccepted
	statusRejected
)

// candidate is a transaction that is ready to be committed along with the fee
// it pays.
type candidate struct {
	id   txgraph.NodeID
	hash chainhash.Hash
	fee  btcutil.Amount
}

// higherPriority orders candidates by fee, highest first, and then by
// transaction id so the order is total.
func higherPriority(a, b candidate) bool {
	if a.fee != b.fee {
		return a.fee > b.fee
	}
	return bytes.Compare(a.hash[:], b.hash[:]) < 0
}

// selection holds the state shared by every strategy while one batch is
// processed: the pool being committed to, the dependency graph of the batch
// and the report being built.
type selection struct {
	classifier *validate.Classifier
	pool       *utxo.Pool
	graph      *txgraph.Graph
	status     []nodeStatus
	result     *BatchResult
}

// newSelection starts a selection committing into pool.  Every node blocked
// in graph is rejected immediately.
func newSelection(classifier *validate.Classifier, pool *utxo.Pool,
	graph *txgraph.Graph) *selection {

	s := &selection{
		classifier: classifier,
		pool:       pool,
		graph:      graph,
		status:     make([]nodeStatus, graph.Len()),
		result:     &BatchResult{Pool: pool},
	}
	for _, id := range graph.Blocked() {
		s.reject(id, blockError(graph.Node(id)))
	}
	return s
}

// buildGraph classifies batch against pool and returns its dependency graph.
func buildGraph(classifier *validate.Classifier, pool *utxo.Pool,
	batch []*wire.MsgTx) *txgraph.Graph {

	return txgraph.Build(batch, func(tx *wire.MsgTx) validate.Result {
		return classifier.Classify(tx, pool)
	})
}

// inputsExist returns whether every input of tx is currently in the pool.
func (s *selection) inputsExist(tx *wire.MsgTx) bool {
	for _, txIn := range tx.TxIn {
		if !s.pool.Contains(txIn.PreviousOutPoint) {
			return false
		}
	}
	return true
}

// accept commits node id to the pool.  A failure means the caller committed
// a transaction without checking it against the pool first, which leaves the
// batch unusable.
func (s *selection) accept(id txgraph.NodeID, fee btcutil.Amount) error {
	node := s.graph.Node(id)
	if err := s.pool.ApplyCommit(node.Tx); err != nil {
		return fmt.Errorf("unable to commit transaction %v: %w",
			node.Hash, err)
	}

	s.status[id] = statusAccepted
	s.result.Accepted = append(s.result.Accepted, &TxDesc{
		Tx:   node.Tx,
		Hash: node.Hash,
		Fee:  fee,
	})
	s.result.TotalFees += fee

	log.Tracef("Committed transaction %v with fee %v", node.Hash, fee)
	return nil
}

// reject records that node id will not be committed.
func (s *selection) reject(id txgraph.NodeID, err error) {
	node := s.graph.Node(id)
	s.status[id] = statusRejected
	s.result.Rejected = append(s.result.Rejected, &Rejection{
		Tx:   node.Tx,
		Hash: node.Hash,
		Err:  err,
	})

	log.Tracef("Rejected transaction %v: %v", node.Hash, err)
}

// finish rejects every transaction the strategy did not decide on and
// returns the report.
func (s *selection) finish() *BatchResult {
	for i := range s.status {
		id := txgraph.NodeID(i)
		switch s.status[id] {
		case statusPending, statusQueued:
			s.reject(id, s.leftoverError(id))
		}
	}

	log.Debugf("Committed %d of %d transactions for total fees of %v",
		len(s.result.Accepted), s.graph.Len(), s.result.TotalFees)
	return s.result
}

// leftoverError explains why a selectable transaction was not committed by
// the end of the selection.
func (s *selection) leftoverError(id txgraph.NodeID) error {
	node := s.graph.Node(id)
	result := s.classifier.Classify(node.Tx, s.pool)
	switch result.Class {
	case validate.Invalid:
		return result.Err

	case validate.Valid:
		return ErrNotSelected
	}

	// An input that existed at some point of the batch, either in the
	// starting pool or as an output of a committed transaction, was
	// consumed by someone else.
	for _, outpoint := range result.Unresolved {
		if !containsOutPoint(node.Result.Unresolved, outpoint) {
			return ErrDoubleSpend
		}
		producerID, ok := s.graph.Lookup(outpoint.Hash)
		if ok && s.status[producerID] == statusAccepted {
			return ErrDoubleSpend
		}
	}
	return ErrMissingInputs
}

func containsOutPoint(outpoints []wire.OutPoint, outpoint wire.OutPoint) bool {
	for _, other := range outpoints {
		if other == outpoint {
			return true
		}
	}
	return false
}
