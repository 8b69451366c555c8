// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/btcsuite/txselect/internal/collections"
	"github.com/btcsuite/txselect/validate"
)

// selectGreedy commits the batch transactions in order of the fee they pay.
//
// The frontier starts with every Valid transaction.  The highest priority
// transaction is popped and committed provided its inputs are still in the
// pool.  The dependents of a committed transaction whose inputs all exist
// afterwards are classified again, which verifies the proofs of the inputs
// that were just created and the balance of the transaction, and enter the
// frontier with the fee they now pay.
//
// Outputs never change once created, so checking that the inputs of a
// popped transaction still exist is enough to keep it valid.  The total fee
// is not guaranteed to be maximal: a cheap transaction that would unlock an
// expensive dependent loses against a conflicting transaction paying a bit
// more.
func (s *selection) selectGreedy() error {
	roots := s.graph.Roots()
	frontier := collections.NewPriorityQueue(higherPriority, len(roots))
	for _, id := range roots {
		node := s.graph.Node(id)
		s.status[id] = statusQueued
		frontier.Push(candidate{id: id, hash: node.Hash, fee: node.Fee()})
	}

	for {
		next, ok := frontier.Pop()
		if !ok {
			return nil
		}

		node := s.graph.Node(next.id)
		if !s.inputsExist(node.Tx) {
			s.reject(next.id, ErrDoubleSpend)
			continue
		}
		if err := s.accept(next.id, next.fee); err != nil {
			return err
		}

		for _, depID := range node.Dependents {
			if s.status[depID] != statusPending {
				continue
			}
			dep := s.graph.Node(depID)
			if !s.inputsExist(dep.Tx) {
				continue
			}

			result := s.classifier.Classify(dep.Tx, s.pool)
			switch result.Class {
			case validate.Valid:
				s.status[depID] = statusQueued
				frontier.Push(candidate{
					id:   depID,
					hash: dep.Hash,
					fee:  result.Fee,
				})

			case validate.Invalid:
				s.reject(depID, result.Err)
			}
		}
	}
}
