// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"errors"
	"fmt"

	"github.com/btcsuite/txselect/txgraph"
)

var (
	// ErrDoubleSpend is reported for a transaction whose inputs were spent
	// by a transaction that was committed before it.
	ErrDoubleSpend = errors.New("transaction spends outputs consumed by " +
		"another transaction of the batch")

	// ErrMissingInputs is reported for a transaction that spends outputs
	// which never became available during the batch.
	ErrMissingInputs = errors.New("transaction spends outputs that do " +
		"not exist")

	// ErrDependencyCycle is reported for a transaction that is part of,
	// or depends on, a cycle of transactions spending each other's
	// outputs.
	ErrDependencyCycle = errors.New("transaction depends on a spending " +
		"cycle")

	// ErrDuplicateTx is reported for a repeat of a transaction appearing
	// earlier in the batch.
	ErrDuplicateTx = errors.New("transaction appears earlier in the " +
		"batch")

	// ErrNotSelected is reported for a transaction that could still be
	// committed but was left out by the selection strategy.
	ErrNotSelected = errors.New("transaction was not selected")
)

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// blockError returns the error reported for a node blocked at graph build
// time.
func blockError(node *txgraph.Node) error {
	switch node.Block {
	case txgraph.BlockDuplicate:
		return ErrDuplicateTx
	case txgraph.BlockInvalid:
		return node.Result.Err
	case txgraph.BlockMissingInput:
		return ErrMissingInputs
	case txgraph.BlockCycle:
		return ErrDependencyCycle
	}
	return AssertError(fmt.Sprintf("node %v is not blocked", node.Hash))
}
