// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txgraph builds the dependency graph among the transactions of a
// single batch.
//
// An edge runs from a producer to a dependent when the dependent spends an
// output the producer creates and that output is not yet in the pool.  Nodes
// which can never be selected carry a BlockReason:
//
//   - BlockDuplicate for repeats of an earlier transaction
//   - BlockInvalid for transactions the classifier rejected
//   - BlockMissingInput for transactions spending outputs nobody produces
//   - BlockCycle for transactions on, or downstream of, a spending cycle
//
// Every other node is either a Valid root or reachable from the roots by
// following edges, so a selector walking the graph from its roots never
// waits on a node that cannot be committed.
package txgraph
