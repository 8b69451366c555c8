// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/internal/collections"
	"github.com/btcsuite/txselect/validate"
	"github.com/btcsuite/txselect/wire"
)

// NodeID indexes a node in the graph arena.  IDs follow batch order.
type NodeID int

// BlockReason explains why a node can never be selected.
type BlockReason uint8

const (
	// BlockNone marks a node that may still be selected.
	BlockNone BlockReason = iota

	// BlockDuplicate marks a repeat of a transaction that appeared
	// earlier in the batch.
	BlockDuplicate

	// BlockInvalid marks a transaction classified as invalid.
	BlockInvalid

	// BlockMissingInput marks a transaction that spends an output which
	// neither the pool nor any selectable transaction of the batch can
	// provide.
	BlockMissingInput

	// BlockCycle marks a transaction that is part of, or depends on, a
	// cycle of transactions spending each other's outputs.
	BlockCycle
)

var blockReasonStrings = map[BlockReason]string{
	BlockNone:         "none",
	BlockDuplicate:    "duplicate",
	BlockInvalid:      "invalid",
	BlockMissingInput: "missing input",
	BlockCycle:        "dependency cycle",
}

// String returns the BlockReason in human-readable form.
func (r BlockReason) String() string {
	if s, ok := blockReasonStrings[r]; ok {
		return s
	}
	return fmt.Sprintf("Unknown BlockReason (%d)", uint8(r))
}

// Node is a transaction of the batch together with its classification and
// its edges to the other transactions of the batch.
type Node struct {
	ID   NodeID
	Tx   *wire.MsgTx
	Hash chainhash.Hash

	// Result is the classification of Tx against the pool at build time.
	// It is the zero Result for duplicates, which are never classified.
	Result validate.Result

	// Producers are the distinct batch transactions creating outputs this
	// node spends.  Dependents are the distinct batch transactions
	// spending outputs this node creates.
	Producers  []NodeID
	Dependents []NodeID

	Block BlockReason
}

// Class returns the build time classification of the node.
func (n *Node) Class() validate.Classification {
	return n.Result.Class
}

// Fee returns the build time fee of the node.  It is only known for Valid
// nodes.
func (n *Node) Fee() btcutil.Amount {
	return n.Result.Fee
}

// Graph is the dependency graph of one batch.  Nodes live in a flat arena and
// reference each other by NodeID, so cyclic batches cannot form reference
// cycles between nodes.
type Graph struct {
	nodes  []Node
	byHash map[chainhash.Hash]NodeID
}

// Build classifies every transaction of batch and links each transaction with
// unresolved inputs to the batch transactions producing them.
//
// A transaction with an unresolved input that no selectable batch transaction
// produces is marked BlockMissingInput, as is everything depending on it.
// Transactions that still cannot be ordered after peeling the graph from its
// Valid roots sit on, or downstream of, a cycle and are marked BlockCycle.
func Build(batch []*wire.MsgTx, classify func(*wire.MsgTx) validate.Result) *Graph {
	return build(batch, (*wire.MsgTx).TxHash, classify)
}

// build implements Build with a caller supplied transaction id function.
func build(batch []*wire.MsgTx, txHash func(*wire.MsgTx) chainhash.Hash,
	classify func(*wire.MsgTx) validate.Result) *Graph {

	g := &Graph{
		nodes:  make([]Node, len(batch)),
		byHash: make(map[chainhash.Hash]NodeID, len(batch)),
	}

	for i, tx := range batch {
		node := &g.nodes[i]
		node.ID = NodeID(i)
		node.Tx = tx
		node.Hash = txHash(tx)

		if _, exists := g.byHash[node.Hash]; exists {
			node.Block = BlockDuplicate
			continue
		}
		g.byHash[node.Hash] = node.ID

		node.Result = classify(tx)
		if node.Result.Class == validate.Invalid {
			node.Block = BlockInvalid
		}
	}

	g.link()
	g.propagateMissing()
	g.markCycles()

	return g
}

// link adds an edge from every producer to each potentially valid node
// spending one of its outputs.  Nodes with an input no candidate produces are
// marked BlockMissingInput.
func (g *Graph) link() {
	for i := range g.nodes {
		node := &g.nodes[i]
		if node.Block != BlockNone ||
			node.Result.Class != validate.PotentiallyValid {

			continue
		}

		for _, outpoint := range node.Result.Unresolved {
			producerID, ok := g.byHash[outpoint.Hash]
			if !ok {
				node.Block = BlockMissingInput
				break
			}
			producer := &g.nodes[producerID]
			if producer.Block == BlockInvalid ||
				int(outpoint.Index) >= len(producer.Tx.TxOut) {

				node.Block = BlockMissingInput
				break
			}
			if !containsID(node.Producers, producerID) {
				node.Producers = append(node.Producers, producerID)
			}
		}
		if node.Block != BlockNone {
			node.Producers = nil
			continue
		}

		for _, producerID := range node.Producers {
			producer := &g.nodes[producerID]
			producer.Dependents = append(producer.Dependents, node.ID)
		}
	}
}

// propagateMissing marks every node downstream of a BlockMissingInput node as
// BlockMissingInput too.
func (g *Graph) propagateMissing() {
	queue := collections.NewQueue[NodeID](0)
	for i := range g.nodes {
		if g.nodes[i].Block == BlockMissingInput {
			queue.Enqueue(NodeID(i))
		}
	}

	for !queue.IsEmpty() {
		id, _ := queue.Dequeue()
		for _, dependentID := range g.nodes[id].Dependents {
			dependent := &g.nodes[dependentID]
			if dependent.Block != BlockNone {
				continue
			}
			dependent.Block = BlockMissingInput
			queue.Enqueue(dependentID)
		}
	}
}

// markCycles peels the graph from its Valid roots: a node is peeled once all
// of its producers are.  Selectable nodes left unpeeled can never have all
// of their producers committed and are marked BlockCycle.
func (g *Graph) markCycles() {
	pending := make([]int, len(g.nodes))
	queue := collections.NewQueue[NodeID](len(g.nodes))
	for i := range g.nodes {
		node := &g.nodes[i]
		if node.Block != BlockNone {
			continue
		}
		pending[i] = len(node.Producers)
		if pending[i] == 0 {
			queue.Enqueue(node.ID)
		}
	}

	peeled := make([]bool, len(g.nodes))
	for !queue.IsEmpty() {
		id, _ := queue.Dequeue()
		peeled[id] = true
		for _, dependentID := range g.nodes[id].Dependents {
			if g.nodes[dependentID].Block != BlockNone {
				continue
			}
			pending[dependentID]--
			if pending[dependentID] == 0 {
				queue.Enqueue(dependentID)
			}
		}
	}

	for i := range g.nodes {
		if g.nodes[i].Block == BlockNone && !peeled[i] {
			g.nodes[i].Block = BlockCycle
		}
	}
}

// Len returns the number of nodes, which equals the batch size.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.  It panics when id is out of
// range.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Lookup returns the id of the first node of the batch with the given
// transaction hash.
func (g *Graph) Lookup(hash chainhash.Hash) (NodeID, bool) {
	id, ok := g.byHash[hash]
	return id, ok
}

// Roots returns the ids of the selectable Valid nodes in batch order.
func (g *Graph) Roots() []NodeID {
	var roots []NodeID
	for i := range g.nodes {
		node := &g.nodes[i]
		if node.Block == BlockNone && node.Result.Class == validate.Valid {
			roots = append(roots, node.ID)
		}
	}
	return roots
}

// Dependents returns the ids of the nodes spending outputs of node id.
func (g *Graph) Dependents(id NodeID) []NodeID {
	return g.nodes[id].Dependents
}

// Blocked returns the ids of the nodes that can never be selected, in batch
// order.
func (g *Graph) Blocked() []NodeID {
	var blocked []NodeID
	for i := range g.nodes {
		if g.nodes[i].Block != BlockNone {
			blocked = append(blocked, NodeID(i))
		}
	}
	return blocked
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}
