// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txgraph

import (
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/sigverify"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/validate"
	"github.com/btcsuite/txselect/wire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	goodProof = []byte{1}
	badProof  = []byte{0}
)

// newClassifier returns a classifier accepting exactly goodProof.
func newClassifier() *validate.Classifier {
	return validate.NewClassifier(validate.Config{
		Verifier: sigverify.VerifierFunc(func(_, proof, _ []byte) bool {
			return len(proof) == 1 && proof[0] == 1
		}),
	})
}

// classifyAgainst returns a classify function over pool.
func classifyAgainst(pool *utxo.Pool) func(*wire.MsgTx) validate.Result {
	c := newClassifier()
	return func(tx *wire.MsgTx) validate.Result {
		return c.Classify(tx, pool)
	}
}

// fundedPool returns a pool holding a single output of value 100 along with
// its outpoint.
func fundedPool(t *testing.T) (*utxo.Pool, wire.OutPoint) {
	t.Helper()

	op := wire.OutPoint{Hash: chainhash.DoubleHashH([]byte("funding"))}
	pool := utxo.NewPool()
	require.NoError(t, pool.Insert(op, utxo.NewEntry(100, nil)))
	return pool, op
}

// spend returns a transaction spending ins with the given proof and creating
// an output for each value.
func spend(proof []byte, ins []wire.OutPoint, values ...int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for i := range ins {
		tx.AddTxIn(wire.NewTxIn(&ins[i], proof))
	}
	for _, value := range values {
		tx.AddTxOut(wire.NewTxOut(value, nil))
	}
	return tx
}

// out returns outpoint index of tx.
func out(tx *wire.MsgTx, index uint32) wire.OutPoint {
	return wire.OutPoint{Hash: tx.TxHash(), Index: index}
}

func TestBuildChain(t *testing.T) {
	t.Parallel()

	pool, funding := fundedPool(t)
	parent := spend(goodProof, []wire.OutPoint{funding}, 40, 50)
	child := spend(goodProof, []wire.OutPoint{out(parent, 0), out(parent, 1)}, 80)
	grandchild := spend(goodProof, []wire.OutPoint{out(child, 0)}, 70)

	// Dependents come first so the graph can not rely on batch order.
	g := Build([]*wire.MsgTx{grandchild, child, parent}, classifyAgainst(pool))

	require.Equal(t, 3, g.Len())
	require.Empty(t, g.Blocked())
	require.Equal(t, []NodeID{2}, g.Roots())

	require.Equal(t, validate.Valid, g.Node(2).Class())
	require.EqualValues(t, 10, g.Node(2).Fee())
	require.Equal(t, validate.PotentiallyValid, g.Node(1).Class())

	// Both inputs of child come from parent, which yields a single edge.
	require.Equal(t, []NodeID{1}, g.Dependents(2))
	require.Equal(t, []NodeID{2}, g.Node(1).Producers)
	require.Equal(t, []NodeID{0}, g.Dependents(1))
	require.Empty(t, g.Dependents(0))

	id, ok := g.Lookup(child.TxHash())
	require.True(t, ok)
	require.Equal(t, NodeID(1), id)
	_, ok = g.Lookup(chainhash.Hash{})
	require.False(t, ok)
}

func TestBuildBlocked(t *testing.T) {
	t.Parallel()

	pool, funding := fundedPool(t)
	unknown := wire.OutPoint{Hash: chainhash.DoubleHashH([]byte("unknown"))}

	valid := spend(goodProof, []wire.OutPoint{funding}, 90)
	invalid := spend(badProof, []wire.OutPoint{funding}, 90)
	fromInvalid := spend(goodProof, []wire.OutPoint{out(invalid, 0)}, 1)
	missing := spend(goodProof, []wire.OutPoint{unknown}, 1)
	fromMissing := spend(goodProof, []wire.OutPoint{out(missing, 0)}, 1)
	badIndex := spend(goodProof, []wire.OutPoint{out(valid, 1)}, 1)
	partlyMissing := spend(goodProof, []wire.OutPoint{out(valid, 0), unknown}, 1)

	batch := []*wire.MsgTx{
		valid, invalid, fromInvalid, missing, fromMissing, badIndex,
		partlyMissing, valid,
	}
	g := Build(batch, classifyAgainst(pool))

	want := []BlockReason{
		BlockNone, BlockInvalid, BlockMissingInput, BlockMissingInput,
		BlockMissingInput, BlockMissingInput, BlockMissingInput,
		BlockDuplicate,
	}
	for i, reason := range want {
		require.Equal(t, reason, g.Node(NodeID(i)).Block, "node %d", i)
	}
	require.Equal(t, []NodeID{0}, g.Roots())
	require.Equal(t, []NodeID{1, 2, 3, 4, 5, 6, 7}, g.Blocked())

	// Blocked nodes never hang off a selectable producer.
	require.Empty(t, g.Dependents(0))

	// Duplicates are not classified.
	require.Zero(t, g.Node(7).Class())
}

// fakeHasher assigns made up ids to transactions so tests can build spending
// cycles, which real ids make infeasible.
type fakeHasher map[*wire.MsgTx]chainhash.Hash

func (f fakeHasher) hash(tx *wire.MsgTx) chainhash.Hash {
	return f[tx]
}

func fakeHash(name string) chainhash.Hash {
	return chainhash.DoubleHashH([]byte(name))
}

func TestBuildCycle(t *testing.T) {
	t.Parallel()

	pool, funding := fundedPool(t)
	hashA, hashB := fakeHash("a"), fakeHash("b")
	hashR, hashD := fakeHash("r"), fakeHash("d")

	// a and b spend each other, d hangs off a and r is a valid root with
	// a dependent that also spends from the cycle.
	a := spend(goodProof, []wire.OutPoint{{Hash: hashB}}, 5, 5)
	b := spend(goodProof, []wire.OutPoint{{Hash: hashA}}, 5)
	d := spend(goodProof, []wire.OutPoint{{Hash: hashA, Index: 1}}, 1)
	r := spend(goodProof, []wire.OutPoint{funding}, 90)
	rChild := spend(goodProof, []wire.OutPoint{{Hash: hashR}, {Hash: hashD}}, 1)

	hasher := fakeHasher{
		a: hashA, b: hashB, d: hashD, r: hashR,
		rChild: fakeHash("rchild"),
	}
	g := build([]*wire.MsgTx{a, b, d, r, rChild}, hasher.hash,
		classifyAgainst(pool))

	want := []BlockReason{
		BlockCycle, BlockCycle, BlockCycle, BlockNone, BlockCycle,
	}
	for i, reason := range want {
		require.Equal(t, reason, g.Node(NodeID(i)).Block, "node %d", i)
	}
	require.Equal(t, []NodeID{3}, g.Roots())
}

// TestBuildProperties checks structural invariants of graphs built from
// random batches whose transactions spend the pool, each other and
// themselves.
func TestBuildProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		numTxs := rapid.IntRange(1, 12).Draw(t, "numTxs")
		hashes := make([]chainhash.Hash, numTxs)
		for i := range hashes {
			hashes[i] = fakeHash(fmt.Sprintf("tx%d", i))
		}

		pool := utxo.NewPool()
		hasher := make(fakeHasher)
		batch := make([]*wire.MsgTx, numTxs)
		for i := range batch {
			numIns := rapid.IntRange(1, 3).Draw(t, "numIns")
			seen := make(map[wire.OutPoint]bool)
			var ins []wire.OutPoint
			for j := 0; j < numIns; j++ {
				var op wire.OutPoint
				src := rapid.IntRange(-2, numTxs-1).Draw(t, "src")
				switch {
				case src == -2:
					op = wire.OutPoint{Hash: fakeHash("unknown")}
				case src == -1:
					op = wire.OutPoint{
						Hash:  fakeHash("pool"),
						Index: uint32(i*3 + j),
					}
					err := pool.Insert(op, utxo.NewEntry(10, nil))
					require.NoError(t, err)
				default:
					op = wire.OutPoint{
						Hash:  hashes[src],
						Index: uint32(rapid.IntRange(0, 2).Draw(t, "idx")),
					}
				}
				if !seen[op] {
					seen[op] = true
					ins = append(ins, op)
				}
			}
			proof := rapid.SampledFrom([][]byte{goodProof, goodProof,
				badProof}).Draw(t, "proof")
			batch[i] = spend(proof, ins, 1, 1)
			hasher[batch[i]] = hashes[i]
		}

		g := build(batch, hasher.hash, classifyAgainst(pool))
		require.Equal(t, numTxs, g.Len())

		selectable := make(map[NodeID]bool)
		for i := 0; i < g.Len(); i++ {
			node := g.Node(NodeID(i))
			if node.Block == BlockNone {
				selectable[node.ID] = true
			}
			switch node.Class() {
			case validate.Invalid:
				require.Equal(t, BlockInvalid, node.Block)
			case validate.Valid:
				require.Equal(t, BlockNone, node.Block)
				require.Empty(t, node.Producers)
			}
		}

		// Edges are symmetric and selectable nodes only depend on
		// selectable producers.
		for id := range selectable {
			node := g.Node(id)
			for _, producerID := range node.Producers {
				require.True(t, selectable[producerID])
				require.Contains(t, g.Dependents(producerID), id)
			}
		}

		// Selectable nodes can be ordered topologically.
		done := make(map[NodeID]bool)
		for progress := true; progress; {
			progress = false
			for id := range selectable {
				if done[id] {
					continue
				}
				ready := true
				for _, producerID := range g.Node(id).Producers {
					ready = ready && done[producerID]
				}
				if ready {
					done[id] = true
					progress = true
				}
			}
		}
		require.Len(t, done, len(selectable))
	})
}

func TestBlockReasonStringer(t *testing.T) {
	require.Equal(t, "dependency cycle", BlockCycle.String())
	require.Equal(t, "missing input", BlockMissingInput.String())
	require.Equal(t, "Unknown BlockReason (200)", BlockReason(200).String())
}
