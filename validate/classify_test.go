// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validate

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/sigverify"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	goodProof = []byte{1}
	badProof  = []byte{0}
)

// proofVerifier accepts exactly the goodProof.
var proofVerifier = sigverify.VerifierFunc(func(_, proof, _ []byte) bool {
	return len(proof) == 1 && proof[0] == 1
})

// outpoint returns an outpoint of a made up funding transaction.
func outpoint(seed string, index uint32) wire.OutPoint {
	return wire.OutPoint{
		Hash:  chainhash.DoubleHashH([]byte(seed)),
		Index: index,
	}
}

// newTestPool returns a pool with an output of the given value for each
// index of the "funding" transaction.
func newTestPool(t *testing.T, values ...int64) *utxo.Pool {
	pool := utxo.NewPool()
	for i, value := range values {
		err := pool.Insert(outpoint("funding", uint32(i)),
			utxo.NewEntry(btcutil.Amount(value), []byte("owner")))
		require.NoError(t, err)
	}
	return pool
}

// newTx builds a transaction spending ins with the given proof and creating
// one output per value.
func newTx(ins []wire.OutPoint, proof []byte, values ...int64) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for i := range ins {
		tx.AddTxIn(wire.NewTxIn(&ins[i], proof))
	}
	for _, value := range values {
		tx.AddTxOut(wire.NewTxOut(value, []byte("owner")))
	}
	return tx
}

func TestClassify(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 4, 4)
	c := NewClassifier(Config{Verifier: proofVerifier})

	in0 := outpoint("funding", 0)
	in1 := outpoint("funding", 1)
	missing := outpoint("elsewhere", 0)

	tests := []struct {
		name       string
		tx         *wire.MsgTx
		class      Classification
		code       ErrorCode
		fee        btcutil.Amount
		unresolved []wire.OutPoint
	}{{
		name:  "no inputs",
		tx:    newTx(nil, nil, 1),
		class: Invalid,
		code:  ErrNoTxInputs,
	}, {
		name:  "duplicate resolved inputs",
		tx:    newTx([]wire.OutPoint{in0, in0}, goodProof, 1),
		class: Invalid,
		code:  ErrDuplicateTxInputs,
	}, {
		name:  "duplicate unresolved inputs",
		tx:    newTx([]wire.OutPoint{missing, missing}, goodProof, 1),
		class: Invalid,
		code:  ErrDuplicateTxInputs,
	}, {
		name:  "bad proof",
		tx:    newTx([]wire.OutPoint{in0}, badProof, 1),
		class: Invalid,
		code:  ErrBadProof,
	}, {
		name:  "bad proof beside unresolved input",
		tx:    newTx([]wire.OutPoint{missing, in0}, badProof, 1),
		class: Invalid,
		code:  ErrBadProof,
	}, {
		name:  "negative output",
		tx:    newTx([]wire.OutPoint{in0}, goodProof, 1, -1),
		class: Invalid,
		code:  ErrNegativeOutput,
	}, {
		name:  "negative output with unresolved input",
		tx:    newTx([]wire.OutPoint{missing}, goodProof, -1),
		class: Invalid,
		code:  ErrNegativeOutput,
	}, {
		name:  "output above max",
		tx:    newTx([]wire.OutPoint{in0}, goodProof, btcutil.MaxSatoshi+1),
		class: Invalid,
		code:  ErrOutputTooLarge,
	}, {
		name: "output sum above max",
		tx: newTx([]wire.OutPoint{missing}, goodProof,
			btcutil.MaxSatoshi, 1),
		class: Invalid,
		code:  ErrOutputTooLarge,
	}, {
		name:  "spend too high",
		tx:    newTx([]wire.OutPoint{in0, in1}, goodProof, 5, 4),
		class: Invalid,
		code:  ErrSpendTooHigh,
	}, {
		name:  "valid with fee",
		tx:    newTx([]wire.OutPoint{in0, in1}, goodProof, 3, 3),
		class: Valid,
		fee:   2,
	}, {
		name:  "valid without fee",
		tx:    newTx([]wire.OutPoint{in0}, goodProof, 4),
		class: Valid,
	}, {
		name:  "valid without outputs",
		tx:    newTx([]wire.OutPoint{in0}, goodProof),
		class: Valid,
		fee:   4,
	}, {
		name:       "unresolved input",
		tx:         newTx([]wire.OutPoint{in0, missing}, goodProof, 100),
		class:      PotentiallyValid,
		unresolved: []wire.OutPoint{missing},
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := c.Classify(test.tx, pool)
			require.Equal(t, test.class, result.Class)
			require.Equal(t, test.class == Valid, c.IsValid(test.tx, pool))

			if test.class == Invalid {
				require.True(t, IsErrorCode(result.Err, test.code),
					"got %v, want %v", result.Err, test.code)
				return
			}

			require.NoError(t, result.Err)
			require.Equal(t, test.fee, result.Fee)
			require.Equal(t, test.unresolved, result.Unresolved)
		})
	}
}

// TestClassifySignatures exercises the default verifier and digest with real
// signatures.
func TestClassifySignatures(t *testing.T) {
	t.Parallel()

	ecdsaKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	schnorrKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	pool := utxo.NewPool()
	require.NoError(t, pool.Insert(outpoint("funding", 0), utxo.NewEntry(
		5, sigverify.OwnerECDSA(ecdsaKey.PubKey()))))
	require.NoError(t, pool.Insert(outpoint("funding", 1), utxo.NewEntry(
		5, sigverify.OwnerSchnorr(schnorrKey.PubKey()))))

	tx := newTx([]wire.OutPoint{
		outpoint("funding", 0), outpoint("funding", 1),
	}, nil, 7)
	proof0, err := sigverify.SignECDSA(tx, 0, ecdsaKey)
	require.NoError(t, err)
	proof1, err := sigverify.SignSchnorr(tx, 1, schnorrKey)
	require.NoError(t, err)
	tx.TxIn[0].Proof = proof0
	tx.TxIn[1].Proof = proof1

	c := NewClassifier(Config{})
	result := c.Classify(tx, pool)
	require.Equal(t, Valid, result.Class, "%v", result.Err)
	require.Equal(t, btcutil.Amount(3), result.Fee)

	// Swapping the proofs breaks both inputs.
	tx.TxIn[0].Proof, tx.TxIn[1].Proof = proof1, proof0
	result = c.Classify(tx, pool)
	require.Equal(t, Invalid, result.Class)
	require.True(t, IsErrorCode(result.Err, ErrBadProof))

	// Changing an output invalidates the signed digest.
	tx.TxIn[0].Proof, tx.TxIn[1].Proof = proof0, proof1
	tx.TxOut[0].Value = 6
	require.False(t, c.IsValid(tx, pool))
}

// TestClassifyResolvesThroughView checks an input created inside a view is
// resolved once the producing transaction is applied to it.
func TestClassifyResolvesThroughView(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 10)
	c := NewClassifier(Config{Verifier: proofVerifier})

	parent := newTx([]wire.OutPoint{outpoint("funding", 0)}, goodProof, 9)
	child := newTx([]wire.OutPoint{{Hash: parent.TxHash()}}, goodProof, 7)

	require.Equal(t, PotentiallyValid, c.Classify(child, pool).Class)

	view := utxo.NewView(pool)
	require.NoError(t, view.Spend(parent))

	result := c.Classify(child, view)
	require.Equal(t, Valid, result.Class)
	require.Equal(t, btcutil.Amount(2), result.Fee)

	// The parent is no longer spendable in the view.
	require.Equal(t, PotentiallyValid, c.Classify(parent, view).Class)
}

// TestClassifyDeterministic checks that classifying the same transaction
// twice against an unchanged pool yields the same result and that Valid
// results always satisfy the balance law.
func TestClassifyDeterministic(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		poolValues := rapid.SliceOfN(
			rapid.Int64Range(0, 100), 1, 6,
		).Draw(t, "poolValues")

		pool := utxo.NewPool()
		for i, value := range poolValues {
			err := pool.Insert(outpoint("funding", uint32(i)),
				utxo.NewEntry(btcutil.Amount(value), nil))
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
		}

		numIns := rapid.IntRange(0, 4).Draw(t, "numIns")
		ins := make([]wire.OutPoint, numIns)
		for i := range ins {
			ins[i] = outpoint("funding", uint32(rapid.IntRange(
				0, len(poolValues)+1).Draw(t, "in")))
		}
		proof := rapid.SampledFrom([][]byte{goodProof, badProof}).
			Draw(t, "proof")
		outs := rapid.SliceOfN(rapid.Int64Range(-5, 150), 0, 3).
			Draw(t, "outs")
		tx := newTx(ins, proof, outs...)

		c := NewClassifier(Config{Verifier: proofVerifier})
		before := pool.Outpoints()
		first := c.Classify(tx, pool)
		second := c.Classify(tx, pool)

		require.Equal(t, first, second)
		require.Equal(t, before, pool.Outpoints())
		require.Equal(t, first.Class == Valid, c.IsValid(tx, pool))
		require.NotZero(t, first.Class)

		switch first.Class {
		case Valid:
			require.Empty(t, first.Unresolved)
			require.GreaterOrEqual(t, int64(first.Fee), int64(0))
			require.Equal(t, first.InputValue-first.OutputValue, first.Fee)

		case PotentiallyValid:
			require.NotEmpty(t, first.Unresolved)

		case Invalid:
			var rerr RuleError
			require.ErrorAs(t, first.Err, &rerr)
		}
	})
}

// TestErrorCodeStringer tests the stringized output for the ErrorCode type.
func TestErrorCodeStringer(t *testing.T) {
	tests := []struct {
		in   ErrorCode
		want string
	}{
		{ErrNoTxInputs, "ErrNoTxInputs"},
		{ErrDuplicateTxInputs, "ErrDuplicateTxInputs"},
		{ErrBadProof, "ErrBadProof"},
		{ErrBadTxInput, "ErrBadTxInput"},
		{ErrNegativeOutput, "ErrNegativeOutput"},
		{ErrOutputTooLarge, "ErrOutputTooLarge"},
		{ErrSpendTooHigh, "ErrSpendTooHigh"},
		{0xffff, "Unknown ErrorCode (65535)"},
	}

	// Detect additional error codes that don't have the stringer added.
	if len(tests)-1 != int(numErrorCodes) {
		t.Errorf("It appears an error code was added without adding an " +
			"associated stringer test")
	}

	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
		}
	}
}

func TestClassificationStringer(t *testing.T) {
	require.Equal(t, "valid", Valid.String())
	require.Equal(t, "potentially valid", PotentiallyValid.String())
	require.Equal(t, "invalid", Invalid.String())
	require.Equal(t, "Unknown Classification (0)", Classification(0).String())
}
