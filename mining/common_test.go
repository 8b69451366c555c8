// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/sigverify"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
	"github.com/stretchr/testify/require"
)

// allStrategies lists every selection strategy.
var allStrategies = []Strategy{StrategyGreedy, StrategyBasic, StrategySearch}

// keyFor deterministically derives the private key of a named test party.
func keyFor(name string) *btcec.PrivateKey {
	seed := sha256.Sum256([]byte(name))
	privKey, _ := btcec.PrivKeyFromBytes(seed[:])
	return privKey
}

// ownerOf returns the owner credential of a named test party.
func ownerOf(name string) []byte {
	return sigverify.OwnerECDSA(keyFor(name).PubKey())
}

// fundingOutpoint returns an outpoint of a made up transaction outside the
// batch.
func fundingOutpoint(name string) wire.OutPoint {
	return wire.OutPoint{Hash: chainhash.DoubleHashH([]byte(name))}
}

// payment is an output to create.
type payment struct {
	value int64
	to    string
}

// spendInput is an input to create along with the party that signs it.
type spendInput struct {
	outpoint wire.OutPoint
	signer   string
}

// signedTx builds a transaction spending ins and paying outs, with every
// input signed by its signer.
func signedTx(t *testing.T, ins []spendInput, outs ...payment) *wire.MsgTx {
	t.Helper()

	tx := wire.NewMsgTx(wire.TxVersion)
	for i := range ins {
		tx.AddTxIn(wire.NewTxIn(&ins[i].outpoint, nil))
	}
	for _, out := range outs {
		tx.AddTxOut(wire.NewTxOut(out.value, ownerOf(out.to)))
	}
	err := sigverify.SignAll(tx, func(idx int) *btcec.PrivateKey {
		return keyFor(ins[idx].signer)
	}, false)
	require.NoError(t, err)
	return tx
}

// outputOf returns the outpoint of output index of tx.
func outputOf(tx *wire.MsgTx, index uint32) wire.OutPoint {
	return wire.OutPoint{Hash: tx.TxHash(), Index: index}
}

// poolWith returns a pool holding the given outputs.
func poolWith(t *testing.T, outputs map[wire.OutPoint]payment) *utxo.Pool {
	t.Helper()

	pool := utxo.NewPool()
	for outpoint, out := range outputs {
		entry := utxo.NewEntry(btcutil.Amount(out.value), ownerOf(out.to))
		require.NoError(t, pool.Insert(outpoint, entry))
	}
	return pool
}

// acceptedHashes returns the ids of the accepted transactions in order.
func acceptedHashes(result *BatchResult) []chainhash.Hash {
	hashes := make([]chainhash.Hash, 0, len(result.Accepted))
	for _, desc := range result.Accepted {
		hashes = append(hashes, desc.Hash)
	}
	return hashes
}

// rejection returns the rejection of the transaction with the given id or
// nil.
func rejection(result *BatchResult, hash chainhash.Hash) *Rejection {
	for _, rej := range result.Rejected {
		if rej.Hash == hash {
			return rej
		}
	}
	return nil
}

// ownerProofVerifier accepts a proof that equals the owner credential.  It
// keeps property tests fast.
var ownerProofVerifier = sigverify.VerifierFunc(func(_, proof, owner []byte) bool {
	return bytes.Equal(proof, owner)
})
