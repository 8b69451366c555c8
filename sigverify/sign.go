// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigverify

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/txselect/wire"
)

// OwnerECDSA returns the owner credential that locks an output to pubKey for
// ECDSA spending.  It is the compressed serialization of the key.
func OwnerECDSA(pubKey *btcec.PublicKey) []byte {
	return pubKey.SerializeCompressed()
}

// OwnerSchnorr returns the owner credential that locks an output to pubKey
// for Schnorr spending.  It is the 32-byte x-only serialization of the key.
func OwnerSchnorr(pubKey *btcec.PublicKey) []byte {
	return schnorr.SerializePubKey(pubKey)
}

// SignECDSA produces a DER encoded ECDSA proof for input idx of tx.
func SignECDSA(tx *wire.MsgTx, idx int, privKey *btcec.PrivateKey) ([]byte, error) {
	digest, err := tx.SignatureDigest(idx)
	if err != nil {
		return nil, err
	}
	return ecdsa.Sign(privKey, digest[:]).Serialize(), nil
}

// SignSchnorr produces a BIP-340 Schnorr proof for input idx of tx.
func SignSchnorr(tx *wire.MsgTx, idx int, privKey *btcec.PrivateKey) ([]byte, error) {
	digest, err := tx.SignatureDigest(idx)
	if err != nil {
		return nil, err
	}
	sig, err := schnorr.Sign(privKey, digest[:])
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

// SignAll fills in the proof of every input of tx using the key returned by
// keyFor for that input.  Inputs for which keyFor returns nil are left
// untouched.  Schnorr proofs are produced when schnorrSig is set.
//
// Proofs are not covered by the signature digest, so inputs may be signed in
// any order.
func SignAll(tx *wire.MsgTx, keyFor func(idx int) *btcec.PrivateKey,
	schnorrSig bool) error {

	for idx, txIn := range tx.TxIn {
		privKey := keyFor(idx)
		if privKey == nil {
			continue
		}

		var (
			proof []byte
			err   error
		)
		if schnorrSig {
			proof, err = SignSchnorr(tx, idx, privKey)
		} else {
			proof, err = SignECDSA(tx, idx, privKey)
		}
		if err != nil {
			return err
		}
		txIn.Proof = proof
	}
	return nil
}
