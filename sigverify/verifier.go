// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigverify

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Verifier checks that proof unlocks an output owned by owner for a
// transaction whose signature digest is digest.
//
// Implementations must be deterministic and free of side effects that are
// observable by the caller.
type Verifier interface {
	Verify(digest, proof, owner []byte) bool
}

// VerifierFunc is an adapter to allow the use of ordinary functions as a
// Verifier.
type VerifierFunc func(digest, proof, owner []byte) bool

// Verify calls f(digest, proof, owner).
func (f VerifierFunc) Verify(digest, proof, owner []byte) bool {
	return f(digest, proof, owner)
}

// ECDSAVerifier verifies DER encoded ECDSA signatures against owners that are
// serialized secp256k1 public keys in compressed or uncompressed form.
type ECDSAVerifier struct{}

// Verify returns whether proof is a valid ECDSA signature of digest under the
// public key owner.
func (ECDSAVerifier) Verify(digest, proof, owner []byte) bool {
	pubKey, err := btcec.ParsePubKey(owner)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(proof)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pubKey)
}

// SchnorrVerifier verifies BIP-340 Schnorr signatures against owners that are
// 32-byte x-only secp256k1 public keys.
type SchnorrVerifier struct{}

// Verify returns whether proof is a valid Schnorr signature of digest under
// the x-only public key owner.
func (SchnorrVerifier) Verify(digest, proof, owner []byte) bool {
	pubKey, err := schnorr.ParsePubKey(owner)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(proof)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pubKey)
}

// StandardVerifier dispatches on the form of the owner credential: 32-byte
// x-only keys are checked as Schnorr signatures and every other key as ECDSA.
type StandardVerifier struct{}

// Verify implements the Verifier interface.
func (StandardVerifier) Verify(digest, proof, owner []byte) bool {
	if len(owner) == schnorr.PubKeyBytesLen {
		return SchnorrVerifier{}.Verify(digest, proof, owner)
	}
	return ECDSAVerifier{}.Verify(digest, proof, owner)
}

// Ensure the verifiers implement the Verifier interface.
var (
	_ Verifier = ECDSAVerifier{}
	_ Verifier = SchnorrVerifier{}
	_ Verifier = StandardVerifier{}
	_ Verifier = VerifierFunc(nil)
)
