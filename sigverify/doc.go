// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package sigverify provides the unlock verification used when a transaction
spends pool outputs.

An output is locked to an owner credential, which is a serialized secp256k1
public key.  A spending input carries a proof, which is a signature over the
transaction's signature digest (see wire.MsgTx.SignatureDigest).  Two
signature schemes are supported:

  - ECDSA, with DER encoded signatures and 33 or 65-byte public keys
  - BIP-340 Schnorr, with 64-byte signatures and 32-byte x-only public keys

StandardVerifier picks the scheme from the length of the owner credential.
Verifiers may be wrapped in a CachingVerifier backed by a SigCache so that
repeated checks of the same (digest, proof, owner) triple are free.
*/
package sigverify
