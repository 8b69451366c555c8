// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the transaction data model and its binary encoding.

A transaction (MsgTx) spends previously created outputs, each referenced by an
OutPoint (the producing transaction hash and the output index), and creates
new outputs (TxOut) which carry a value in atoms and the credential of their
owner.  Each input carries a proof which must verify against the owner
credential of the output it spends.

Serialization

All integers are little endian.  Counts and byte strings are prefixed with a
variable length integer:

	version      int32
	input count  varint
	  hash       [32]byte
	  index      uint32
	  proof      varbytes
	output count varint
	  value      int64
	  owner      varbytes

The transaction hash (TxHash) is the double SHA-256 of this encoding and
identifies the transaction.  The signature digest (SignatureDigest) is the
double SHA-256 of the same data with every proof left out and the index of the
signed input mixed in.
*/
package wire
