// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion = 1

	// MaxTxPayload is the maximum number of bytes a serialized transaction
	// may occupy.
	MaxTxPayload = 1000000

	// MaxProofSize is the maximum number of bytes an unlocking proof may
	// occupy.
	MaxProofSize = 1024

	// MaxOwnerSize is the maximum number of bytes an owner credential may
	// occupy.
	MaxOwnerSize = 128

	// minTxInPayload is the minimum payload size for a transaction input.
	// PreviousOutPoint.Hash + PreviousOutPoint.Index 4 bytes + Varint for
	// Proof length 1 byte.
	minTxInPayload = chainhash.HashSize + 4 + 1

	// minTxOutPayload is the minimum payload size for a transaction output.
	// Value 8 bytes + Varint for Owner length 1 byte.
	minTxOutPayload = 8 + 1

	// maxTxInPerTx is the maximum number of transaction inputs that a
	// transaction which fits into a payload could possibly have.
	maxTxInPerTx = MaxTxPayload / minTxInPayload

	// maxTxOutPerTx is the maximum number of transaction outputs that a
	// transaction which fits into a payload could possibly have.
	maxTxOutPerTx = MaxTxPayload / minTxOutPayload
)

// OutPoint identifies a single spendable output: the hash of the transaction
// that produced it and the index of the output within that transaction.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint point with the provided hash
// and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	// Allocate enough for hash string, colon, and 10 digits.
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// TxIn defines a transaction input: a reference to the output being spent
// and the proof that unlocks it.
type TxIn struct {
	PreviousOutPoint OutPoint
	Proof            []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction input.
func (t *TxIn) SerializeSize() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + serialized varint
	// size for the length of Proof + Proof bytes.
	return chainhash.HashSize + 4 + VarIntSerializeSize(uint64(len(t.Proof))) +
		len(t.Proof)
}

// NewTxIn returns a new transaction input with the provided previous outpoint
// and unlocking proof.
func NewTxIn(prevOut *OutPoint, proof []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		Proof:            proof,
	}
}

// TxOut defines a transaction output: an amount in atoms and the credential
// of the party allowed to spend it.
type TxOut struct {
	Value int64
	Owner []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + serialized varint size for the length of Owner +
	// Owner bytes.
	return 8 + VarIntSerializeSize(uint64(len(t.Owner))) + len(t.Owner)
}

// NewTxOut returns a new transaction output with the provided value and
// owner credential.
func NewTxOut(value int64, owner []byte) *TxOut {
	return &TxOut{
		Value: value,
		Owner: owner,
	}
}

// MsgTx represents a ledger transaction.
//
// Use the AddTxIn and AddTxOut functions to build up the list of transaction
// inputs and outputs.
type MsgTx struct {
	Version int32
	TxIn    []*TxIn
	TxOut   []*TxOut
}

// NewMsgTx returns a new transaction with the provided version and no inputs
// or outputs.
func NewMsgTx(version int32) *MsgTx {
	return &MsgTx{
		Version: version,
		TxIn:    make([]*TxIn, 0, 4),
		TxOut:   make([]*TxOut, 0, 4),
	}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// TxHash generates the hash for the transaction.  It covers every field,
// proofs included, and serves as the transaction id.
func (msg *MsgTx) TxHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	_ = msg.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// SignatureDigest returns the digest that the proof of input idx must commit
// to.  It covers the version, the signed input index, every input outpoint
// and every output.  No proof is part of the digest, so the inputs of a
// transaction can be signed in any order.
func (msg *MsgTx) SignatureDigest(idx int) (chainhash.Hash, error) {
	if idx < 0 || idx >= len(msg.TxIn) {
		str := fmt.Sprintf("input index %d out of range [0, %d)", idx,
			len(msg.TxIn))
		return chainhash.Hash{}, messageError("SignatureDigest", str)
	}

	var buf bytes.Buffer
	if err := writeUint32(&buf, uint32(msg.Version)); err != nil {
		return chainhash.Hash{}, err
	}
	if err := writeUint32(&buf, uint32(idx)); err != nil {
		return chainhash.Hash{}, err
	}
	if err := WriteVarInt(&buf, uint64(len(msg.TxIn))); err != nil {
		return chainhash.Hash{}, err
	}
	for _, ti := range msg.TxIn {
		if err := writeOutPoint(&buf, &ti.PreviousOutPoint); err != nil {
			return chainhash.Hash{}, err
		}
	}
	if err := WriteVarInt(&buf, uint64(len(msg.TxOut))); err != nil {
		return chainhash.Hash{}, err
	}
	for _, to := range msg.TxOut {
		if err := WriteTxOut(&buf, to); err != nil {
			return chainhash.Hash{}, err
		}
	}

	return chainhash.DoubleHashH(buf.Bytes()), nil
}

// Copy creates a deep copy of a transaction so that the original does not get
// modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := MsgTx{
		Version: msg.Version,
		TxIn:    make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:   make([]*TxOut, 0, len(msg.TxOut)),
	}

	for _, oldTxIn := range msg.TxIn {
		var newProof []byte
		if oldTxIn.Proof != nil {
			newProof = make([]byte, len(oldTxIn.Proof))
			copy(newProof, oldTxIn.Proof)
		}
		newTx.TxIn = append(newTx.TxIn, &TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			Proof:            newProof,
		})
	}

	for _, oldTxOut := range msg.TxOut {
		var newOwner []byte
		if oldTxOut.Owner != nil {
			newOwner = make([]byte, len(oldTxOut.Owner))
			copy(newOwner, oldTxOut.Owner)
		}
		newTx.TxOut = append(newTx.TxOut, &TxOut{
			Value: oldTxOut.Value,
			Owner: newOwner,
		})
	}

	return &newTx
}

// SerializeSize returns the number of bytes it would take to serialize the
// the transaction.
func (msg *MsgTx) SerializeSize() int {
	// Version 4 bytes + serialized varint size for the number of
	// transaction inputs and outputs.
	n := 4 + VarIntSerializeSize(uint64(len(msg.TxIn))) +
		VarIntSerializeSize(uint64(len(msg.TxOut)))

	for _, txIn := range msg.TxIn {
		n += txIn.SerializeSize()
	}
	for _, txOut := range msg.TxOut {
		n += txOut.SerializeSize()
	}
	return n
}

// Serialize encodes the transaction to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, uint32(msg.Version)); err != nil {
		return err
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
			return err
		}
		if err := WriteVarBytes(w, ti.Proof); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := WriteTxOut(w, to); err != nil {
			return err
		}
	}
	return nil
}

// Bytes returns the serialized form of the transaction.
func (msg *MsgTx) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, msg.SerializeSize()))
	if err := msg.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize decodes a transaction from r into the receiver.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = int32(version)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}

	// Prevent more input transactions than could possibly fit into a
	// message.  It would be possible to cause memory exhaustion and panics
	// without a sane upper bound on this count.
	if count > uint64(maxTxInPerTx) {
		str := fmt.Sprintf("too many input transactions to fit into "+
			"max message size [count %d, max %d]", count,
			maxTxInPerTx)
		return messageError("MsgTx.Deserialize", str)
	}

	msg.TxIn = make([]*TxIn, count)
	for i := uint64(0); i < count; i++ {
		ti := new(TxIn)
		if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
			return err
		}
		ti.Proof, err = ReadVarBytes(r, MaxProofSize, "transaction input proof")
		if err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > uint64(maxTxOutPerTx) {
		str := fmt.Sprintf("too many output transactions to fit into "+
			"max message size [count %d, max %d]", count,
			maxTxOutPerTx)
		return messageError("MsgTx.Deserialize", str)
	}

	msg.TxOut = make([]*TxOut, count)
	for i := uint64(0); i < count; i++ {
		to := new(TxOut)
		if err := ReadTxOut(r, to); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}
	return nil
}

// FromBytes deserializes a transaction from the passed byte slice.  Trailing
// bytes are rejected.
func (msg *MsgTx) FromBytes(b []byte) error {
	r := bytes.NewReader(b)
	if err := msg.Deserialize(r); err != nil {
		return err
	}
	if r.Len() != 0 {
		str := fmt.Sprintf("%d trailing bytes after transaction", r.Len())
		return messageError("MsgTx.FromBytes", str)
	}
	return nil
}

// readOutPoint reads the next sequence of bytes from r as an OutPoint.
func readOutPoint(r io.Reader, op *OutPoint) error {
	if _, err := io.ReadFull(r, op.Hash[:]); err != nil {
		return err
	}
	index, err := readUint32(r)
	if err != nil {
		return err
	}
	op.Index = index
	return nil
}

// writeOutPoint encodes op to w.
func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	return writeUint32(w, op.Index)
}

// ReadTxOut reads the next sequence of bytes from r as a transaction output.
func ReadTxOut(r io.Reader, to *TxOut) error {
	value, err := readUint64(r)
	if err != nil {
		return err
	}
	to.Value = int64(value)
	to.Owner, err = ReadVarBytes(r, MaxOwnerSize, "transaction output owner")
	return err
}

// WriteTxOut encodes to into w.
func WriteTxOut(w io.Writer, to *TxOut) error {
	if err := writeUint64(w, uint64(to.Value)); err != nil {
		return err
	}
	return WriteVarBytes(w, to.Owner)
}
