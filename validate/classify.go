// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validate

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/txselect/sigverify"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/wire"
)

// Classification is the validity of a transaction relative to a set of
// unspent outputs.
type Classification uint8

// The zero Classification is deliberately not one of the defined values so
// an unset result is never mistaken for a verdict.
const (
	// Invalid transactions break a rule that no future state of the pool
	// can repair.
	Invalid Classification = iota + 1

	// PotentiallyValid transactions pass every rule that can be checked
	// but spend at least one output that is not in the pool yet.
	PotentiallyValid

	// Valid transactions can be committed to the pool as is.
	Valid
)

var classificationStrings = map[Classification]string{
	Invalid:          "invalid",
	PotentiallyValid: "potentially valid",
	Valid:            "valid",
}

// String returns the Classification in human-readable form.
func (c Classification) String() string {
	if s, ok := classificationStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Classification (%d)", uint8(c))
}

// UtxoView is the read-only set of unspent outputs a transaction is
// classified against.  Both *utxo.Pool and *utxo.View satisfy it.
type UtxoView interface {
	// LookupEntry returns the entry for the given outpoint or nil when it
	// is not unspent in the view.
	LookupEntry(outpoint wire.OutPoint) *utxo.Entry
}

// DigestFunc returns the digest signed by the proof of input idx of tx.
type DigestFunc func(tx *wire.MsgTx, idx int) (chainhash.Hash, error)

// Config houses the collaborators of a Classifier.
type Config struct {
	// Verifier checks input proofs.  It defaults to
	// sigverify.StandardVerifier.
	Verifier sigverify.Verifier

	// Digest computes the message signed by each input.  It defaults to
	// (*wire.MsgTx).SignatureDigest.
	Digest DigestFunc
}

// Result is the outcome of classifying a transaction.
type Result struct {
	// Class is the verdict.
	Class Classification

	// Fee is InputValue minus OutputValue.  It is only meaningful for
	// Valid transactions.
	Fee btcutil.Amount

	// InputValue is the sum of the values of every resolved input.
	InputValue btcutil.Amount

	// OutputValue is the sum of the values of every output.
	OutputValue btcutil.Amount

	// Unresolved lists the inputs that are not in the view, in input
	// order.  It is empty for Valid transactions.
	Unresolved []wire.OutPoint

	// Err is a RuleError describing why the transaction is Invalid.
	Err error
}

// Classifier decides the validity of transactions.
type Classifier struct {
	verifier sigverify.Verifier
	digest   DigestFunc
}

// NewClassifier returns a Classifier using the collaborators in cfg, falling
// back to the defaults for the ones left unset.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{
		verifier: cfg.Verifier,
		digest:   cfg.Digest,
	}
	if c.verifier == nil {
		c.verifier = sigverify.StandardVerifier{}
	}
	if c.digest == nil {
		c.digest = (*wire.MsgTx).SignatureDigest
	}
	return c
}

// invalid returns an Invalid result carrying a rule error.
func invalid(c ErrorCode, desc string) Result {
	return Result{Class: Invalid, Err: ruleError(c, desc)}
}

// Classify returns the validity of tx relative to view.  The rules are applied
// in a fixed order:
//
//  1. a transaction must have at least one input
//  2. no outpoint may be spent twice by the transaction
//  3. inputs missing from view are recorded as unresolved
//  4. the proof of every resolved input must unlock the output it spends
//  5. output values must be non-negative and within the valid amount range
//  6. once every input is resolved, inputs must cover the outputs
//
// A failure of rule 1, 2, 4, 5 or 6 makes the transaction Invalid.  A
// transaction with unresolved inputs that breaks nothing else is
// PotentiallyValid and its balance is not checked.
//
// Classify does not modify view and, given a deterministic verifier, returns
// the same result for the same arguments.
func (c *Classifier) Classify(tx *wire.MsgTx, view UtxoView) Result {
	result := c.classify(tx, view)
	if result.Class == Invalid {
		log.Debugf("Rejected transaction %v", newLogClosure(func() string {
			return fmt.Sprintf("%v: %v", tx.TxHash(), result.Err)
		}))
	}
	return result
}

// classify implements Classify without logging.
func (c *Classifier) classify(tx *wire.MsgTx, view UtxoView) Result {
	if len(tx.TxIn) == 0 {
		return invalid(ErrNoTxInputs, "transaction has no inputs")
	}

	existingTxOut := make(map[wire.OutPoint]struct{}, len(tx.TxIn))
	for _, txIn := range tx.TxIn {
		if _, exists := existingTxOut[txIn.PreviousOutPoint]; exists {
			str := fmt.Sprintf("transaction contains duplicate input %v",
				txIn.PreviousOutPoint)
			return invalid(ErrDuplicateTxInputs, str)
		}
		existingTxOut[txIn.PreviousOutPoint] = struct{}{}
	}

	var (
		totalIn    btcutil.Amount
		unresolved []wire.OutPoint
	)
	for idx, txIn := range tx.TxIn {
		entry := view.LookupEntry(txIn.PreviousOutPoint)
		if entry == nil {
			unresolved = append(unresolved, txIn.PreviousOutPoint)
			continue
		}

		digest, err := c.digest(tx, idx)
		if err != nil {
			str := fmt.Sprintf("unable to compute digest of input %d: %v",
				idx, err)
			return invalid(ErrBadProof, str)
		}
		if !c.verifier.Verify(digest[:], txIn.Proof, entry.Owner()) {
			str := fmt.Sprintf("proof of input %d does not unlock %v",
				idx, txIn.PreviousOutPoint)
			return invalid(ErrBadProof, str)
		}

		amount := entry.Amount()
		if amount < 0 || amount > btcutil.MaxSatoshi {
			str := fmt.Sprintf("input %d spends output %v with value %v "+
				"outside the valid range", idx, txIn.PreviousOutPoint,
				int64(amount))
			return invalid(ErrBadTxInput, str)
		}
		totalIn += amount
		if totalIn > btcutil.MaxSatoshi {
			str := fmt.Sprintf("total value of all inputs is higher "+
				"than max allowed value of %v", btcutil.MaxSatoshi)
			return invalid(ErrBadTxInput, str)
		}
	}

	var totalOut btcutil.Amount
	for idx, txOut := range tx.TxOut {
		value := btcutil.Amount(txOut.Value)
		if value < 0 {
			str := fmt.Sprintf("output %d has negative value %d", idx,
				txOut.Value)
			return invalid(ErrNegativeOutput, str)
		}
		if value > btcutil.MaxSatoshi {
			str := fmt.Sprintf("output %d value of %d is higher than "+
				"max allowed value of %v", idx, txOut.Value,
				btcutil.MaxSatoshi)
			return invalid(ErrOutputTooLarge, str)
		}

		// Both operands are at most MaxSatoshi so the sum cannot
		// overflow before it is compared.
		totalOut += value
		if totalOut > btcutil.MaxSatoshi {
			str := fmt.Sprintf("total value of all outputs is higher "+
				"than max allowed value of %v", btcutil.MaxSatoshi)
			return invalid(ErrOutputTooLarge, str)
		}
	}

	if len(unresolved) > 0 {
		return Result{
			Class:       PotentiallyValid,
			InputValue:  totalIn,
			OutputValue: totalOut,
			Unresolved:  unresolved,
		}
	}

	if totalIn < totalOut {
		str := fmt.Sprintf("total value of all outputs %v is higher "+
			"than the input value of %v", totalOut, totalIn)
		return Result{
			Class:       Invalid,
			InputValue:  totalIn,
			OutputValue: totalOut,
			Err:         ruleError(ErrSpendTooHigh, str),
		}
	}

	return Result{
		Class:       Valid,
		Fee:         totalIn - totalOut,
		InputValue:  totalIn,
		OutputValue: totalOut,
	}
}

// IsValid returns whether tx can be committed on top of view as is.  It is
// backed by the same rules as Classify.
func (c *Classifier) IsValid(tx *wire.MsgTx, view UtxoView) bool {
	return c.Classify(tx, view).Class == Valid
}
