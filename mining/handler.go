// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"context"

	"github.com/btcsuite/txselect/sigverify"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/validate"
	"github.com/btcsuite/txselect/wire"
	"github.com/davecgh/go-spew/spew"
)

// Config is a descriptor containing the collaborators and policy of a
// Handler.
type Config struct {
	// Policy controls the selection.  The zero Policy selects greedily
	// with the default search limits.
	Policy Policy

	// Verifier checks input proofs.  It defaults to
	// sigverify.StandardVerifier.
	Verifier sigverify.Verifier

	// SigCache, when set, caches successful proof verifications.
	SigCache *sigverify.SigCache

	// Digest computes the message signed by each input.  It defaults to
	// (*wire.MsgTx).SignatureDigest.
	Digest validate.DigestFunc
}

// Handler processes batches of transactions against a pool it owns.
type Handler struct {
	policy     Policy
	classifier *validate.Classifier
	pool       *utxo.Pool
}

// NewHandler returns a handler starting from a copy of pool.  Later changes
// to pool are not seen by the handler.  A nil pool starts empty.
func NewHandler(pool *utxo.Pool, cfg Config) *Handler {
	if pool == nil {
		pool = utxo.NewPool()
	}

	policy := cfg.Policy
	if policy.SearchMaxExpansions == 0 {
		policy.SearchMaxExpansions = DefaultSearchMaxExpansions
	}
	if policy.SearchMaxCandidates <= 0 {
		policy.SearchMaxCandidates = DefaultSearchMaxCandidates
	}

	verifier := cfg.Verifier
	if verifier == nil {
		verifier = sigverify.StandardVerifier{}
	}
	if cfg.SigCache != nil {
		verifier = sigverify.NewCachingVerifier(verifier, cfg.SigCache)
	}

	return &Handler{
		policy: policy,
		classifier: validate.NewClassifier(validate.Config{
			Verifier: verifier,
			Digest:   cfg.Digest,
		}),
		pool: pool.Clone(),
	}
}

// Classify returns the validity of tx against the current pool.
func (h *Handler) Classify(tx *wire.MsgTx) validate.Result {
	return h.classifier.Classify(tx, h.pool)
}

// IsValid returns whether tx can be committed to the current pool as is.
func (h *Handler) IsValid(tx *wire.MsgTx) bool {
	return h.classifier.IsValid(tx, h.pool)
}

// Pool returns a copy of the current pool.
func (h *Handler) Pool() *utxo.Pool {
	return h.pool.Clone()
}

// ProcessBatch selects a mutually consistent subset of batch, commits it to
// the pool and reports the fate of every transaction.  The result holds a
// copy of the updated pool.
//
// The batch is processed against a copy of the pool which replaces the
// current one only on success, so the handler is unchanged when an error is
// returned.  A done ctx fails the batch before anything is selected, and the
// search strategy also observes it while searching.
func (h *Handler) ProcessBatch(ctx context.Context, batch []*wire.MsgTx) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debugf("Processing batch of %d transactions with the %v strategy",
		len(batch), h.policy.Strategy)

	pool := h.pool.Clone()
	graph := buildGraph(h.classifier, pool, batch)

	var (
		result *BatchResult
		err    error
	)
	switch h.policy.Strategy {
	case StrategyGreedy:
		s := newSelection(h.classifier, pool, graph)
		if err = s.selectGreedy(); err == nil {
			result = s.finish()
		}

	case StrategyBasic:
		s := newSelection(h.classifier, pool, graph)
		if err = s.selectBasic(); err == nil {
			result = s.finish()
		}

	case StrategySearch:
		result, err = selectSearch(ctx, h.classifier, pool, graph, h.policy)

	default:
		return nil, AssertError("unknown selection strategy " +
			h.policy.Strategy.String())
	}
	if err != nil {
		return nil, err
	}

	log.Tracef("Accepted transactions: %v", newLogClosure(func() string {
		return spew.Sdump(result.Accepted)
	}))

	h.pool = result.Pool
	result.Pool = h.pool.Clone()
	return result, nil
}

// HandleBatch processes batch against a copy of pool and returns the accepted
// transactions in commit order along with the updated pool.  pool itself is
// not modified.
func HandleBatch(pool *utxo.Pool, batch []*wire.MsgTx, cfg Config) ([]*wire.MsgTx, *utxo.Pool, error) {
	result, err := NewHandler(pool, cfg).ProcessBatch(context.Background(), batch)
	if err != nil {
		return nil, nil, err
	}
	return result.Transactions(), result.Pool, nil
}
