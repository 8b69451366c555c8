// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"context"
	"errors"
	"slices"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/txselect/internal/collections"
	"github.com/btcsuite/txselect/search"
	"github.com/btcsuite/txselect/txgraph"
	"github.com/btcsuite/txselect/utxo"
	"github.com/btcsuite/txselect/validate"
)

// searchState is a node of the include/exclude decision tree explored by the
// search strategy.  The first depth transactions of the search order have
// been decided, chosen lists the included ones in commit order and view is
// the pool with them applied.
//
// Views are never modified once a state holds them, so states share them
// freely.
type searchState struct {
	depth  int
	view   *utxo.View
	chosen []candidate
	fees   btcutil.Amount
}

// betterSelection orders complete selections by total fee and then by the
// number of transactions committed.
func betterSelection(a, b *searchState) bool {
	if a.fees != b.fees {
		return a.fees > b.fees
	}
	return len(a.chosen) > len(b.chosen)
}

// searchOrder returns the selectable nodes of graph in a topological order,
// breaking ties by build time fee and then by transaction id.  Producers
// therefore are decided before the transactions spending their outputs.
func searchOrder(graph *txgraph.Graph) []txgraph.NodeID {
	pending := make(map[txgraph.NodeID]int)
	ready := collections.NewPriorityQueue(higherPriority, 0)
	for i := 0; i < graph.Len(); i++ {
		node := graph.Node(txgraph.NodeID(i))
		if node.Block != txgraph.BlockNone {
			continue
		}
		if len(node.Producers) == 0 {
			ready.Push(candidate{id: node.ID, hash: node.Hash, fee: node.Fee()})
			continue
		}
		pending[node.ID] = len(node.Producers)
	}

	var order []txgraph.NodeID
	for {
		next, ok := ready.Pop()
		if !ok {
			return order
		}
		order = append(order, next.id)

		for _, depID := range graph.Dependents(next.id) {
			if _, ok := pending[depID]; !ok {
				continue
			}
			pending[depID]--
			if pending[depID] == 0 {
				delete(pending, depID)
				dep := graph.Node(depID)
				ready.Push(candidate{id: depID, hash: dep.Hash, fee: dep.Fee()})
			}
		}
	}
}

// selectionProblem describes the decision tree over order: every state
// either skips the next transaction or, when it is valid against the state's
// view, commits it.
func selectionProblem(classifier *validate.Classifier, graph *txgraph.Graph,
	order []txgraph.NodeID) search.Problem[*searchState] {

	return search.Problem[*searchState]{
		Less: func(a, b *searchState) bool {
			if a.fees != b.fees {
				return a.fees > b.fees
			}
			return a.depth > b.depth
		},
		Goal: func(state *searchState) bool {
			return state.depth == len(order)
		},
		Children: func(state *searchState) []*searchState {
			id := order[state.depth]
			node := graph.Node(id)

			children := []*searchState{{
				depth:  state.depth + 1,
				view:   state.view,
				chosen: state.chosen,
				fees:   state.fees,
			}}

			result := classifier.Classify(node.Tx, state.view)
			if result.Class != validate.Valid {
				return children
			}
			view := state.view.Fork()
			if err := view.Spend(node.Tx); err != nil {
				return children
			}
			chosen := append(slices.Clip(state.chosen), candidate{
				id:   id,
				hash: node.Hash,
				fee:  result.Fee,
			})
			return append(children, &searchState{
				depth:  state.depth + 1,
				view:   view,
				chosen: chosen,
				fees:   state.fees + result.Fee,
			})
		},
	}
}

// selectSearch selects the batch greedily and then searches the
// include/exclude decisions over the selectable transactions for a selection
// paying more.  The greedy selection is kept unless the search finds a
// strictly better one, so the result is never worse than greedy.
//
// Batches with more selectable transactions than the policy allows are
// selected greedily.  An exhausted expansion budget keeps the best selection
// found so far, while a done context aborts the batch.
func selectSearch(ctx context.Context, classifier *validate.Classifier,
	pool *utxo.Pool, graph *txgraph.Graph, policy Policy) (*BatchResult, error) {

	greedy := newSelection(classifier, pool.Clone(), graph)
	if err := greedy.selectGreedy(); err != nil {
		return nil, err
	}
	greedyResult := greedy.finish()

	order := searchOrder(graph)
	if len(order) == 0 || len(order) > policy.SearchMaxCandidates {
		log.Debugf("Using greedy selection for %d candidates (search "+
			"limit %d)", len(order), policy.SearchMaxCandidates)
		return greedyResult, nil
	}

	searcher := search.New(selectionProblem(classifier, graph, order),
		search.WithMaxExpansions(policy.SearchMaxExpansions))
	root := &searchState{view: utxo.NewView(pool)}
	best, found, err := searcher.Maximize(ctx, root, betterSelection)
	stats := searcher.Stats()
	switch {
	case errors.Is(err, search.ErrExpansionLimit):
		log.Debugf("Search stopped after %d expansions, keeping the best "+
			"selection found", stats.Expansions)

	case err != nil:
		return nil, err
	}
	log.Debugf("Search visited %d states (peak frontier %d)", stats.Visited,
		stats.PeakFrontier)

	if !found || best.fees <= greedyResult.TotalFees {
		return greedyResult, nil
	}

	log.Debugf("Search improved total fees from %v to %v",
		greedyResult.TotalFees, best.fees)

	s := newSelection(classifier, pool, graph)
	for _, c := range best.chosen {
		if err := s.accept(c.id, c.fee); err != nil {
			return nil, err
		}
	}
	return s.finish(), nil
}
