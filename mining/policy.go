// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"
	"strings"
)

const (
	// DefaultSearchMaxExpansions is the default number of states the
	// search strategy may expand per batch.
	DefaultSearchMaxExpansions = 10000

	// DefaultSearchMaxCandidates is the default largest number of
	// selectable transactions the search strategy explores.  Larger
	// batches are selected greedily.
	DefaultSearchMaxCandidates = 16

	// NoExpansionLimit lets StrategySearch expand states until its
	// frontier is empty.
	NoExpansionLimit = -1
)

// Strategy identifies an algorithm for choosing which transactions of a batch
// to commit.
type Strategy uint8

const (
	// StrategyGreedy repeatedly commits the highest fee transaction that
	// can be committed, unlocking the transactions depending on it.
	StrategyGreedy Strategy = iota

	// StrategyBasic repeatedly sweeps the batch in transaction id order
	// committing every valid transaction until a sweep commits nothing.
	// It ignores fees.
	StrategyBasic

	// StrategySearch explores include/exclude decisions with a bounded
	// best-first search and never does worse than StrategyGreedy.
	StrategySearch
)

var strategyStrings = map[Strategy]string{
	StrategyGreedy: "greedy",
	StrategyBasic:  "basic",
	StrategySearch: "search",
}

// String returns the Strategy in human-readable form.
func (s Strategy) String() string {
	if str, ok := strategyStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown Strategy (%d)", uint8(s))
}

// ParseStrategy returns the Strategy named by s.
func ParseStrategy(s string) (Strategy, error) {
	for strategy, name := range strategyStrings {
		if strings.EqualFold(s, name) {
			return strategy, nil
		}
	}
	return 0, fmt.Errorf("unknown selection strategy %q", s)
}

// Policy houses the policy (configuration parameters) which is used to control
// the selection of transactions from a batch.
type Policy struct {
	// Strategy is the selection algorithm.
	Strategy Strategy

	// SearchMaxExpansions bounds the states expanded by StrategySearch.
	// Zero selects DefaultSearchMaxExpansions and NoExpansionLimit, or
	// any other negative value, disables the bound.
	SearchMaxExpansions int

	// SearchMaxCandidates is the largest number of selectable
	// transactions StrategySearch explores before falling back to the
	// greedy selection.
	SearchMaxCandidates int
}

// DefaultPolicy returns the greedy policy with the default search limits.
func DefaultPolicy() Policy {
	return Policy{
		Strategy:            StrategyGreedy,
		SearchMaxExpansions: DefaultSearchMaxExpansions,
		SearchMaxCandidates: DefaultSearchMaxCandidates,
	}
}
