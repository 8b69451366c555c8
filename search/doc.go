// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package search implements a generic best-first search.

A Problem supplies the frontier order, the goal test and the successor
function for states of any type.  Minimize stops at the first goal popped from
the frontier.  Maximize drains the frontier and keeps the best goal according
to a separate ordering of solutions.

	s := search.New(problem, search.WithMaxExpansions(10000))
	best, found, err := s.Maximize(ctx, root, better)
	if errors.Is(err, search.ErrExpansionLimit) {
		// best is the best goal seen before the budget ran out.
	}
*/
package search
