// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package search

import (
	"context"
	"errors"

	"github.com/btcsuite/txselect/internal/collections"
)

// ErrExpansionLimit is returned when a search stops because it expanded the
// maximum number of states it was allowed to.
var ErrExpansionLimit = errors.New("search expansion limit reached")

// Problem describes a search space over states of type S.
type Problem[S any] struct {
	// Less orders the frontier: the state for which Less reports true is
	// popped first.
	Less func(a, b S) bool

	// Goal reports whether a state is a solution.
	Goal func(S) bool

	// Children returns the successors of a non-goal state.  Returning no
	// children makes the state a dead end.
	Children func(S) []S
}

// Stats describes the work performed by the most recent search.
type Stats struct {
	// Expansions is the number of states whose children were generated.
	Expansions int

	// Visited is the number of states popped from the frontier.
	Visited int

	// PeakFrontier is the largest size the frontier reached.
	PeakFrontier int
}

// Option configures a Searcher.
type Option func(*options)

type options struct {
	maxExpansions int
}

// WithMaxExpansions bounds the number of states a single search may expand.
// A value of zero or less disables the bound.
func WithMaxExpansions(n int) Option {
	return func(o *options) {
		o.maxExpansions = n
	}
}

// Searcher runs best-first searches over a Problem.
//
// The search itself is unbounded in depth: a problem whose Children never
// run out must either reach its goals or be run with WithMaxExpansions.
type Searcher[S any] struct {
	problem Problem[S]
	opts    options
	stats   Stats
}

// New returns a Searcher for problem.
func New[S any](problem Problem[S], opts ...Option) *Searcher[S] {
	s := &Searcher[S]{problem: problem}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

// Stats returns statistics about the most recent search.
func (s *Searcher[S]) Stats() Stats {
	return s.stats
}

// newFrontier resets the statistics and returns a frontier holding root.
func (s *Searcher[S]) newFrontier(root S) *collections.PriorityQueue[S] {
	s.stats = Stats{}
	frontier := collections.NewPriorityQueue(s.problem.Less, 1)
	s.push(frontier, root)
	return frontier
}

func (s *Searcher[S]) push(frontier *collections.PriorityQueue[S], state S) {
	frontier.Push(state)
	if frontier.Len() > s.stats.PeakFrontier {
		s.stats.PeakFrontier = frontier.Len()
	}
}

// expand pushes the children of state, failing with ErrExpansionLimit when
// the budget is spent.
func (s *Searcher[S]) expand(frontier *collections.PriorityQueue[S], state S) error {
	if s.opts.maxExpansions > 0 && s.stats.Expansions >= s.opts.maxExpansions {
		return ErrExpansionLimit
	}
	s.stats.Expansions++
	for _, child := range s.problem.Children(state) {
		s.push(frontier, child)
	}
	return nil
}

// Minimize returns the first goal state in Less order reachable from root.
// The boolean is false when the frontier empties without reaching a goal.
//
// The search stops early with ctx.Err() when ctx is done and with
// ErrExpansionLimit when the expansion budget is spent; no state is returned
// in either case.
func (s *Searcher[S]) Minimize(ctx context.Context, root S) (S, bool, error) {
	var zero S
	frontier := s.newFrontier(root)
	for {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}

		state, ok := frontier.Pop()
		if !ok {
			return zero, false, nil
		}
		s.stats.Visited++

		if s.problem.Goal(state) {
			return state, true, nil
		}
		if err := s.expand(frontier, state); err != nil {
			return zero, false, err
		}
	}
}

// Maximize explores the whole space reachable from root and returns the goal
// state for which better reports true against every other goal state seen.
// Ties keep the goal popped first.  The boolean is false when no goal state
// was reached.
//
// better is the ordering of solutions and is independent of Less, which only
// decides the order of exploration.  When the search stops early because ctx
// is done or the expansion budget is spent, the best goal found so far is
// returned together with ctx.Err() or ErrExpansionLimit.
func (s *Searcher[S]) Maximize(ctx context.Context, root S,
	better func(a, b S) bool) (S, bool, error) {

	var (
		best  S
		found bool
	)
	frontier := s.newFrontier(root)
	for {
		if err := ctx.Err(); err != nil {
			return best, found, err
		}

		state, ok := frontier.Pop()
		if !ok {
			return best, found, nil
		}
		s.stats.Visited++

		if s.problem.Goal(state) {
			if !found || better(state, best) {
				best, found = state, true
			}
			continue
		}
		if err := s.expand(frontier, state); err != nil {
			return best, found, err
		}
	}
}

// Minimize is a convenience wrapper running a single Minimize search.
func Minimize[S any](ctx context.Context, problem Problem[S], root S,
	opts ...Option) (S, bool, error) {

	return New(problem, opts...).Minimize(ctx, root)
}

// Maximize is a convenience wrapper running a single Maximize search.
func Maximize[S any](ctx context.Context, problem Problem[S], root S,
	better func(a, b S) bool, opts ...Option) (S, bool, error) {

	return New(problem, opts...).Maximize(ctx, root, better)
}
