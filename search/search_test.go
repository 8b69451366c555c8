// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// counting is a problem over integers that steps by one or three, with every
// value of at least ten a goal.
func counting() Problem[int] {
	return Problem[int]{
		Less: func(a, b int) bool { return a < b },
		Goal: func(n int) bool { return n >= 10 },
		Children: func(n int) []int {
			return []int{n + 3, n + 1}
		},
	}
}

func TestMinimize(t *testing.T) {
	t.Parallel()

	s := New(counting())
	got, found, err := s.Minimize(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 10, got)

	// Every state popped before the goal is expanded.
	stats := s.Stats()
	require.GreaterOrEqual(t, stats.Expansions, 10)
	require.Equal(t, stats.Expansions+1, stats.Visited)
	require.Positive(t, stats.PeakFrontier)
}

func TestMinimizeExhausted(t *testing.T) {
	t.Parallel()

	problem := counting()
	problem.Goal = func(int) bool { return false }
	problem.Children = func(n int) []int {
		if n >= 5 {
			return nil
		}
		return []int{n + 1}
	}

	_, found, err := Minimize(context.Background(), problem, 0)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMinimizeBudget(t *testing.T) {
	t.Parallel()

	s := New(counting(), WithMaxExpansions(3))
	_, found, err := s.Minimize(context.Background(), 0)
	require.ErrorIs(t, err, ErrExpansionLimit)
	require.False(t, found)
	require.Equal(t, 3, s.Stats().Expansions)
}

func TestMinimizeCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Minimize(ctx, counting(), 0)
	require.ErrorIs(t, err, context.Canceled)
}

// subset is a state of the include/exclude knapsack problem: the first depth
// items have been decided and chosen is the bitmask of included items.
type subset struct {
	depth  int
	chosen uint32
	weight int
	value  int
}

// knapsack returns a problem enumerating every subset of items whose weight
// fits in capacity.
func knapsack(weights, values []int, capacity int) Problem[subset] {
	return Problem[subset]{
		// Explore the most valuable partial solutions first.
		Less: func(a, b subset) bool { return a.value > b.value },
		Goal: func(s subset) bool { return s.depth == len(weights) },
		Children: func(s subset) []subset {
			skip := s
			skip.depth++
			children := []subset{skip}

			if s.weight+weights[s.depth] <= capacity {
				take := skip
				take.chosen |= 1 << s.depth
				take.weight += weights[s.depth]
				take.value += values[s.depth]
				children = append(children, take)
			}
			return children
		},
	}
}

func higherValue(a, b subset) bool {
	return a.value > b.value
}

// bruteForce returns the best knapsack value by enumerating every subset.
func bruteForce(weights, values []int, capacity int) int {
	best := 0
	for mask := 0; mask < 1<<len(weights); mask++ {
		var weight, value int
		for i := range weights {
			if mask&(1<<i) != 0 {
				weight += weights[i]
				value += values[i]
			}
		}
		if weight <= capacity && value > best {
			best = value
		}
	}
	return best
}

func TestMaximizeKnapsack(t *testing.T) {
	t.Parallel()

	weights := []int{5, 4, 6, 3}
	values := []int{10, 40, 30, 50}

	best, found, err := Maximize(context.Background(),
		knapsack(weights, values, 10), subset{}, higherValue)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 90, best.value)
	require.Equal(t, uint32(0b1010), best.chosen)
}

// TestMaximizeMatchesBruteForce checks Maximize explores the whole space.
func TestMaximizeMatchesBruteForce(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		weights := rapid.SliceOfN(rapid.IntRange(1, 10), n, n).
			Draw(t, "weights")
		values := rapid.SliceOfN(rapid.IntRange(0, 50), n, n).
			Draw(t, "values")
		capacity := rapid.IntRange(0, 30).Draw(t, "capacity")

		s := New(knapsack(weights, values, capacity))
		best, found, err := s.Maximize(context.Background(), subset{},
			higherValue)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, bruteForce(weights, values, capacity), best.value)
		require.Equal(t, s.Stats().Visited, s.Stats().Expansions+
			countGoals(weights, capacity))
	})
}

// countGoals returns the number of subsets fitting in capacity, which is the
// number of goal states of the knapsack problem.
func countGoals(weights []int, capacity int) int {
	count := 0
	for mask := 0; mask < 1<<len(weights); mask++ {
		weight := 0
		for i := range weights {
			if mask&(1<<i) != 0 {
				weight += weights[i]
			}
		}
		if weight <= capacity {
			count++
		}
	}
	return count
}

// TestMaximizeBudget checks an exhausted budget still yields the best goal
// seen so far.
func TestMaximizeBudget(t *testing.T) {
	t.Parallel()

	weights := []int{1, 1, 1, 1, 1, 1}
	values := []int{1, 2, 3, 4, 5, 6}

	s := New(knapsack(weights, values, 6), WithMaxExpansions(8))
	best, found, err := s.Maximize(context.Background(), subset{},
		higherValue)
	require.ErrorIs(t, err, ErrExpansionLimit)
	require.Equal(t, 8, s.Stats().Expansions)

	// The greedy descent reaches the full set after six expansions.
	require.True(t, found)
	require.Equal(t, 21, best.value)
}

func TestMaximizeNoGoal(t *testing.T) {
	t.Parallel()

	problem := Problem[int]{
		Less:     func(a, b int) bool { return a < b },
		Goal:     func(int) bool { return false },
		Children: func(int) []int { return nil },
	}
	_, found, err := Maximize(context.Background(), problem, 0,
		func(a, b int) bool { return a > b })
	require.NoError(t, err)
	require.False(t, found)
}
