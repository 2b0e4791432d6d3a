// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSolver(t *testing.T, numAgents, numItems int, opts ...Option) *PrimalDual[Int] {
	t.Helper()
	pd, err := New[Int](numAgents, numItems, 0.01, opts...)
	require.NoError(t, err)
	return pd
}

// demo instance: two agents, three items
func newDemoSolver(t *testing.T, opts ...Option) *PrimalDual[Int] {
	pd := newSolver(t, 2, 3, opts...)
	pd.SetBudget(0, 100)
	pd.SetBudget(1, 200)
	pd.SetBid(0, 0, 50)
	pd.SetBid(0, 1, 60)
	pd.SetBid(0, 2, 60)
	pd.SetBid(1, 0, 90)
	pd.SetBid(1, 1, 10)
	pd.SetBid(1, 2, 20)
	return pd
}

func TestNew(t *testing.T) {
	for _, eps := range []float64{0, -0.1, 1, 1.5} {
		_, err := New[Int](1, 1, eps)
		assert.ErrorIs(t, err, ErrBadEpsilon, "eps %v", eps)
	}

	_, err := New[Int](-1, 1, 0.1)
	assert.ErrorIs(t, err, ErrBadSize)

	pd, err := New[Int](0, 0, 0.1)
	require.NoError(t, err)
	require.NoError(t, pd.Solve())
	assert.Equal(t, Int(0), pd.MakeValidAssignment().TotalConsumption())
}

func TestPrimalDual_Scenarios(t *testing.T) {
	t.Run("SingleAgentSingleItem", func(t *testing.T) {
		pd := newSolver(t, 1, 1)
		pd.SetBudget(0, 10)
		pd.SetBid(0, 0, 10)

		require.NoError(t, pd.Solve())
		a := pd.MakeValidAssignment()

		assert.Equal(t, []int{0}, a.Items(0))
		assert.Equal(t, Int(10), a.TotalConsumption())
	})

	t.Run("IndependentItems", func(t *testing.T) {
		pd := newSolver(t, 2, 2)
		pd.SetBudget(0, 100)
		pd.SetBudget(1, 100)
		pd.SetBid(0, 0, 50)
		pd.SetBid(1, 1, 60)

		require.NoError(t, pd.Solve())
		a := pd.MakeValidAssignment()

		assert.Equal(t, []int{0}, a.Items(0))
		assert.Equal(t, []int{1}, a.Items(1))
		assert.Equal(t, Int(50), a.Spend(0))
		assert.Equal(t, Int(60), a.Spend(1))
		assert.Equal(t, Int(110), a.TotalConsumption())
	})

	t.Run("ContestedClearWinner", func(t *testing.T) {
		pd := newSolver(t, 2, 1)
		pd.SetBudget(0, 100)
		pd.SetBudget(1, 200)
		pd.SetBid(1, 0, 10)
		pd.SetBid(0, 0, 90)
		assert.Equal(t, 0, pd.book.seed[0])

		require.NoError(t, pd.Solve())
		assert.Equal(t, []int{0}, pd.Held(0))
		assert.Empty(t, pd.Held(1))

		a := pd.MakeValidAssignment()
		assert.Equal(t, []int{0}, a.Items(0))
		assert.Empty(t, a.Items(1))
		assert.LessOrEqual(t, a.Spend(0).Cmp(a.Budget(0)), 0)
		assert.LessOrEqual(t, a.Spend(1).Cmp(a.Budget(1)), 0)
	})

	t.Run("MalformedBidIgnored", func(t *testing.T) {
		build := func(withBad bool) *PrimalDual[Int] {
			pd := newSolver(t, 2, 2)
			pd.SetBudget(0, 100)
			pd.SetBudget(1, 50)
			pd.SetBid(0, 0, 40)
			if withBad {
				pd.SetBid(1, 0, 51) // over budget
				pd.SetBid(1, 1, 0)
				pd.SetBid(1, 1, -3)
			}
			pd.SetBid(1, 1, 20)
			return pd
		}

		bad, good := build(true), build(false)
		assert.Equal(t, good.Beta(), bad.Beta())
		_, ok := bad.Bid(1, 0)
		assert.False(t, ok)

		require.NoError(t, bad.Solve())
		require.NoError(t, good.Solve())
		ab, ag := bad.MakeValidAssignment(), good.MakeValidAssignment()
		for agent := 0; agent < 2; agent++ {
			assert.Equal(t, ag.Items(agent), ab.Items(agent))
		}
		assert.Equal(t, ag.TotalConsumption(), ab.TotalConsumption())
	})
}

func TestPrimalDual_Demo(t *testing.T) {
	pd := newDemoSolver(t)
	assert.InDelta(t, 0.6, pd.Beta(), 1e-12)

	require.NoError(t, pd.Solve())

	// agent 0 holds 120 against a budget of 100 and wins both contests, so
	// only its discount moves until the slack covers it
	assert.Equal(t, uint64(13), pd.Updates(0))
	assert.Equal(t, uint64(0), pd.Updates(1))
	assert.Equal(t, []int{1, 2}, pd.Held(0))
	assert.Equal(t, []int{0}, pd.Held(1))
	assert.Equal(t, Int(120), pd.Consumption(0))
	assert.True(t, pd.PaidFor(0))
	assert.True(t, pd.PaidFor(1))

	a := pd.MakeValidAssignment()
	assert.Equal(t, []int{1}, a.Items(0))
	assert.Equal(t, []int{0, 2}, a.Items(1))
	assert.Equal(t, Int(170), a.TotalConsumption())
	assert.Equal(t, Int(0), pd.Consumption(0))
	assert.Empty(t, pd.Held(0))
}

func TestPrimalDual_Transfer(t *testing.T) {
	pd := newSolver(t, 2, 2)
	pd.SetBudget(0, 10)
	pd.SetBudget(1, 100)
	pd.SetBid(0, 0, 10)
	pd.SetBid(0, 1, 10)
	pd.SetBid(1, 1, 9)

	require.NoError(t, pd.Solve())

	// 10 * 0.99^11 < 9 < 10 * 0.99^10
	assert.Equal(t, uint64(11), pd.Updates(0))
	assert.Equal(t, []int{0}, pd.Held(0))
	assert.Equal(t, []int{1}, pd.Held(1))
	assert.Equal(t, Int(10), pd.Consumption(0))
	assert.Equal(t, Int(9), pd.Consumption(1))

	a := pd.MakeValidAssignment()
	assert.Equal(t, Int(19), a.TotalConsumption())
	owner, ok := a.Owner(1)
	assert.True(t, ok)
	assert.Equal(t, 1, owner)
}

func TestPrimalDual_Evict(t *testing.T) {
	pd := newSolver(t, 1, 3)
	pd.SetBudget(0, 10)
	for item := 0; item < 3; item++ {
		pd.SetBid(0, item, 10)
	}

	require.NoError(t, pd.Solve())

	assert.Equal(t, uint64(0), pd.Updates(0))
	assert.Equal(t, []int{2}, pd.Held(0))
	assert.Equal(t, Int(10), pd.Consumption(0))

	a := pd.MakeValidAssignment()
	assert.Equal(t, Int(10), a.TotalConsumption())
	assert.Equal(t, 1, a.NumAssigned())
}

func TestPrimalDual_NotConverged(t *testing.T) {
	pd := newDemoSolver(t, WithMaxIterations(5))
	err := pd.Solve()
	assert.ErrorIs(t, err, ErrNotConverged)
}

func TestPrimalDual_NumericDomain(t *testing.T) {
	pd, err := New[decimal.Decimal](1, 1, 0.1)
	require.NoError(t, err)

	pd.SetBudget(0, decimal.New(1, 400))
	pd.SetBid(0, 0, decimal.NewFromInt(1))

	assert.ErrorIs(t, pd.Solve(), ErrNumericDomain)
}

func TestPrimalDual_Decimal(t *testing.T) {
	pd, err := New[decimal.Decimal](2, 2, 0.05)
	require.NoError(t, err)

	pd.SetBudget(0, decimal.RequireFromString("10.50"))
	pd.SetBudget(1, decimal.RequireFromString("3.25"))
	pd.SetBid(0, 0, decimal.RequireFromString("10.50"))
	pd.SetBid(0, 1, decimal.RequireFromString("0.01"))
	pd.SetBid(1, 1, decimal.RequireFromString("3.25"))

	require.NoError(t, pd.Solve())
	a := pd.MakeValidAssignment()

	assert.True(t, a.TotalConsumption().Equal(decimal.RequireFromString("13.75")))
	assert.Equal(t, []int{0}, a.Items(0))
	assert.Equal(t, []int{1}, a.Items(1))
}

func TestPrimalDual_RejectsDuplicateBid(t *testing.T) {
	pd := newSolver(t, 1, 1)
	pd.SetBudget(0, 100)
	pd.SetBid(0, 0, 10)
	pd.SetBid(0, 0, 90)

	bid, ok := pd.Bid(0, 0)
	assert.True(t, ok)
	assert.Equal(t, Int(10), bid)
	assert.InDelta(t, 0.1, pd.Beta(), 1e-12)
	assert.Equal(t, 1, pd.ledger.bidders(0))
}

func TestPrimalDual_OutOfRangePanics(t *testing.T) {
	pd := newSolver(t, 1, 1)
	assert.Panics(t, func() { pd.SetBid(1, 0, 1) })
	assert.Panics(t, func() { pd.SetBid(0, 1, 1) })
	assert.Panics(t, func() { pd.SetBudget(-1, 1) })
}

func TestPrimalDual_SolveResumes(t *testing.T) {
	pd := newSolver(t, 1, 2)
	pd.SetBudget(0, 10)
	pd.SetBid(0, 0, 5)
	require.NoError(t, pd.Solve())

	pd.SetBid(0, 1, 4)
	require.NoError(t, pd.Solve())
	assert.Equal(t, []int{0, 1}, pd.Held(0))
	assert.Equal(t, Int(9), pd.Consumption(0))

	// a second solve must not seed item 0 again
	require.NoError(t, pd.Solve())
	assert.Equal(t, []int{0, 1}, pd.Held(0))
}
