// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeValidAssignment_Redistribution(t *testing.T) {
	pd := newSolver(t, 3, 2)
	pd.SetBudget(0, 5)
	pd.SetBudget(1, 10)
	pd.SetBudget(2, 10)
	pd.SetBid(0, 0, 5)
	pd.SetBid(2, 0, 7)
	pd.SetBid(1, 0, 7)
	pd.SetBid(1, 1, 4)
	pd.SetBid(2, 1, 4)

	// nothing held: every item goes through redistribution
	a := pd.MakeValidAssignment()

	assert.Empty(t, a.Items(0))
	assert.Equal(t, []int{0}, a.Items(1), "equal bids go to the lower agent id")
	assert.Equal(t, []int{1}, a.Items(2), "agent 1 can no longer afford item 1")
	assert.Equal(t, Int(11), a.TotalConsumption())
	assert.Equal(t, Int(10), a.Budget(2))
}

func TestMakeValidAssignment_Greedy(t *testing.T) {
	pd := newSolver(t, 2, 3)
	pd.SetBudget(0, 10)
	pd.SetBudget(1, 6)
	for item := 0; item < 3; item++ {
		pd.SetBid(0, item, 6)
	}
	pd.SetBid(1, 2, 6)

	pd.held[0].pushBack(2)
	pd.held[0].pushBack(0)
	pd.held[0].pushBack(1)
	pd.dual.hold(0, 18)

	a := pd.MakeValidAssignment()

	assert.Equal(t, []int{0}, a.Items(0), "equal bids keep the lower item id")
	assert.Equal(t, []int{2}, a.Items(1))
	_, ok := a.Owner(1)
	assert.False(t, ok)
	assert.Equal(t, Int(12), a.TotalConsumption())
	assert.Equal(t, Int(0), pd.Consumption(0))
	assert.Equal(t, 2, a.NumAssigned())
}

func TestMakeValidAssignment_Snapshot(t *testing.T) {
	pd := newSolver(t, 1, 1)
	pd.SetBudget(0, 10)
	pd.SetBid(0, 0, 3)
	a := pd.MakeValidAssignment()

	items := a.Items(0)
	items[0] = 99
	assert.Equal(t, []int{0}, a.Items(0))

	pd.SetBudget(0, 1)
	assert.Equal(t, Int(10), a.Budget(0))
}
