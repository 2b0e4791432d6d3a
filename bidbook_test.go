// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBidBook_Beta(t *testing.T) {
	b := newBidBook[Int](2, 3)
	b.setBudget(0, 100)
	b.setBudget(1, 10)

	steps := []struct {
		agent, item int
		bid         Int
		accepted    bool
		beta        float64
	}{
		{0, 0, 50, true, 0.5},
		{1, 0, 2, true, 0.5},
		{1, 1, 11, false, 0.5},
		{1, 2, 10, true, 1.0},
		{0, 1, 20, true, 1.0},
		{0, 2, 0, false, 1.0},
	}

	prev := 0.0
	for i, s := range steps {
		_, ok := b.setBid(s.agent, s.item, s.bid)
		assert.Equal(t, s.accepted, ok, "step %d", i)
		assert.InDelta(t, s.beta, b.beta, 1e-12, "step %d", i)
		assert.GreaterOrEqual(t, b.beta, prev, "step %d", i)
		prev = b.beta
	}

	_, ok := b.bid(1, 1)
	assert.False(t, ok)
	assert.Equal(t, []int{0, 1}, b.bidders[0])
}

func TestBidBook_Seed(t *testing.T) {
	b := newBidBook[Int](3, 2)
	for agent := 0; agent < 3; agent++ {
		b.setBudget(agent, 10)
	}

	assert.Equal(t, -1, b.seed[0])

	b.setBid(1, 0, 5)
	b.setBid(0, 0, 5)
	assert.Equal(t, 1, b.seed[0], "ties keep the first bidder")

	b.setBid(2, 0, 6)
	assert.Equal(t, 2, b.seed[0])

	b.setBid(0, 1, 3)
	assert.Equal(t, 0, b.seed[1])
}

func TestBidBook_Budget(t *testing.T) {
	b := newBidBook[Int](1, 1)
	assert.True(t, b.setBudget(0, 0))
	assert.False(t, b.setBudget(0, -1))
	assert.Equal(t, Int(0), b.budgets[0])

	// a zero budget accepts nothing
	_, ok := b.setBid(0, 0, 1)
	assert.False(t, ok)

	assert.True(t, b.setBudget(0, 7))
	_, ok = b.setBid(0, 0, 7)
	assert.True(t, ok)
	assert.NoError(t, b.err)
}

func TestInt(t *testing.T) {
	assert.Equal(t, Int(5), Int(2).Add(3))
	assert.Equal(t, Int(-1), Int(2).Sub(3))
	assert.Equal(t, -1, Int(2).Cmp(3))
	assert.Equal(t, 0, Int(3).Cmp(3))
	assert.Equal(t, -1, Int(-2).Sign())
	assert.Equal(t, "42", Int(42).String())

	f, exact := Int(1 << 20).Float64()
	assert.Equal(t, float64(1<<20), f)
	assert.True(t, exact)

	_, exact = Int(1<<62 + 1).Float64()
	assert.False(t, exact)
	_, err := floatOf(Int(1<<62 + 1))
	assert.NoError(t, err, "inexact is fine")
}
