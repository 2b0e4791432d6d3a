// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"fmt"
	"math"
)

// bidBook stores budgets and accepted bids. It never forgets a bid, the
// rounding pass relies on the full history.
type bidBook[V Value[V]] struct {
	budgets []V
	budgetf []float64

	bids    []map[int]V // bids[agent][item]
	bidders [][]int     // bidders[item], in acceptance order
	seed    []int       // seed[item], the first strictly highest bidder or -1

	beta float64
	err  error // first numeric domain violation
}

func newBidBook[V Value[V]](numAgents, numItems int) *bidBook[V] {
	b := &bidBook[V]{
		budgets: make([]V, numAgents),
		budgetf: make([]float64, numAgents),
		bids:    make([]map[int]V, numAgents),
		bidders: make([][]int, numItems),
		seed:    make([]int, numItems),
	}
	for i := range b.seed {
		b.seed[i] = -1
	}
	return b
}

func (b *bidBook[V]) checkAgent(agent int) {
	if agent < 0 || agent >= len(b.budgets) {
		panic(fmt.Sprintf("budalloc: agent %d out of range [0, %d)", agent, len(b.budgets)))
	}
}

func (b *bidBook[V]) checkItem(item int) {
	if item < 0 || item >= len(b.seed) {
		panic(fmt.Sprintf("budalloc: item %d out of range [0, %d)", item, len(b.seed)))
	}
}

func (b *bidBook[V]) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *bidBook[V]) setBudget(agent int, v V) bool {
	b.checkAgent(agent)
	if v.Sign() < 0 {
		return false
	}
	f, err := floatOf(v)
	if err != nil {
		b.fail(fmt.Errorf("budget of agent %d: %w", agent, err))
		return false
	}
	b.budgets[agent], b.budgetf[agent] = v, f
	return true
}

func (b *bidBook[V]) bid(agent, item int) (V, bool) {
	v, ok := b.bids[agent][item]
	return v, ok
}

// setBid returns the bid as a float when it is accepted.
func (b *bidBook[V]) setBid(agent, item int, v V) (float64, bool) {
	b.checkAgent(agent)
	b.checkItem(item)

	if v.Sign() <= 0 || v.Cmp(b.budgets[agent]) > 0 {
		return 0, false
	}
	if _, dup := b.bids[agent][item]; dup {
		return 0, false
	}
	f, err := floatOf(v)
	if err != nil {
		b.fail(fmt.Errorf("bid of agent %d on item %d: %w", agent, item, err))
		return 0, false
	}

	if b.bids[agent] == nil {
		b.bids[agent] = make(map[int]V)
	}
	b.bids[agent][item] = v
	b.bidders[item] = append(b.bidders[item], agent)

	if s := b.seed[item]; s < 0 || v.Cmp(b.bids[s][item]) > 0 {
		b.seed[item] = agent
	}

	b.beta = math.Max(b.beta, f/b.budgetf[agent])
	return f, true
}
