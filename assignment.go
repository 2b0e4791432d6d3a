// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

// Assignment is a finished, budget feasible allocation. It is never
// mutated after an allocator returns it.
type Assignment[V Value[V]] struct {
	total   V
	budgets []V
	items   [][]int // items[agent], in acceptance order
	spends  []V
	owners  map[int]int
}

func newAssignment[V Value[V]](budgets []V) *Assignment[V] {
	return &Assignment[V]{
		budgets: append([]V(nil), budgets...),
		items:   make([][]int, len(budgets)),
		spends:  make([]V, len(budgets)),
		owners:  make(map[int]int),
	}
}

func (a *Assignment[V]) assign(agent, item int, bid V) {
	a.total = a.total.Add(bid)
	a.spends[agent] = a.spends[agent].Add(bid)
	a.items[agent] = append(a.items[agent], item)
	a.owners[item] = agent
}

// TotalConsumption is the sum of all accepted bids.
func (a *Assignment[V]) TotalConsumption() V { return a.total }

func (a *Assignment[V]) NumAgents() int { return len(a.budgets) }

func (a *Assignment[V]) Budget(agent int) V { return a.budgets[agent] }

// Items returns a copy of the items assigned to agent.
func (a *Assignment[V]) Items(agent int) []int {
	return append([]int(nil), a.items[agent]...)
}

// Spend is the sum of the agent's accepted bids; it never exceeds Budget.
func (a *Assignment[V]) Spend(agent int) V { return a.spends[agent] }

// Owner returns the agent an item was assigned to.
func (a *Assignment[V]) Owner(item int) (agent int, ok bool) {
	agent, ok = a.owners[item]
	return
}

// NumAssigned is the number of assigned items.
func (a *Assignment[V]) NumAssigned() int { return len(a.owners) }
