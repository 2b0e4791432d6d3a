// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"sort"

	"k8s.io/klog/v2"
)

// MakeValidAssignment turns the temporary allocation into a strictly budget
// feasible Assignment. It drains the temporary allocation, so only the first
// call after Solve sees the solver's result.
func (pd *PrimalDual[V]) MakeValidAssignment() *Assignment[V] {
	remaining := append([]V(nil), pd.book.budgets...)
	assignment := newAssignment(pd.book.budgets)
	used := make([]bool, pd.numItems)

	// greedy per agent, highest bid first
	for agent := 0; agent < pd.numAgents; agent++ {
		items := pd.held[agent].drain()
		var zero V
		pd.dual.consumption[agent] = zero

		bids := make([]V, len(items))
		for i, item := range items {
			bids[i], _ = pd.book.bid(agent, item)
		}
		sort.Sort(byBidDesc[V]{ids: items, bids: bids})

		for i, item := range items {
			if rest := remaining[agent].Sub(bids[i]); rest.Sign() >= 0 {
				remaining[agent] = rest
				assignment.assign(agent, item, bids[i])
				used[item] = true
			}
		}
	}

	// leftovers go to the highest bidder that can still afford them
	leftovers := 0
	for item := 0; item < pd.numItems; item++ {
		if used[item] {
			continue
		}

		var agents []int
		var bids []V
		for _, agent := range pd.book.bidders[item] {
			bid, _ := pd.book.bid(agent, item)
			if remaining[agent].Sub(bid).Sign() >= 0 {
				agents = append(agents, agent)
				bids = append(bids, bid)
			}
		}
		if len(agents) == 0 {
			continue
		}
		sort.Sort(byBidDesc[V]{ids: agents, bids: bids})

		agent, bid := agents[0], bids[0]
		remaining[agent] = remaining[agent].Sub(bid)
		assignment.assign(agent, item, bid)
		used[item] = true
		leftovers++
	}

	klog.V(1).Infof("budalloc: rounded %d items (%d redistributed), total %s",
		assignment.NumAssigned(), leftovers, assignment.TotalConsumption())
	return assignment
}

// byBidDesc orders ids by bid, highest first, lower id first on ties.
type byBidDesc[V Value[V]] struct {
	ids  []int
	bids []V
}

func (s byBidDesc[V]) Len() int { return len(s.ids) }

func (s byBidDesc[V]) Less(i, j int) bool {
	if c := s.bids[i].Cmp(s.bids[j]); c != 0 {
		return c > 0
	}
	return s.ids[i] < s.ids[j]
}

func (s byBidDesc[V]) Swap(i, j int) {
	s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
	s.bids[i], s.bids[j] = s.bids[j], s.bids[i]
}
