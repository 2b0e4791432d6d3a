// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"fmt"
	"sort"
)

// DefaultExactItems is the item limit of ExactAllocator used by the tools.
const DefaultExactItems = 16

type exactAllocator[V Value[V]] struct {
	maxItems int
}

// ExactAllocator finds an optimal assignment by branch and bound. It is
// exponential in the number of contested items and refuses instances with
// more than maxItems bid-on items.
func ExactAllocator[V Value[V]](maxItems int) Allocator[V] {
	return exactAllocator[V]{maxItems}
}

type exactOffer[V Value[V]] struct {
	agent int
	bid   V
}

type exactSearch[V Value[V]] struct {
	items     []int
	offers    [][]exactOffer[V] // offers[k], highest bid first
	bound     []V               // bound[k] = sum of best offers of items[k:]
	remaining []V

	choice []int // choice[k] indexes offers[k], -1 for unassigned
	best   []int
	value  V
	top    V
	found  bool
}

func (m exactAllocator[V]) Allocate(inst *Instance[V]) (*Assignment[V], error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	offers := make([][]exactOffer[V], inst.NumItems)
	seen := make(map[[2]int]bool, len(inst.Bids))
	for _, b := range inst.Bids {
		key := [2]int{b.Agent, b.Item}
		if !inst.acceptable(b) || seen[key] {
			continue
		}
		seen[key] = true
		offers[b.Item] = append(offers[b.Item], exactOffer[V]{b.Agent, b.Value})
	}

	s := &exactSearch[V]{remaining: append([]V(nil), inst.Budgets...)}
	for item, o := range offers {
		if len(o) == 0 {
			continue
		}
		sort.SliceStable(o, func(i, j int) bool {
			r := o[i].bid.Cmp(o[j].bid)
			return r > 0 || r == 0 && o[i].agent < o[j].agent
		})
		s.items = append(s.items, item)
		s.offers = append(s.offers, o)
	}
	if len(s.items) > m.maxItems {
		return nil, fmt.Errorf("%w: %d items bid on, limit %d", ErrInstanceTooLarge, len(s.items), m.maxItems)
	}

	// most valuable items first, to tighten the bound early
	order := make([]int, len(s.items))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.offers[order[i]][0].bid.Cmp(s.offers[order[j]][0].bid) > 0
	})
	items, sorted := make([]int, len(order)), make([][]exactOffer[V], len(order))
	for k, o := range order {
		items[k], sorted[k] = s.items[o], s.offers[o]
	}
	s.items, s.offers = items, sorted

	s.bound = make([]V, len(s.items)+1)
	for k := len(s.items) - 1; k >= 0; k-- {
		s.bound[k] = s.bound[k+1].Add(s.offers[k][0].bid)
	}
	s.choice = make([]int, len(s.items))
	s.best = make([]int, len(s.items))

	s.search(0)

	assignment := newAssignment(inst.Budgets)
	for k, c := range s.best {
		if c < 0 {
			continue
		}
		o := s.offers[k][c]
		assignment.assign(o.agent, s.items[k], o.bid)
	}
	return assignment, nil
}

func (s *exactSearch[V]) search(k int) {
	if s.found && s.value.Add(s.bound[k]).Cmp(s.top) <= 0 {
		return
	}
	if k == len(s.items) {
		s.top, s.found = s.value, true
		copy(s.best, s.choice)
		return
	}

	for c, o := range s.offers[k] {
		rest := s.remaining[o.agent].Sub(o.bid)
		if rest.Sign() < 0 {
			continue
		}
		s.remaining[o.agent] = rest
		prev := s.value
		s.value = s.value.Add(o.bid)
		s.choice[k] = c

		s.search(k + 1)

		s.value = prev
		s.remaining[o.agent] = s.remaining[o.agent].Add(o.bid)
	}

	s.choice[k] = -1
	s.search(k + 1)
}
