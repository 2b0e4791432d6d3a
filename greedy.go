// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"sort"

	"k8s.io/klog/v2"
)

type greedyAllocator[V Value[V]] struct{}

// GreedyAllocator assigns bids from the highest down, skipping items that
// are taken and bids the agent can no longer afford.
func GreedyAllocator[V Value[V]]() Allocator[V] {
	return greedyAllocator[V]{}
}

func (m greedyAllocator[V]) Allocate(inst *Instance[V]) (*Assignment[V], error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}

	al := make([]Bid[V], 0, len(inst.Bids))
	seen := make(map[[2]int]bool, len(inst.Bids))
	for _, b := range inst.Bids {
		key := [2]int{b.Agent, b.Item}
		if !inst.acceptable(b) || seen[key] {
			continue
		}
		seen[key] = true
		al = append(al, b)
	}

	sort.SliceStable(al, func(i, j int) bool {
		r := al[i].Value.Cmp(al[j].Value)
		return r > 0 ||
			r == 0 && al[i].Agent < al[j].Agent ||
			r == 0 && al[i].Agent == al[j].Agent && al[i].Item < al[j].Item
	})

	remaining := append([]V(nil), inst.Budgets...)
	assignment := newAssignment(inst.Budgets)
	taken := make([]bool, inst.NumItems)

	for _, b := range al {
		if taken[b.Item] {
			continue
		}
		rest := remaining[b.Agent].Sub(b.Value)
		if rest.Sign() < 0 {
			continue
		}
		remaining[b.Agent] = rest
		taken[b.Item] = true
		assignment.assign(b.Agent, b.Item, b.Value)

		klog.V(2).Infof("budalloc: greedy item %d -> agent %d at %s, rest %s", b.Item, b.Agent, b.Value, rest)
	}

	return assignment, nil
}
