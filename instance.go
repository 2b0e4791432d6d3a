// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"fmt"
	"math"
)

// Validate checks sizes and indices. Out-of-range bid values are not
// errors; allocators ignore them.
func (inst *Instance[V]) Validate() error {
	if inst == nil {
		return fmt.Errorf("%w: nil instance", ErrBadInstance)
	}
	if inst.NumAgents < 0 || inst.NumItems < 0 {
		return fmt.Errorf("%w: %d agents, %d items", ErrBadSize, inst.NumAgents, inst.NumItems)
	}
	if len(inst.Budgets) != inst.NumAgents {
		return fmt.Errorf("%w: %d budgets for %d agents", ErrBadInstance, len(inst.Budgets), inst.NumAgents)
	}
	for i, b := range inst.Bids {
		if b.Agent < 0 || b.Agent >= inst.NumAgents {
			return fmt.Errorf("%w: bid %d: agent %d out of range", ErrBadInstance, i, b.Agent)
		}
		if b.Item < 0 || b.Item >= inst.NumItems {
			return fmt.Errorf("%w: bid %d: item %d out of range", ErrBadInstance, i, b.Item)
		}
	}
	return nil
}

// acceptable reports whether a bid would be accepted by a Bid Book.
func (inst *Instance[V]) acceptable(b Bid[V]) bool {
	return b.Value.Sign() > 0 && b.Value.Cmp(inst.Budgets[b.Agent]) <= 0
}

// Beta returns the largest bid-to-budget ratio over acceptable bids.
func (inst *Instance[V]) Beta() float64 {
	beta := 0.0
	seen := make(map[[2]int]bool, len(inst.Bids))
	for _, b := range inst.Bids {
		if !inst.acceptable(b) || seen[[2]int{b.Agent, b.Item}] {
			continue
		}
		seen[[2]int{b.Agent, b.Item}] = true
		bid, err1 := floatOf(b.Value)
		budget, err2 := floatOf(inst.Budgets[b.Agent])
		if err1 != nil || err2 != nil {
			continue
		}
		beta = math.Max(beta, bid/budget)
	}
	return beta
}
