// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

type primalDualAllocator[V Value[V]] struct {
	epsilon float64
	opts    []Option
}

// PrimalDualAllocator runs a fresh PrimalDual solver per instance.
func PrimalDualAllocator[V Value[V]](epsilon float64, opts ...Option) Allocator[V] {
	return primalDualAllocator[V]{epsilon, opts}
}

func (m primalDualAllocator[V]) Allocate(inst *Instance[V]) (*Assignment[V], error) {
	pd, err := Load(inst, m.epsilon, m.opts...)
	if err != nil {
		return nil, err
	}
	if err := pd.Solve(); err != nil {
		return nil, err
	}
	return pd.MakeValidAssignment(), nil
}

// Load builds a solver holding inst's budgets and bids.
func Load[V Value[V]](inst *Instance[V], epsilon float64, opts ...Option) (*PrimalDual[V], error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	pd, err := New[V](inst.NumAgents, inst.NumItems, epsilon, opts...)
	if err != nil {
		return nil, err
	}
	for agent, budget := range inst.Budgets {
		pd.SetBudget(agent, budget)
	}
	for _, b := range inst.Bids {
		pd.SetBid(b.Agent, b.Item, b.Value)
	}
	return pd, nil
}

var (
	_ Allocator[Int] = greedyAllocator[Int]{}
	_ Allocator[Int] = primalDualAllocator[Int]{}
	_ Allocator[Int] = exactAllocator[Int]{}
)
