// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

// dualState holds the per-agent dual variables and the consumption of the
// items an agent currently holds.
type dualState[V Value[V]] struct {
	epsilon     float64
	alpha       []float64
	updates     []uint64
	consumption []V
}

func newDualState[V Value[V]](numAgents int, epsilon float64) *dualState[V] {
	return &dualState[V]{
		epsilon:     epsilon,
		alpha:       make([]float64, numAgents),
		updates:     make([]uint64, numAgents),
		consumption: make([]V, numAgents),
	}
}

func (d *dualState[V]) discount(agent int) (float64, uint64) {
	return d.alpha[agent], d.updates[agent]
}

// raise deepens the agent's discount: ε on the first update, then
// α·(1 + ε(1-α)/α), which is α + ε(1-α) and stays below 1.
func (d *dualState[V]) raise(agent int) {
	a := d.alpha[agent]
	if d.updates[agent] == 0 {
		a = d.epsilon
	} else {
		a *= 1 + d.epsilon*(1-a)/a
	}
	d.alpha[agent] = a
	d.updates[agent]++
	metricAlphaUpdates.Inc()
}

// slack is U(agent) = ((1-α)(4-β) + β) / ((1-α)(4-β)). It is +Inf once α
// reaches 1 in floating point.
func (d *dualState[V]) slack(agent int, beta float64) float64 {
	x := (1 - d.alpha[agent]) * (4 - beta)
	return (x + beta) / x
}

func (d *dualState[V]) hold(agent int, bid V) {
	d.consumption[agent] = d.consumption[agent].Add(bid)
}

func (d *dualState[V]) release(agent int, bid V) {
	d.consumption[agent] = d.consumption[agent].Sub(bid)
}
