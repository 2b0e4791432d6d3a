// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"errors"
	"fmt"

	"k8s.io/klog/v2"
)

type agentState int

const (
	stateUnpaid agentState = iota
	statePaid
)

// PrimalDual is the (1 - β/4)(1 - ε)-approximation solver. Use it in
// order: SetBudget/SetBid, Solve, MakeValidAssignment. It is not safe for
// concurrent use.
type PrimalDual[V Value[V]] struct {
	numAgents int
	numItems  int
	options   Options

	book   *bidBook[V]
	dual   *dualState[V]
	ledger *priceLedger

	held   []itemQueue // temporary allocation per agent
	seeded []bool      // seeded[item]
	steps  int
	rounds int
}

func New[V Value[V]](numAgents, numItems int, epsilon float64, opts ...Option) (*PrimalDual[V], error) {
	if numAgents < 0 || numItems < 0 {
		return nil, fmt.Errorf("%w: %d agents, %d items", ErrBadSize, numAgents, numItems)
	}
	if !(epsilon > 0 && epsilon < 1) {
		return nil, fmt.Errorf("%w: got %v", ErrBadEpsilon, epsilon)
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	dual := newDualState[V](numAgents, epsilon)
	return &PrimalDual[V]{
		numAgents: numAgents,
		numItems:  numItems,
		options:   options,
		book:      newBidBook[V](numAgents, numItems),
		dual:      dual,
		ledger:    newPriceLedger(numItems, dual),
		held:      make([]itemQueue, numAgents),
		seeded:    make([]bool, numItems),
	}, nil
}

// SetBudget ignores negative budgets.
func (pd *PrimalDual[V]) SetBudget(agent int, budget V) {
	if !pd.book.setBudget(agent, budget) {
		klog.V(2).Infof("budalloc: ignored budget %s of agent %d", budget, agent)
	}
}

// SetBid records a bid when 0 < bid <= budget(agent) and the agent has not
// bid on the item yet. Anything else is ignored.
func (pd *PrimalDual[V]) SetBid(agent, item int, bid V) {
	f, ok := pd.book.setBid(agent, item, bid)
	if !ok {
		metricRejectedBids.Inc()
		klog.V(2).Infof("budalloc: ignored bid %s of agent %d on item %d (budget %s)",
			bid, agent, item, pd.book.budgets[agent])
		return
	}
	pd.ledger.add(item, agent, f)
}

// Solve drives every agent to the paid-for state. It returns
// ErrNumericDomain if a value had no finite float form, and ErrNotConverged
// if the iteration limit was hit.
func (pd *PrimalDual[V]) Solve() error {
	if err := pd.book.err; err != nil {
		metricSolves.WithLabelValues("numeric_error").Inc()
		return err
	}

	pd.initialize()
	metricBeta.Set(pd.book.beta)

	err := pd.converge()
	switch {
	case err == nil:
		metricSolves.WithLabelValues("converged").Inc()
	case errors.Is(err, ErrNotConverged):
		metricSolves.WithLabelValues("not_converged").Inc()
	default:
		metricSolves.WithLabelValues("numeric_error").Inc()
	}
	return err
}

// initialize hands every item to its seed agent, once.
func (pd *PrimalDual[V]) initialize() {
	for item := 0; item < pd.numItems; item++ {
		agent := pd.book.seed[item]
		if agent < 0 || pd.seeded[item] {
			continue
		}
		pd.seeded[item] = true
		bid, _ := pd.book.bid(agent, item)
		pd.held[agent].pushBack(item)
		pd.dual.hold(agent, bid)
	}
}

func (pd *PrimalDual[V]) converge() error {
	for {
		pd.rounds++
		metricRounds.Inc()

		unpaid := 0
		for agent := 0; agent < pd.numAgents; agent++ {
			if pd.state(agent) == statePaid {
				continue
			}
			unpaid++
			if err := pd.settle(agent); err != nil {
				return err
			}
		}

		klog.V(1).Infof("budalloc: round %d, %d unpaid agents, %d steps", pd.rounds, unpaid, pd.steps)
		if unpaid == 0 {
			return pd.book.err
		}
	}
}

func (pd *PrimalDual[V]) state(agent int) agentState {
	if pd.PaidFor(agent) {
		return statePaid
	}
	return stateUnpaid
}

// settle runs inner steps until the agent is paid for.
func (pd *PrimalDual[V]) settle(agent int) error {
	for pd.state(agent) == stateUnpaid {
		pd.steps++
		metricSteps.Inc()
		if pd.steps > pd.options.MaxIterations {
			return fmt.Errorf("%w: %d steps, agent %d at alpha %v",
				ErrNotConverged, pd.options.MaxIterations, agent, pd.dual.alpha[agent])
		}

		if pd.reconcile(agent) && pd.state(agent) == stateUnpaid {
			pd.evict(agent)
		}

		if pd.state(agent) == stateUnpaid {
			pd.dual.raise(agent)
			klog.V(3).Infof("budalloc: agent %d alpha %v (update %d)",
				agent, pd.dual.alpha[agent], pd.dual.updates[agent])
		}

		if err := pd.book.err; err != nil {
			return err
		}
	}
	return nil
}

// reconcile scans the held items once, moving every item whose current top
// bidder is someone else. It reports whether all items were rightfully held
// with no competing bidder.
func (pd *PrimalDual[V]) reconcile(agent int) (uncontested bool) {
	q := &pd.held[agent]
	uncontested = true

	for n := q.len(); n > 0; n-- {
		item := q.popFront()
		top := pd.ledger.top(item)
		if top == agent {
			if pd.ledger.bidders(item) > 1 {
				uncontested = false
			}
			q.pushBack(item)
			continue
		}

		uncontested = false
		pd.transfer(item, agent, top)
		if pd.state(agent) == statePaid {
			break
		}
	}

	return uncontested
}

func (pd *PrimalDual[V]) transfer(item, from, to int) {
	bid, _ := pd.book.bid(from, item)
	pd.dual.release(from, bid)

	bid, _ = pd.book.bid(to, item)
	pd.held[to].pushBack(item)
	pd.dual.hold(to, bid)
	metricTransfers.Inc()
}

func (pd *PrimalDual[V]) evict(agent int) {
	q := &pd.held[agent]
	for q.len() > 0 && pd.state(agent) == stateUnpaid {
		item := q.popFront()
		bid, _ := pd.book.bid(agent, item)
		pd.dual.release(agent, bid)
		metricEvictions.Inc()
	}
}

func (pd *PrimalDual[V]) NumAgents() int { return pd.numAgents }
func (pd *PrimalDual[V]) NumItems() int  { return pd.numItems }

// Beta is the largest accepted bid-to-budget ratio so far.
func (pd *PrimalDual[V]) Beta() float64 { return pd.book.beta }

func (pd *PrimalDual[V]) Budget(agent int) V { return pd.book.budgets[agent] }

func (pd *PrimalDual[V]) Bid(agent, item int) (V, bool) { return pd.book.bid(agent, item) }

func (pd *PrimalDual[V]) Alpha(agent int) float64 { return pd.dual.alpha[agent] }

func (pd *PrimalDual[V]) Updates(agent int) uint64 { return pd.dual.updates[agent] }

func (pd *PrimalDual[V]) Consumption(agent int) V { return pd.dual.consumption[agent] }

// Held returns a copy of the agent's temporary allocation, front first.
func (pd *PrimalDual[V]) Held(agent int) []int { return pd.held[agent].slice() }

// Slack is the agent's current U multiplier.
func (pd *PrimalDual[V]) Slack(agent int) float64 { return pd.dual.slack(agent, pd.book.beta) }

// PaidFor reports consumption(agent) <= U(agent) * budget(agent).
func (pd *PrimalDual[V]) PaidFor(agent int) bool {
	c, err := floatOf(pd.dual.consumption[agent])
	if err != nil {
		pd.book.fail(fmt.Errorf("consumption of agent %d: %w", agent, err))
		return true
	}
	return c <= pd.Slack(agent)*pd.book.budgetf[agent]
}

// Steps is the number of inner settle steps taken so far.
func (pd *PrimalDual[V]) Steps() int { return pd.steps }

// itemQueue is a FIFO of item ids.
type itemQueue struct {
	items []int
	head  int
}

func (q *itemQueue) len() int { return len(q.items) - q.head }

func (q *itemQueue) pushBack(item int) {
	if q.head > 32 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}
	q.items = append(q.items, item)
}

func (q *itemQueue) popFront() int {
	item := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return item
}

func (q *itemQueue) slice() []int {
	return append([]int(nil), q.items[q.head:]...)
}

// drain empties the queue, returning its items front first.
func (q *itemQueue) drain() []int {
	items := q.slice()
	q.items = q.items[:0]
	q.head = 0
	return items
}
