// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import "container/heap"

// discounts is the view of the dual state the ledger needs.
type discounts interface {
	// discount returns the agent's alpha and its update counter.
	discount(agent int) (alpha float64, stamp uint64)
}

type ledgerEntry struct {
	price float64 // bid * (1 - alpha) as of stamp
	bid   float64
	stamp uint64
	agent int
}

// entryHeap is a max-heap on price; equal prices go to the lower agent id.
type entryHeap []ledgerEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].price != h[j].price {
		return h[i].price > h[j].price
	}
	return h[i].agent < h[j].agent
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) { *h = append(*h, x.(ledgerEntry)) }

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// priceLedger owns one lazily revalidated heap per item. Entries are not
// updated when an agent's alpha changes; a lookup that meets an entry whose
// stamp lags the agent's update counter recomputes it and sifts it down.
type priceLedger struct {
	items []entryHeap
	dual  discounts
}

func newPriceLedger(numItems int, dual discounts) *priceLedger {
	return &priceLedger{
		items: make([]entryHeap, numItems),
		dual:  dual,
	}
}

func (l *priceLedger) add(item, agent int, bid float64) {
	alpha, stamp := l.dual.discount(agent)
	heap.Push(&l.items[item], ledgerEntry{
		price: bid * (1 - alpha),
		bid:   bid,
		stamp: stamp,
		agent: agent,
	})
}

// bidders is the number of agents bidding on item.
func (l *priceLedger) bidders(item int) int {
	return len(l.items[item])
}

// top returns the agent with the highest current discounted price for
// item, or -1 if nobody bids on it.
func (l *priceLedger) top(item int) int {
	h := &l.items[item]
	for h.Len() > 0 {
		e := &(*h)[0]
		alpha, stamp := l.dual.discount(e.agent)
		if e.stamp == stamp {
			return e.agent
		}
		e.price = e.bid * (1 - alpha)
		e.stamp = stamp
		heap.Fix(h, 0)
		metricRevalidations.Inc()
	}
	return -1
}
