// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package campaign

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/someonegg/budalloc"
	"github.com/someonegg/budalloc/internal/tracing"
	"k8s.io/klog/v2"
)

var (
	ErrDuplicateID     = errors.New("campaign: duplicate id")
	ErrNegativeBudget  = errors.New("campaign: negative budget")
	ErrUnknownStrategy = errors.New("campaign: unknown strategy")
)

func (m *Matcher) init() {
	if m.Epsilon == nil {
		m.eps = DefaultEpsilon
	} else {
		m.eps = *m.Epsilon
	}

	if m.MaxIterations == nil {
		m.maxIters = DefaultMaxIterations
	} else {
		m.maxIters = *m.MaxIterations
	}

	if m.ExactLimit == nil {
		m.exact = DefaultExactLimit
	} else {
		m.exact = *m.ExactLimit
	}

	if m.Strategy == "" {
		m.strategy = StrategyPrimalDual
	} else {
		m.strategy = m.Strategy
	}
}

// Match allocates slots to advertisers with the configured strategy.
// Bids naming unknown advertisers or slots, duplicate bids and bids outside
// (0, budget] are dropped and counted in Summary.RejectedBids.
func (m *Matcher) Match(ctx context.Context, inst *Instance) (allocs []*Alloc, summary Summary, err error) {
	m.init()

	ctx, span := tracing.StartSpan(ctx, "campaign.match", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"strategy": m.strategy})

	var summ Summary
	summ.RunID = uuid.NewString()
	summ.Strategy = m.strategy

	advertisers, err := genAgents(inst.Advertisers)
	if err != nil {
		return nil, summ, err
	}
	slots, err := genItems(inst.Slots)
	if err != nil {
		return nil, summ, err
	}
	problem, rejected := genProblem(advertisers, slots, inst.Bids)

	summ.Advertisers = len(advertisers)
	summ.Slots = len(slots)
	summ.Bids = len(problem.Bids)
	summ.RejectedBids = rejected
	summ.Beta = problem.Beta()
	for _, adv := range advertisers {
		summ.TotalBudget = summ.TotalBudget.Add(adv.Budget)
	}
	span.WithInt("advertisers", summ.Advertisers).
		WithInt("slots", summ.Slots).
		WithInt("bids", summ.Bids)

	if m.Verbose {
		fmt.Printf("advertisers: %v, slots: %v, bids: %v, rejected: %v, beta: %.4f\n",
			summ.Advertisers, summ.Slots, summ.Bids, summ.RejectedBids, summ.Beta)
		fmt.Println("")
	}

	assignment, err := m.allocate(ctx, problem)
	if err != nil {
		return nil, summ, err
	}

	allocs = genAllocs(assignment, advertisers, slots)
	summ.TotalSpend = assignment.TotalConsumption()
	summ.AssignedSlots = assignment.NumAssigned()
	summ.Fingerprint = Fingerprint(allocs)

	if m.Verbose {
		for _, alloc := range allocs {
			fmt.Println(alloc.Advertiser, "budget:", alloc.Budget, "spend:", alloc.Spend, "slots:", len(alloc.Slots))
		}
		for item, slot := range slots {
			if _, ok := assignment.Owner(item); !ok {
				fmt.Println(slot.ID, "unassigned")
			}
		}
		fmt.Println("total spend", summ.TotalSpend, "of", summ.TotalBudget)
		fmt.Println("")
	}

	klog.V(1).Infof("campaign: run %s %s, %d/%d slots, spend %s", summ.RunID, summ.Strategy,
		summ.AssignedSlots, summ.Slots, summ.TotalSpend)
	return allocs, summ, nil
}

func (m *Matcher) allocate(ctx context.Context, problem *budalloc.Instance[decimal.Decimal]) (a *budalloc.Assignment[decimal.Decimal], err error) {
	_, span := tracing.StartSpan(ctx, "campaign.allocate", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	var al budalloc.Allocator[decimal.Decimal]
	switch m.strategy {
	case StrategyPrimalDual:
		al = budalloc.PrimalDualAllocator[decimal.Decimal](m.eps, budalloc.WithMaxIterations(m.maxIters))
	case StrategyGreedy:
		al = budalloc.GreedyAllocator[decimal.Decimal]()
	case StrategyExact:
		al = budalloc.ExactAllocator[decimal.Decimal](m.exact)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, m.strategy)
	}
	return al.Allocate(problem)
}

func genAgents(advertisers []*Advertiser) ([]*Advertiser, error) {
	agents := append([]*Advertiser(nil), advertisers...)
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].ID < agents[j].ID
	})

	for i, adv := range agents {
		if i > 0 && agents[i-1].ID == adv.ID {
			return nil, fmt.Errorf("%w: advertiser %q", ErrDuplicateID, adv.ID)
		}
		if adv.Budget.Sign() < 0 {
			return nil, fmt.Errorf("%w: advertiser %q has %s", ErrNegativeBudget, adv.ID, adv.Budget)
		}
	}
	return agents, nil
}

func genItems(slots []*Slot) ([]*Slot, error) {
	items := append([]*Slot(nil), slots...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})

	for i := 1; i < len(items); i++ {
		if items[i-1].ID == items[i].ID {
			return nil, fmt.Errorf("%w: slot %q", ErrDuplicateID, items[i].ID)
		}
	}
	return items, nil
}

func genProblem(advertisers []*Advertiser, slots []*Slot, bids []*Bid) (*budalloc.Instance[decimal.Decimal], int) {
	agentOf := make(map[string]int, len(advertisers))
	for i, adv := range advertisers {
		agentOf[adv.ID] = i
	}
	itemOf := make(map[string]int, len(slots))
	for i, slot := range slots {
		itemOf[slot.ID] = i
	}

	problem := &budalloc.Instance[decimal.Decimal]{
		NumAgents: len(advertisers),
		NumItems:  len(slots),
		Budgets:   make([]decimal.Decimal, len(advertisers)),
	}
	for i, adv := range advertisers {
		problem.Budgets[i] = adv.Budget
	}

	rejected := 0
	seen := make(map[[2]int]bool, len(bids))
	for _, bid := range bids {
		agent, ok1 := agentOf[bid.Advertiser]
		item, ok2 := itemOf[bid.Slot]
		if !ok1 || !ok2 {
			klog.V(2).Infof("campaign: bid %s -> %s references unknown ids", bid.Advertiser, bid.Slot)
			rejected++
			continue
		}
		key := [2]int{agent, item}
		if seen[key] || bid.Amount.Sign() <= 0 || bid.Amount.GreaterThan(problem.Budgets[agent]) {
			klog.V(2).Infof("campaign: bid %s -> %s at %s rejected", bid.Advertiser, bid.Slot, bid.Amount)
			rejected++
			continue
		}
		seen[key] = true
		problem.Bids = append(problem.Bids, budalloc.Bid[decimal.Decimal]{
			Agent: agent,
			Item:  item,
			Value: bid.Amount,
		})
	}

	return problem, rejected
}

func genAllocs(a *budalloc.Assignment[decimal.Decimal], advertisers []*Advertiser, slots []*Slot) []*Alloc {
	var allocs []*Alloc

	for agent, adv := range advertisers {
		items := a.Items(agent)
		if len(items) == 0 {
			continue
		}
		sort.Ints(items)

		alloc := &Alloc{
			Advertiser: adv.ID,
			Slots:      make([]string, len(items)),
			Spend:      a.Spend(agent),
			Budget:     adv.Budget,
		}
		for i, item := range items {
			alloc.Slots[i] = slots[item].ID
		}
		allocs = append(allocs, alloc)
	}

	return allocs
}
