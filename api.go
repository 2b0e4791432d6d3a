// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package budalloc provides budgeted allocation algorithms: agents with
// budgets bid on indivisible items, and an allocator assigns items so that
// the accepted bid value is (approximately) maximized while no agent spends
// more than its budget.
//
// The main algorithm is a primal-dual (1 - β/4)(1 - ε)-approximation, where
// β is the largest bid-to-budget ratio and ε is the accuracy parameter.
package budalloc

import "errors"

// Value is the numeric type used for bids, budgets and consumption.
//
// The zero value of V must be the numeric zero. Float64 is only used for
// price arithmetic; feasibility is always decided with Sub, Sign and Cmp.
// github.com/shopspring/decimal.Decimal satisfies Value as is.
type Value[V any] interface {
	Add(V) V
	Sub(V) V
	Cmp(V) int
	Sign() int
	Float64() (f float64, exact bool)
	String() string
}

type Allocator[V Value[V]] interface {
	Allocate(inst *Instance[V]) (*Assignment[V], error)
}

var (
	ErrBadEpsilon       = errors.New("budalloc: epsilon must be in (0, 1)")
	ErrBadSize          = errors.New("budalloc: agent and item counts must be non-negative")
	ErrBadInstance      = errors.New("budalloc: malformed instance")
	ErrNumericDomain    = errors.New("budalloc: value is not representable as a finite float")
	ErrNotConverged     = errors.New("budalloc: iteration limit exceeded before convergence")
	ErrInstanceTooLarge = errors.New("budalloc: instance too large for exact allocation")
)

// Bid is one (agent, item) offer.
type Bid[V Value[V]] struct {
	Agent int
	Item  int
	Value V
}

// Instance is a plain problem description consumed by Allocators.
type Instance[V Value[V]] struct {
	NumAgents int
	NumItems  int
	Budgets   []V // len == NumAgents
	Bids      []Bid[V]
}
