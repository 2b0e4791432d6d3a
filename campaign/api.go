// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package campaign uses budalloc to allocate ad slots to advertisers.
package campaign

import (
	"github.com/shopspring/decimal"
)

type Advertiser struct {
	ID     string          `json:"id" yaml:"id"`
	Budget decimal.Decimal `json:"budget" yaml:"budget"`
}

type Slot struct {
	ID string `json:"id" yaml:"id"`
}

type Bid struct {
	Advertiser string          `json:"advertiser" yaml:"advertiser"`
	Slot       string          `json:"slot" yaml:"slot"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
}

type Instance struct {
	Advertisers []*Advertiser `json:"advertisers" yaml:"advertisers"`
	Slots       []*Slot       `json:"slots" yaml:"slots"`
	Bids        []*Bid        `json:"bids" yaml:"bids"`
}

type Alloc struct {
	Advertiser string          `json:"advertiser" yaml:"advertiser"`
	Slots      []string        `json:"slots" yaml:"slots"`
	Spend      decimal.Decimal `json:"spend" yaml:"spend"`
	Budget     decimal.Decimal `json:"budget" yaml:"budget"`
}

const (
	StrategyPrimalDual = "primal-dual"
	StrategyGreedy     = "greedy"
	StrategyExact      = "exact"
)

const (
	DefaultEpsilon       = 0.01
	DefaultMaxIterations = 1 << 20
	DefaultExactLimit    = 16
)

type Matcher struct {
	Epsilon       *float64 `json:"eps" yaml:"eps"`
	MaxIterations *int     `json:"max_iterations" yaml:"max_iterations"`
	ExactLimit    *int     `json:"exact_limit" yaml:"exact_limit"`

	// Empty means StrategyPrimalDual.
	Strategy string `json:"strategy" yaml:"strategy"`

	Verbose bool `json:"vv" yaml:"vv"`

	eps      float64
	maxIters int
	exact    int
	strategy string
}

type Summary struct {
	RunID         string          `json:"run_id" yaml:"run_id"`
	Strategy      string          `json:"strategy" yaml:"strategy"`
	Advertisers   int             `json:"advertisers" yaml:"advertisers"`
	Slots         int             `json:"slots" yaml:"slots"`
	Bids          int             `json:"bids" yaml:"bids"`
	RejectedBids  int             `json:"rejected_bids" yaml:"rejected_bids"`
	AssignedSlots int             `json:"assigned_slots" yaml:"assigned_slots"`
	TotalBudget   decimal.Decimal `json:"total_budget" yaml:"total_budget"`
	TotalSpend    decimal.Decimal `json:"total_spend" yaml:"total_spend"`
	Beta          float64         `json:"beta" yaml:"beta"`
	Fingerprint   string          `json:"fingerprint" yaml:"fingerprint"`
}

type Report struct {
	Summary Summary  `json:"summary" yaml:"summary"`
	Allocs  []*Alloc `json:"allocs" yaml:"allocs"`
}
