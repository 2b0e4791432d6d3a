// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricSolves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "solves_total",
			Help:      "Solve calls by result: converged, not_converged, numeric_error",
		},
		[]string{"result"},
	)

	metricRounds = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "solve_rounds_total",
			Help:      "Outer convergence rounds over all agents",
		},
	)

	metricSteps = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "solve_steps_total",
			Help:      "Inner settle steps of unpaid agents",
		},
	)

	metricAlphaUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "alpha_updates_total",
			Help:      "Discount (alpha) increases",
		},
	)

	metricRevalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "ledger_revalidations_total",
			Help:      "Stale price ledger entries recomputed on lookup",
		},
	)

	metricTransfers = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "item_transfers_total",
			Help:      "Held items moved to a higher discounted bidder",
		},
	)

	metricEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "item_evictions_total",
			Help:      "Uncontested held items dropped to get an agent paid for",
		},
	)

	metricRejectedBids = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "budalloc",
			Name:      "rejected_bids_total",
			Help:      "Bids ignored because they were out of range or duplicated",
		},
	)

	metricBeta = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "budalloc",
			Name:      "beta",
			Help:      "Largest bid-to-budget ratio of the last solved instance",
		},
	)
)
