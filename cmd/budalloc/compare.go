// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/someonegg/budalloc"
	"github.com/someonegg/budalloc/campaign"
	"github.com/urfave/cli/v2"
	"github.com/viant/afs"
)

var compareCmd = &cli.Command{
	Name:    "compare",
	Usage:   "Run every strategy on an instance and compare the spend",
	Aliases: []string{"cmp"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "instance",
			Required: true,
			Usage:    "specify the input instance (json or yaml) url",
		},
		&cli.Float64Flag{
			Name:  "eps",
			Value: campaign.DefaultEpsilon,
			Usage: "specify the accuracy parameter (0.0-1.0, exclusive)",
		},
		&cli.IntFlag{
			Name:  "exact-limit",
			Value: campaign.DefaultExactLimit,
			Usage: "specify the most slots the exact strategy accepts",
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			instance = ctx.String("instance")
			eps      = ctx.Float64("eps")
			limit    = ctx.Int("exact-limit")
		)
		if !(eps > 0.0 && eps < 1.0) {
			return errors.New("invalid eps")
		}
		if limit < 0 {
			return errors.New("invalid exact-limit")
		}
		inst, err := campaign.LoadInstance(ctx.Context, afs.New(), instance)
		if err != nil {
			return fmt.Errorf("load instance failed: %w", err)
		}
		rows, err := doCompare(ctx.Context, inst, eps, limit)
		if err != nil {
			return err
		}
		printRows(os.Stdout, rows)
		return nil
	},
}

type compareRow struct {
	strategy string
	summary  campaign.Summary
	skipped  bool
	ratio    float64 // spend / best spend
}

func doCompare(ctx context.Context, inst *campaign.Instance, eps float64, limit int) ([]*compareRow, error) {
	var rows []*compareRow
	best := decimal.Zero

	for _, strategy := range []string{campaign.StrategyPrimalDual, campaign.StrategyGreedy, campaign.StrategyExact} {
		matcher := &campaign.Matcher{
			Epsilon:    &eps,
			ExactLimit: &limit,
			Strategy:   strategy,
		}
		_, summ, err := matcher.Match(ctx, inst)
		if errors.Is(err, budalloc.ErrInstanceTooLarge) {
			rows = append(rows, &compareRow{strategy: strategy, skipped: true})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w", strategy, err)
		}
		if summ.TotalSpend.GreaterThan(best) {
			best = summ.TotalSpend
		}
		rows = append(rows, &compareRow{strategy: strategy, summary: summ})
	}

	for _, row := range rows {
		if row.skipped {
			continue
		}
		if best.IsZero() {
			row.ratio = 1.0
		} else {
			row.ratio = row.summary.TotalSpend.Div(best).InexactFloat64()
		}
	}
	return rows, nil
}

func printRows(w io.Writer, rows []*compareRow) {
	fmt.Fprintf(w, "%-12s %14s %8s %8s\n", "strategy", "spend", "slots", "ratio")
	for _, row := range rows {
		if row.skipped {
			fmt.Fprintf(w, "%-12s %14s %8s %8s\n", row.strategy, "-", "-", "skipped")
			continue
		}
		fmt.Fprintf(w, "%-12s %14s %8d %8.4f\n", row.strategy,
			row.summary.TotalSpend.StringFixed(2), row.summary.AssignedSlots, row.ratio)
	}
}
