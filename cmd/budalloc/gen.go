// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"github.com/someonegg/budalloc/campaign"
	"github.com/urfave/cli/v2"
	"github.com/viant/afs"
)

var genCmd = &cli.Command{
	Name:    "gen",
	Usage:   "Generate a random instance",
	Aliases: []string{"g"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output instance (json or yaml) url",
		},
		&cli.IntFlag{
			Name:  "advertisers",
			Value: 10,
			Usage: "specify the advertiser count",
		},
		&cli.IntFlag{
			Name:  "slots",
			Value: 100,
			Usage: "specify the slot count",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "specify the random seed, 0 for the current time",
		},
		&cli.Float64Flag{
			Name:  "density",
			Value: 0.3,
			Usage: "specify the chance an advertiser bids on a slot (0.0-1.0)",
		},
	},
	Action: func(ctx *cli.Context) error {
		var (
			out         = ctx.String("out")
			advertisers = ctx.Int("advertisers")
			slots       = ctx.Int("slots")
			seed        = ctx.Int64("seed")
			density     = ctx.Float64("density")
		)
		if advertisers < 0 || slots < 0 {
			return errors.New("invalid advertisers or slots")
		}
		if !(density >= 0.0 && density <= 1.0) {
			return errors.New("invalid density")
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		inst := genInstance(rand.New(rand.NewSource(seed)), advertisers, slots, density)
		if err := campaign.SaveInstance(ctx.Context, afs.New(), out, inst); err != nil {
			return fmt.Errorf("save instance failed: %w", err)
		}
		fmt.Printf("seed: %v, advertisers: %v, slots: %v, bids: %v\n", seed, advertisers, slots, len(inst.Bids))
		return nil
	},
}

// genInstance draws budgets in [50, 500) and bids in (0, budget/4],
// both in cents.
func genInstance(r *rand.Rand, advertisers, slots int, density float64) *campaign.Instance {
	inst := &campaign.Instance{}

	budgets := make([]int64, advertisers)
	for i := range budgets {
		budgets[i] = 5000 + r.Int63n(45000)
		inst.Advertisers = append(inst.Advertisers, &campaign.Advertiser{
			ID:     fmt.Sprintf("adv-%03d", i),
			Budget: decimal.New(budgets[i], -2),
		})
	}
	for j := 0; j < slots; j++ {
		inst.Slots = append(inst.Slots, &campaign.Slot{ID: fmt.Sprintf("slot-%04d", j)})
	}

	for i := 0; i < advertisers; i++ {
		for j := 0; j < slots; j++ {
			if r.Float64() >= density {
				continue
			}
			inst.Bids = append(inst.Bids, &campaign.Bid{
				Advertiser: inst.Advertisers[i].ID,
				Slot:       inst.Slots[j].ID,
				Amount:     decimal.New(1+r.Int63n(budgets[i]/4), -2),
			})
		}
	}
	return inst
}
