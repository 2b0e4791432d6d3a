// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/someonegg/budalloc/campaign"
	"github.com/someonegg/budalloc/internal/tracing"
	"github.com/urfave/cli/v2"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

var solveCmd = &cli.Command{
	Name:    "solve",
	Usage:   "Allocate the slots of an instance",
	Aliases: []string{"s"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "instance",
			Required: true,
			Usage:    "specify the input instance (json or yaml) url",
		},
		&cli.StringFlag{
			Name:     "out",
			Required: true,
			Usage:    "specify the output report url",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "specify the report format (json, yaml, cbor), default by extension",
		},
		&cli.Float64Flag{
			Name:  "eps",
			Value: campaign.DefaultEpsilon,
			Usage: "specify the accuracy parameter (0.0-1.0, exclusive)",
		},
		&cli.StringFlag{
			Name:  "strategy",
			Value: campaign.StrategyPrimalDual,
			Usage: "specify the strategy (primal-dual, greedy, exact)",
		},
		&cli.IntFlag{
			Name:  "max-iterations",
			Value: campaign.DefaultMaxIterations,
			Usage: "specify the solver step limit",
		},
		&cli.StringFlag{
			Name:  "trace",
			Usage: "specify a file to write spans to",
		},
		&cli.StringFlag{
			Name:  "metrics",
			Usage: "specify a url to dump metrics to",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "print per advertiser details",
		},
	},
	Action: func(ctx *cli.Context) error {
		opts := solveOptions{
			instance:    ctx.String("instance"),
			out:         ctx.String("out"),
			format:      ctx.String("format"),
			eps:         ctx.Float64("eps"),
			strategy:    ctx.String("strategy"),
			maxIters:    ctx.Int("max-iterations"),
			traceFile:   ctx.String("trace"),
			metricsFile: ctx.String("metrics"),
			verbose:     ctx.Bool("verbose"),
		}
		if !(opts.eps > 0.0 && opts.eps < 1.0) {
			return errors.New("invalid eps")
		}
		if opts.maxIters <= 0 {
			return errors.New("invalid max-iterations")
		}
		return doSolve(ctx.Context, opts)
	},
}

type solveOptions struct {
	instance    string
	out         string
	format      string
	eps         float64
	strategy    string
	maxIters    int
	traceFile   string
	metricsFile string
	verbose     bool
}

func doSolve(ctx context.Context, opts solveOptions) (err error) {
	if opts.traceFile != "" {
		if err := tracing.Init("budalloc", version, opts.traceFile); err != nil {
			return fmt.Errorf("init tracing failed: %w", err)
		}
		defer func() {
			if serr := tracing.Shutdown(context.Background()); err == nil {
				err = serr
			}
		}()
	}

	ctx, span := tracing.StartSpan(ctx, "budalloc.solve", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	fs := afs.New()

	inst, err := campaign.LoadInstance(ctx, fs, opts.instance)
	if err != nil {
		return fmt.Errorf("load instance failed: %w", err)
	}

	matcher := &campaign.Matcher{
		Epsilon:       &opts.eps,
		MaxIterations: &opts.maxIters,
		Strategy:      opts.strategy,
		Verbose:       opts.verbose,
	}

	allocs, summ, err := matcher.Match(ctx, inst)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	fmt.Printf("%+v\n", summ)

	err = campaign.WriteReport(ctx, fs, opts.out, opts.format, &campaign.Report{
		Summary: summ,
		Allocs:  allocs,
	})
	if err != nil {
		return fmt.Errorf("write report failed: %w", err)
	}

	if opts.metricsFile != "" {
		if err = dumpMetrics(ctx, fs, opts.metricsFile); err != nil {
			return fmt.Errorf("dump metrics failed: %w", err)
		}
	}
	return nil
}

// dumpMetrics writes the default registry in the text exposition format.
func dumpMetrics(ctx context.Context, fs afs.Service, url string) error {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return err
		}
	}
	return fs.Upload(ctx, url, file.DefaultFileOsMode, &buf)
}
