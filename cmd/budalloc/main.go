package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "budalloc",
		Usage:   "Utility for budgeted allocation of ad slots",
		Version: version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "v",
				Value: 0,
				Usage: "specify the log verbosity",
			},
		},
		Before: func(ctx *cli.Context) error {
			return initLogging(ctx.Int("v"))
		},
		After: func(ctx *cli.Context) error {
			klog.Flush()
			return nil
		},
		Commands: []*cli.Command{
			solveCmd,
			compareCmd,
			genCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func initLogging(v int) error {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	return fs.Set("v", strconv.Itoa(v))
}
