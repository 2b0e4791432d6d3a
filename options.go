// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

// DefaultMaxIterations bounds the inner settle steps of one Solve call.
const DefaultMaxIterations = 1 << 20

type Options struct {
	// MaxIterations caps the total number of inner settle steps; Solve
	// fails with ErrNotConverged past it.
	MaxIterations int
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
	}
}

// WithMaxIterations panics if n <= 0.
func WithMaxIterations(n int) Option {
	if n <= 0 {
		panic("budalloc: WithMaxIterations requires n > 0")
	}
	return func(o *Options) {
		o.MaxIterations = n
	}
}
