// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"fmt"
	"math"
	"strconv"
)

// Int is an int64 backed Value.
type Int int64

func (a Int) Add(b Int) Int { return a + b }
func (a Int) Sub(b Int) Int { return a - b }

func (a Int) Cmp(b Int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func (a Int) Sign() int { return a.Cmp(0) }

func (a Int) Float64() (float64, bool) {
	f := float64(a)
	return f, Int(f) == a
}

func (a Int) String() string { return strconv.FormatInt(int64(a), 10) }

// floatOf converts v for price arithmetic. Inexact conversions are fine,
// non-finite ones are not.
func floatOf[V Value[V]](v V) (float64, error) {
	f, _ := v.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s", ErrNumericDomain, v.String())
	}
	return f, nil
}
