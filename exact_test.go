// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package budalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactAllocator(t *testing.T) {
	t.Run("BeatsGreedy", func(t *testing.T) {
		inst := makeInstance(10).withItems(3).
			bid(0, 0, 6).
			bid(0, 1, 5).
			bid(0, 2, 5)

		a, err := ExactAllocator[Int](DefaultExactItems).Allocate(inst)
		require.NoError(t, err)
		assert.Equal(t, Int(10), a.TotalConsumption())
		assert.Equal(t, []int{1, 2}, a.Items(0))
	})

	t.Run("TwoAgents", func(t *testing.T) {
		inst := makeInstance(10, 10).withItems(3).
			bid(0, 0, 6).
			bid(0, 1, 5).
			bid(1, 0, 5).
			bid(1, 2, 5)

		a, err := ExactAllocator[Int](DefaultExactItems).Allocate(inst)
		require.NoError(t, err)
		assert.Equal(t, Int(15), a.TotalConsumption())
		assert.Equal(t, []int{1}, a.Items(0))
		assert.ElementsMatch(t, []int{0, 2}, a.Items(1))

		g, err := GreedyAllocator[Int]().Allocate(inst)
		require.NoError(t, err)
		assert.Equal(t, Int(11), g.TotalConsumption())
	})

	t.Run("UnbidItemsDoNotCount", func(t *testing.T) {
		inst := makeInstance(10).withItems(40).bid(0, 39, 4)

		a, err := ExactAllocator[Int](1).Allocate(inst)
		require.NoError(t, err)
		assert.Equal(t, []int{39}, a.Items(0))
	})

	t.Run("TooLarge", func(t *testing.T) {
		inst := makeInstance(10).withItems(3).
			bid(0, 0, 1).
			bid(0, 1, 1).
			bid(0, 2, 1)

		_, err := ExactAllocator[Int](2).Allocate(inst)
		assert.ErrorIs(t, err, ErrInstanceTooLarge)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ExactAllocator[Int](2).Allocate(makeInstance(1).withItems(1).bid(0, 3, 1))
		assert.ErrorIs(t, err, ErrBadInstance)
	})
}
