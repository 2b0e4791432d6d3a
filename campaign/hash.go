// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package campaign

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint hashes the advertiser to slots mapping and spends.
//
// Formula: SHA256(adv1 + ":" + slot1 + "," + slot2 + "=" + spend1 + "|" + adv2 ...)
// with advertisers and their slots in ascending order. Spends are written in
// their exact decimal form.
func Fingerprint(allocs []*Alloc) string {
	sorted := append([]*Alloc(nil), allocs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Advertiser < sorted[j].Advertiser
	})

	parts := make([]string, len(sorted))
	for i, alloc := range sorted {
		slots := append([]string(nil), alloc.Slots...)
		sort.Strings(slots)
		parts[i] = fmt.Sprintf("%s:%s=%s", alloc.Advertiser, strings.Join(slots, ","), alloc.Spend.String())
	}

	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash)
}
