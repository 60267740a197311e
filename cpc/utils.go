/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cpc

import "fmt"

type CpcFormat int
type CpcFlavor int

const (
	CpcFormatEmptyMerged             CpcFormat = 0
	CpcFormatEmptyHip                CpcFormat = 1
	CpcFormatSparseHybridMerged      CpcFormat = 2
	CpcFormatSparseHybridHip         CpcFormat = 3
	CpcFormatPinnedSlidingMergedNosv CpcFormat = 4
	CpcFormatPinnedSlidingHipNosv    CpcFormat = 5
	CpcFormatPinnedSlidingMerged     CpcFormat = 6
	CpcFormatPinnedSlidingHip        CpcFormat = 7
)

const (
	CpcFlavorEmpty   CpcFlavor = 0 //    0  == C <    1
	CpcFlavorSparse  CpcFlavor = 1 //    1  <= C <   3K/32
	CpcFlavorHybrid  CpcFlavor = 2 // 3K/32 <= C <   K/2
	CpcFlavorPinned  CpcFlavor = 3 //   K/2 <= C < 27K/8  [NB: 27/8 = 3 + 3/8]
	CpcFlavorSliding CpcFlavor = 4 // 27K/8 <= C
)

func (f CpcFormat) String() string {
	switch f {
	case CpcFormatEmptyMerged:
		return "EMPTY_MERGED"
	case CpcFormatEmptyHip:
		return "EMPTY_HIP"
	case CpcFormatSparseHybridMerged:
		return "SPARSE_HYBRID_MERGED"
	case CpcFormatSparseHybridHip:
		return "SPARSE_HYBRID_HIP"
	case CpcFormatPinnedSlidingMergedNosv:
		return "PINNED_SLIDING_MERGED_NOSV"
	case CpcFormatPinnedSlidingHipNosv:
		return "PINNED_SLIDING_HIP_NOSV"
	case CpcFormatPinnedSlidingMerged:
		return "PINNED_SLIDING_MERGED"
	case CpcFormatPinnedSlidingHip:
		return "PINNED_SLIDING_HIP"
	default:
		return "UNKNOWN_FORMAT"
	}
}

func (f CpcFlavor) String() string {
	switch f {
	case CpcFlavorEmpty:
		return "EMPTY"
	case CpcFlavorSparse:
		return "SPARSE"
	case CpcFlavorHybrid:
		return "HYBRID"
	case CpcFlavorPinned:
		return "PINNED"
	case CpcFlavorSliding:
		return "SLIDING"
	default:
		return "UNKNOWN_FLAVOR"
	}
}

func checkLgK(lgK int) error {
	if lgK < minLgK || lgK > maxLgK {
		return fmt.Errorf("lgK must be >= %d and <= %d: %d", minLgK, maxLgK, lgK)
	}
	return nil
}

func checkLgSizeInts(lgSizeInts int) error {
	if lgSizeInts < 2 || lgSizeInts > 26 {
		return fmt.Errorf("illegal lgSizeInts: %d", lgSizeInts)
	}
	return nil
}

func checkSeeds(seedA, seedB uint64) error {
	if seedA != seedB {
		return fmt.Errorf("seed mismatch: %d != %d", seedA, seedB)
	}
	return nil
}

// determineFlavor maps (lgK, numCoupons) to one of the five storage regimes.
// The boundaries come directly from the coupon-count ranges in the comments
// above: multiplying through by powers of two avoids a floating division.
func determineFlavor(lgK int, numCoupons uint64) CpcFlavor {
	c := numCoupons
	k := uint64(1) << lgK
	c2 := c << 1
	c8 := c << 3
	c32 := c << 5
	if c == 0 {
		return CpcFlavorEmpty //    0  == C <    1
	}
	if c32 < (3 * k) {
		return CpcFlavorSparse //    1  <= C <   3K/32
	}
	if c2 < k {
		return CpcFlavorHybrid // 3K/32 <= C <   K/2
	}
	if c8 < (27 * k) {
		return CpcFlavorPinned //   K/2 <= C < 27K/8
	}
	return CpcFlavorSliding // 27K/8 <= C
}

// determineCorrectOffset computes the window offset that the windowed flavors
// (HYBRID/PINNED/SLIDING) must converge to for a given coupon count: the
// window slides right by one column for every K additional coupons beyond
// the 19K/8 starting point, capped at 56 (the byte cannot slide past column
// 56 of a 64-bit row).
func determineCorrectOffset(lgK int, numCoupons uint64) int {
	k := int64(1) << lgK
	c := int64(numCoupons)
	offset := (8*c - 19*k) / (8 * k)
	if offset < 0 {
		offset = 0
	}
	if offset > 56 {
		offset = 56
	}
	return int(offset)
}
