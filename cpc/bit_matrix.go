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

import (
	"math/bits"

	"github.com/sketchlab/cpcsketch/common"
)

// kxpByteLookup[b] holds the sum of invPow2(col+1) over every bit col (0..7)
// clear in b, since kxp sums over the matrix's zero bits. refreshKXP uses it
// to fold a whole byte's contribution to kxp in one table lookup instead of
// eight conditional branches.
var kxpByteLookup [256]float64

func init() {
	for pattern := 0; pattern < 256; pattern++ {
		sum := 0.0
		for col := 0; col < 8; col++ {
			if pattern&(1<<col) == 0 {
				sum += common.InvPow2(col + 1)
			}
		}
		kxpByteLookup[pattern] = sum
	}
}

// bitMatrixOfSketch reconstructs the logical K x 64 bit matrix that the
// sketch's pair table and sliding window jointly represent.
//
// Before the sketch has crossed into a windowed flavor, every set bit lives
// in the pair table at its exact (row, col), so a plain OR suffices.
//
// Afterward, columns [windowOffset, windowOffset+8) come from the window
// byte. Every column below the window is assumed 1 unless the pair table
// holds a surprising-0 entry for it, and every column above the window is
// assumed 0 unless the pair table holds a surprising-1 entry. Both cases are
// handled the same way: pre-fill the early zone with 1's, then XOR in each
// pair-table bit, which flips a pre-set 1 back to 0 (resolving a
// surprising-0) or sets an unset 0 to 1 (recording a surprising-1).
func (c *CpcSketch) bitMatrixOfSketch() ([]uint64, error) {
	k := 1 << c.lgK
	matrix := make([]uint64, k)

	if c.slidingWindow == nil {
		if c.pairTable != nil {
			for _, rowCol := range c.pairTable.slotsArr {
				if rowCol == -1 {
					continue
				}
				matrix[rowCol>>6] |= uint64(1) << uint(rowCol&63)
			}
		}
		return matrix, nil
	}

	offset := uint(c.windowOffset)
	earlyZoneMask := (uint64(1) << offset) - 1
	for row := 0; row < k; row++ {
		matrix[row] = (uint64(c.slidingWindow[row]) << offset) | earlyZoneMask
	}
	if c.pairTable != nil {
		for _, rowCol := range c.pairTable.slotsArr {
			if rowCol == -1 {
				continue
			}
			matrix[rowCol>>6] ^= uint64(1) << uint(rowCol&63)
		}
	}
	return matrix, nil
}

// refreshKXP recomputes kxp from scratch by scanning a reconstructed bit
// matrix. It is only ever needed after an operation (like Copy validation or
// offline reconstruction) that cannot cheaply maintain kxp incrementally,
// since the normal update path keeps it current via updateHIP.
//
// Each row's contribution is accumulated byte by byte from the
// most-significant byte down to the least, via Horner's method: dividing the
// running sum by 256 between bytes applies the correct power-of-two weight
// for every column without a per-bit loop.
func (c *CpcSketch) refreshKXP(bitMatrix []uint64) {
	kxp := 0.0
	for _, row := range bitMatrix {
		rowKxp := 0.0
		for byteIdx := 7; byteIdx >= 0; byteIdx-- {
			b := byte(row >> uint(8*byteIdx))
			rowKxp = rowKxp/256.0 + kxpByteLookup[b]
		}
		kxp += rowKxp
	}
	c.kxp = kxp
}

// CountCoupons sums the number of set bits across every row of a
// reconstructed bit matrix, i.e. the number of coupons it represents.
func CountCoupons(matrix []uint64) uint64 {
	var count uint64
	for _, word := range matrix {
		count += uint64(bits.OnesCount64(word))
	}
	return count
}
