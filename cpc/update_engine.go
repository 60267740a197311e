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
	"github.com/sketchlab/cpcsketch/common"
	"github.com/sketchlab/cpcsketch/internal"
)

// hashUpdate extracts a (row, col) coupon from a 128-bit hash and feeds it
// into the sketch. col is the number of leading zeros of hash1, capped at 63
// (the rightmost column represents every col >= 63, an event so rare it is
// folded into a single bucket). row is the low lgK bits of hash0.
func (c *CpcSketch) hashUpdate(hash0, hash1 uint64) error {
	col := int(internal.CountLeadingZerosInU64(hash1))
	if col > 63 {
		col = 63
	}
	kMask := (uint64(1) << c.lgK) - 1
	row := int(hash0 & kMask)
	rowCol := (row << 6) | col
	return c.rowColUpdate(rowCol)
}

// rowColUpdate routes a single coupon into the sketch according to its
// current flavor: below the hybrid threshold coupons accumulate in the
// sparse pair table; beyond it, the sketch maintains a sliding 8-bit window
// per row plus a pair table of bits that fall outside the window.
func (c *CpcSketch) rowColUpdate(rowCol int) error {
	col := rowCol & 63
	if col < c.fiCol {
		return nil // quick early-exit: column is not interesting
	}
	if uint32(rowCol) == 0xFFFFFFFF {
		rowCol ^= 1 << 6 // the value that maps to the table's sentinel is remapped
	}
	if c.slidingWindow == nil {
		return c.sparseUpdate(rowCol)
	}
	return c.windowedUpdate(rowCol)
}

func (c *CpcSketch) sparseUpdate(rowCol int) error {
	if c.pairTable == nil {
		table, err := NewPairTable(2, 6+c.lgK)
		if err != nil {
			return err
		}
		c.pairTable = table
	}
	isNovel, err := c.pairTable.maybeInsert(rowCol)
	if err != nil {
		return err
	}
	if !isNovel {
		return nil
	}
	c.numCoupons++
	c.updateHIP(rowCol)
	if c.getFlavor() != CpcFlavorSparse {
		return c.promoteSparseToWindowed()
	}
	return nil
}

// windowedUpdate routes a coupon according to which of the three zones its
// column falls in. Columns inside the window are tracked exactly, by the
// window byte itself. Everywhere else, the pair table tracks only the
// columns whose real bit diverges from an assumed default: a column below
// the window is assumed already 1 (surprising-0 entries record the rare
// exceptions), and a column above the window is assumed 0 (surprising-1
// entries record the coupons actually seen there). This keeps the pair
// table sized to the number of anomalies rather than the number of coupons.
func (c *CpcSketch) windowedUpdate(rowCol int) error {
	row := rowCol >> 6
	col := rowCol & 63

	switch {
	case col >= c.windowOffset && col < c.windowOffset+8:
		byteCol := col - c.windowOffset
		oldBits := c.slidingWindow[row]
		newBits := oldBits | (byte(1) << byteCol)
		if newBits == oldBits {
			return nil
		}
		c.slidingWindow[row] = newBits
		c.numCoupons++
		c.updateHIP(rowCol)
		if newOffset := determineCorrectOffset(c.lgK, c.numCoupons); newOffset != c.windowOffset {
			return c.modifyOffset(newOffset)
		}
		return nil

	case col < c.windowOffset:
		// early zone: assumed already 1. A surprising-0 entry here means the
		// real bit was still 0; observing the coupon resolves that anomaly.
		wasSurprising, err := c.pairTable.maybeDelete(rowCol)
		if err != nil {
			return err
		}
		if !wasSurprising {
			return nil // already matched the all-1 assumption, not a new coupon
		}
		c.numCoupons++
		c.updateHIP(rowCol)
		if newOffset := determineCorrectOffset(c.lgK, c.numCoupons); newOffset != c.windowOffset {
			return c.modifyOffset(newOffset)
		}
		return nil

	default: // col >= windowOffset+8: late zone, assumed 0 until surprising.
		isNovel, err := c.pairTable.maybeInsert(rowCol)
		if err != nil {
			return err
		}
		if !isNovel {
			return nil
		}
		c.numCoupons++
		c.updateHIP(rowCol)
		if newOffset := determineCorrectOffset(c.lgK, c.numCoupons); newOffset != c.windowOffset {
			return c.modifyOffset(newOffset)
		}
		return nil
	}
}

// updateHIP folds one newly observed coupon into the running HIP cardinality
// estimator. This must run exactly once per novel coupon, immediately when it
// is discovered, because the estimator's accuracy depends on kxp reflecting
// the state of the sketch at the moment of that specific observation.
func (c *CpcSketch) updateHIP(rowCol int) {
	col := rowCol & 63
	k := float64(int64(1) << c.lgK)
	c.hipEstAccum += k / c.kxp
	c.kxp -= common.InvPow2(col + 1)
}

// promoteSparseToWindowed converts a sparse pair-table sketch that has
// crossed the HYBRID threshold into the windowed representation: a per-row
// 8-bit sliding window (starting at offset zero) plus a pair table holding
// only the bits that fall outside that window. At offset zero there is no
// early zone yet, so every sparse entry is still a literal 1 bit: either it
// lands in the window, or it becomes a (late-zone) surprising-1 entry.
func (c *CpcSketch) promoteSparseToWindowed() error {
	k := 1 << c.lgK
	lgK := c.lgK

	newTableLgSize := max(lgK-4, 2)
	newWindow := make([]byte, k)
	newTable, err := NewPairTable(newTableLgSize, 6+lgK)
	if err != nil {
		return err
	}

	for _, rowCol := range c.pairTable.slotsArr {
		if rowCol == -1 {
			continue
		}
		placeLiteralBit(newWindow, newTable, rowCol>>6, rowCol&63, 0)
	}
	newTable.numPairs = countValidSlots(newTable.slotsArr)

	c.slidingWindow = newWindow
	c.windowOffset = 0
	c.pairTable = newTable
	return nil
}

// placeLiteralBit records a known-1 bit at (row, col), either into the
// sliding window (if col falls in [offset, offset+8)) or into the pair table
// as a late-zone surprising-1 entry otherwise. Only valid when col is never
// below offset, i.e. when there is no early zone yet to apply assumed-1
// semantics to — true exactly at offset zero, which is the only place this
// is used.
func placeLiteralBit(window []byte, table *pairTable, row, col, offset int) {
	if col >= offset && col < offset+8 {
		window[row] |= byte(1) << (col - offset)
	} else {
		table.mustInsert((row << 6) | col)
	}
}

func countValidSlots(slots []int) int {
	n := 0
	for _, s := range slots {
		if s != -1 {
			n++
		}
	}
	return n
}

// modifyOffset slides the window up to newOffset one column at a time. The
// offset only ever increases, by one column per K further coupons and at most
// 56 times over the life of a sketch, each step touching every row once, so
// the amortized cost stays small.
func (c *CpcSketch) modifyOffset(newOffset int) error {
	for c.windowOffset < newOffset {
		if err := c.shiftWindowUpByOne(); err != nil {
			return err
		}
	}
	c.refreshFiCol()
	return nil
}

// shiftWindowUpByOne advances the window by exactly one column: the column
// leaving the window's low end joins the early zone (recorded as a
// surprising-0 entry only if its real value is still 0 — otherwise it
// already matches the new assumed-1 default and needs no entry), and the
// column entering the window's high end is pulled out of any existing
// surprising-1 entry in the late zone.
func (c *CpcSketch) shiftWindowUpByOne() error {
	k := 1 << c.lgK
	leavingCol := c.windowOffset
	enteringCol := c.windowOffset + 8

	for row := 0; row < k; row++ {
		wbyte := c.slidingWindow[row]
		if wbyte&1 == 0 {
			if _, err := c.pairTable.maybeInsert((row << 6) | leavingCol); err != nil {
				return err
			}
		}
		wbyte >>= 1

		wasSurprising, err := c.pairTable.maybeDelete((row << 6) | enteringCol)
		if err != nil {
			return err
		}
		if wasSurprising {
			wbyte |= 1 << 7
		}
		c.slidingWindow[row] = wbyte
	}
	c.windowOffset++
	return nil
}

// refreshFiCol recomputes fiCol as the lowest column with any tracked
// anomaly — a surprising-0 below the window or a surprising-1 above it —
// capped at windowOffset, since columns at or above the window are always
// handled exactly regardless of fiCol.
func (c *CpcSketch) refreshFiCol() {
	var cols uint64
	if c.pairTable != nil {
		for _, rowCol := range c.pairTable.slotsArr {
			if rowCol != -1 {
				cols |= uint64(1) << uint(rowCol&63)
			}
		}
	}
	fiCol := int(internal.CountTrailingZerosInU64(cols))
	if fiCol > c.windowOffset {
		fiCol = c.windowOffset
	}
	c.fiCol = fiCol
}
