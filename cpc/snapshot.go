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
	"errors"

	"github.com/sketchlab/cpcsketch/internal"
)

// ErrSeedMismatch is returned when reconstructing a sketch from a snapshot
// taken with a different hash seed than the one supplied to FromSnapshot.
var ErrSeedMismatch = errors.New("cpc: seed mismatch reconstructing sketch from snapshot")

// CpcSnapshot is a flat, in-memory capture of a sketch's internal state. It
// intentionally carries no byte-level wire encoding: ToSnapshot/FromSnapshot
// round-trip within a process (e.g. to stash a sketch aside, or to compare
// two points in a sketch's history) without committing to a serialization
// format.
type CpcSnapshot struct {
	LgK          int
	SeedHash     int16
	NumCoupons   uint64
	WindowOffset int
	FiCol        int
	MergeFlag    bool
	Kxp          float64
	HipEstAccum  float64

	SlidingWindow []byte
	PairTable     []int32
}

// seedHash16 folds a 64-bit seed down to a 16-bit value suitable for a quick
// sanity check against snapshot/sketch seed mismatches, without carrying the
// full seed in the snapshot. A seed that happens to hash to zero is
// vanishingly rare and is simply not distinguished from an unset snapshot
// field; FromSnapshot still requires an exact match against the supplied
// seed.
func seedHash16(seed uint64) int16 {
	h, err := internal.ComputeSeedHash(seed)
	if err != nil {
		return 0
	}
	return h
}

// ToSnapshot captures the sketch's current state. The returned value shares
// no backing arrays with the sketch: mutating either afterward leaves the
// other unaffected.
func (c *CpcSketch) ToSnapshot() CpcSnapshot {
	snap := CpcSnapshot{
		LgK:          c.lgK,
		SeedHash:     seedHash16(c.seed),
		NumCoupons:   c.numCoupons,
		WindowOffset: c.windowOffset,
		FiCol:        c.fiCol,
		MergeFlag:    c.mergeFlag,
		Kxp:          c.kxp,
		HipEstAccum:  c.hipEstAccum,
	}
	if c.slidingWindow != nil {
		snap.SlidingWindow = make([]byte, len(c.slidingWindow))
		copy(snap.SlidingWindow, c.slidingWindow)
	}
	if c.pairTable != nil {
		pairs := make([]int32, 0, c.pairTable.numPairs)
		for _, rowCol := range c.pairTable.slotsArr {
			if rowCol != -1 {
				pairs = append(pairs, int32(rowCol))
			}
		}
		snap.PairTable = pairs
	}
	return snap
}

// FromSnapshot reconstructs a sketch from a snapshot taken with the given
// seed. The pair table is rebuilt at the smallest size that accommodates the
// recorded entries, then grown further by the table's own insertion logic if
// needed.
func FromSnapshot(snap CpcSnapshot, seed uint64) (*CpcSketch, error) {
	if seed == 0 {
		return nil, ErrSeedMismatch
	}
	if snap.SeedHash != seedHash16(seed) {
		return nil, ErrSeedMismatch
	}
	sk, err := NewCpcSketch(snap.LgK, seed)
	if err != nil {
		return nil, err
	}
	sk.numCoupons = snap.NumCoupons
	sk.windowOffset = snap.WindowOffset
	sk.fiCol = snap.FiCol
	sk.mergeFlag = snap.MergeFlag
	sk.kxp = snap.Kxp
	sk.hipEstAccum = snap.HipEstAccum

	if snap.SlidingWindow != nil {
		sk.slidingWindow = make([]byte, len(snap.SlidingWindow))
		copy(sk.slidingWindow, snap.SlidingWindow)
	}
	if snap.PairTable != nil {
		lgSizeInts := 2
		for (1 << lgSizeInts) < len(snap.PairTable) {
			lgSizeInts++
		}
		table, err := NewPairTable(lgSizeInts, 6+snap.LgK)
		if err != nil {
			return nil, err
		}
		for _, rc := range snap.PairTable {
			if _, err := table.maybeInsert(int(rc)); err != nil {
				return nil, err
			}
		}
		sk.pairTable = table
	}
	return sk, nil
}
