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

// Package cpc implements a Compressed Probabilistic Counting sketch: a
// sub-linear data structure for estimating the number of distinct items
// in a stream, with a sliding-window bit-matrix encoding that keeps memory
// close to the information-theoretic optimum.
package cpc

import (
	"fmt"

	"github.com/sketchlab/cpcsketch/internal"
)

const (
	minLgK     = 4
	maxLgK     = 26
	defaultLgK = 11
)

// CpcSketch is a live, uncompressed CPC sketch. It is not safe for
// concurrent use by multiple goroutines.
type CpcSketch struct {
	seed uint64

	lgK        int
	numCoupons uint64 // number of distinct coupons collected so far
	mergeFlag  bool   // true iff this sketch was produced by a union/merge
	fiCol      int    // first interesting column; a speed optimization

	windowOffset  int
	slidingWindow []byte     // nil, or K bytes: row i holds bits [W, W+8) of row i
	pairTable     *pairTable // nil, or surprising-value storage

	// Valid only when mergeFlag is false.
	kxp         float64
	hipEstAccum float64
}

// NewCpcSketch constructs an empty sketch with the given lgK and seed.
// A seed of zero is remapped to internal.DEFAULT_UPDATE_SEED.
func NewCpcSketch(lgK int, seed uint64) (*CpcSketch, error) {
	if err := checkLgK(lgK); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = internal.DEFAULT_UPDATE_SEED
	}
	return &CpcSketch{
		lgK:  lgK,
		seed: seed,
		kxp:  float64(int64(1) << lgK),
	}, nil
}

// NewCpcSketchWithDefault constructs an empty sketch using the default seed.
func NewCpcSketchWithDefault(lgK int) (*CpcSketch, error) {
	return NewCpcSketch(lgK, internal.DEFAULT_UPDATE_SEED)
}

func (c *CpcSketch) getFormat() CpcFormat {
	ordinal := 0
	f := c.getFlavor()
	if f == CpcFlavorHybrid || f == CpcFlavorSparse {
		ordinal = 2
		if !c.mergeFlag {
			ordinal |= 1
		}
	} else {
		ordinal = 0
		if c.slidingWindow != nil {
			ordinal |= 4
		}
		if c.pairTable != nil && c.pairTable.numPairs > 0 {
			ordinal |= 2
		}
		if !c.mergeFlag {
			ordinal |= 1
		}
	}
	return CpcFormat(ordinal)
}

func (c *CpcSketch) getFlavor() CpcFlavor {
	return determineFlavor(c.lgK, c.numCoupons)
}

func (c *CpcSketch) getFamily() int {
	return internal.FamilyEnum.CPC.Id
}

// reset zeroes all state but keeps lgK and seed.
func (c *CpcSketch) reset() {
	c.numCoupons = 0
	c.mergeFlag = false
	c.fiCol = 0
	c.windowOffset = 0
	c.slidingWindow = nil
	c.pairTable = nil
	c.kxp = float64(int64(1) << c.lgK)
	c.hipEstAccum = 0
}

// Copy returns a deep copy: the sliding window and pair table are cloned,
// scalars are copied by value. Mutating the original afterward never
// affects the copy.
func (c *CpcSketch) Copy() (*CpcSketch, error) {
	cp := &CpcSketch{
		seed:         c.seed,
		lgK:          c.lgK,
		numCoupons:   c.numCoupons,
		mergeFlag:    c.mergeFlag,
		fiCol:        c.fiCol,
		windowOffset: c.windowOffset,
		kxp:          c.kxp,
		hipEstAccum:  c.hipEstAccum,
	}
	if c.slidingWindow != nil {
		cp.slidingWindow = make([]byte, len(c.slidingWindow))
		copy(cp.slidingWindow, c.slidingWindow)
	}
	if c.pairTable != nil {
		cp.pairTable = c.pairTable.copy()
	}
	return cp, nil
}

// GetEstimate returns the current cardinality estimate: the HIP accumulator
// for a streamed sketch, or the ICON estimator for a merged one.
func (c *CpcSketch) GetEstimate() float64 {
	if c.mergeFlag {
		return iconEstimate(c.lgK, c.numCoupons)
	}
	return c.hipEstAccum
}

// GetLowerBound returns a lower confidence bound at kappa standard errors
// (kappa in {1,2,3}).
func (c *CpcSketch) GetLowerBound(kappa int) float64 {
	if c.mergeFlag {
		return iconConfidenceLB(c.lgK, c.numCoupons, kappa)
	}
	return hipConfidenceLB(c.lgK, c.numCoupons, c.hipEstAccum, kappa)
}

// GetUpperBound returns an upper confidence bound at kappa standard errors.
func (c *CpcSketch) GetUpperBound(kappa int) float64 {
	if c.mergeFlag {
		return iconConfidenceUB(c.lgK, c.numCoupons, kappa)
	}
	return hipConfidenceUB(c.lgK, c.numCoupons, c.hipEstAccum, kappa)
}

func (c *CpcSketch) String() string {
	return fmt.Sprintf("CpcSketch{lgK=%d, flavor=%s, numCoupons=%d, estimate=%.2f}",
		c.lgK, c.getFlavor(), c.numCoupons, c.GetEstimate())
}

// getMaxSerializedBytes returns an upper bound on the number of bytes a
// compressed sketch at this lgK could occupy. lgK=4 is special-cased
// because the sparse phase's minimum pair-table capacity dominates the
// bound at that size; above it the bound scales with 0.6*K, the empirical
// worst-case compressed fraction of the full bit matrix.
func getMaxSerializedBytes(lgK int) (int, error) {
	if err := checkLgK(lgK); err != nil {
		return 0, err
	}
	if lgK == 4 {
		return 24 + 40, nil
	}
	k := float64(int64(1) << lgK)
	return int(0.6*k) + 40, nil
}
