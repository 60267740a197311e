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
	"encoding/binary"
	"math/bits"

	"github.com/twmb/murmur3"
)

// naiveBitMatrix is a brute-force reference implementation used only by
// tests: it sets bits directly from an independent murmur3 binding rather
// than going through the sketch's sparse/windowed state machine, giving a
// second, differently-sourced computation to cross-check bitMatrixOfSketch
// against.
type naiveBitMatrix struct {
	lgK               int
	seed              uint64
	numCoupons        uint64
	bitMatrix         []uint64
	numCouponsInvalid bool
}

func newNaiveBitMatrix(lgK int, seed uint64) *naiveBitMatrix {
	size := 1 << lgK
	return &naiveBitMatrix{
		lgK:       lgK,
		seed:      seed,
		bitMatrix: make([]uint64, size),
	}
}

func (bm *naiveBitMatrix) Reset() {
	for i := range bm.bitMatrix {
		bm.bitMatrix[i] = 0
	}
	bm.numCoupons = 0
	bm.numCouponsInvalid = false
}

func (bm *naiveBitMatrix) GetNumCoupons() uint64 {
	if bm.numCouponsInvalid {
		bm.numCoupons = CountCoupons(bm.bitMatrix)
		bm.numCouponsInvalid = false
	}
	return bm.numCoupons
}

func (bm *naiveBitMatrix) GetMatrix() []uint64 {
	return bm.bitMatrix
}

// Update hashes datum with twmb/murmur3 (deliberately not internal's own
// murmur3 binding) and sets the corresponding bit.
func (bm *naiveBitMatrix) Update(datum int64) {
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], uint64(datum))
	hashLo, hashHi := murmur3.SeedSum128(bm.seed, bm.seed, scratch[:])
	bm.hashUpdate(hashLo, hashHi)
}

func (bm *naiveBitMatrix) hashUpdate(hash0, hash1 uint64) {
	col := bits.LeadingZeros64(hash1)
	if col > 63 {
		col = 63
	}
	kMask := (uint64(1) << bm.lgK) - 1
	row := int(hash0 & kMask)

	oldPattern := bm.bitMatrix[row]
	newPattern := oldPattern | (uint64(1) << col)
	if newPattern != oldPattern {
		bm.numCoupons++
		bm.bitMatrix[row] = newPattern
	}
}
