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
	"fmt"

	"github.com/sketchlab/cpcsketch/internal"
)

// CpcUnion combines any number of CpcSketch instances, possibly built at
// different lgK values, into one result at the union's (possibly reduced)
// lgK. At most one of bitMatrix and accumulator is non-nil at any time:
// accumulator holds a live sketch while the union's contents stay SPARSE,
// and is replaced by a flat bitMatrix the moment any input graduates past
// SPARSE, since the bit-level OR of windowed sketches no longer fits the
// sketch's own incremental update path.
type CpcUnion struct {
	seed uint64
	lgK  int

	bitMatrix   []uint64
	accumulator *CpcSketch
}

// NewCpcUnion constructs an empty union at the given lgK and seed. A seed of
// zero is remapped to internal.DEFAULT_UPDATE_SEED.
func NewCpcUnion(lgK int, seed uint64) (CpcUnion, error) {
	if seed == 0 {
		seed = internal.DEFAULT_UPDATE_SEED
	}
	acc, err := NewCpcSketch(lgK, seed)
	if err != nil {
		return CpcUnion{}, err
	}
	return CpcUnion{
		seed:        seed,
		lgK:         lgK,
		accumulator: acc,
	}, nil
}

// NewCpcUnionWithDefault constructs an empty union using the default seed.
func NewCpcUnionWithDefault(lgK int) (CpcUnion, error) {
	return NewCpcUnion(lgK, internal.DEFAULT_UPDATE_SEED)
}

func (u *CpcUnion) GetFamilyId() int {
	return internal.FamilyEnum.CPC.Id
}

// Update folds source into the union. source is never mutated, except in the
// single fast-path case where the union is still empty and source becomes
// the union's accumulator directly (the union keeps the same pointer, not a
// copy, so later updates through either one change both).
func (u *CpcUnion) Update(source *CpcSketch) error {
	if source == nil {
		return nil
	}
	if err := checkSeeds(u.seed, source.seed); err != nil {
		return err
	}

	sourceFlavor := source.getFlavor()
	if sourceFlavor == CpcFlavorEmpty {
		return nil
	}

	if err := u.checkUnionState(); err != nil {
		return err
	}

	if source.lgK < u.lgK {
		if err := u.reduceUnionK(source.lgK); err != nil {
			return err
		}
	}

	if sourceFlavor > CpcFlavorSparse && u.accumulator != nil {
		matrix, err := u.accumulator.bitMatrixOfSketch()
		if err != nil {
			return err
		}
		u.bitMatrix = matrix
		u.accumulator = nil
	}

	state := (int(sourceFlavor) - 1) << 1
	if u.bitMatrix != nil {
		state |= 1
	}

	switch state {
	case 0: // source SPARSE, union holds an accumulator
		if u.accumulator == nil {
			return fmt.Errorf("union accumulator cannot be nil")
		}
		if u.accumulator.getFlavor() == CpcFlavorEmpty && u.lgK == source.lgK {
			u.accumulator = source
			break
		}
		if err := walkTableUpdatingSketch(u.accumulator, source.pairTable); err != nil {
			return err
		}
		if u.accumulator.getFlavor() > CpcFlavorSparse {
			matrix, err := u.accumulator.bitMatrixOfSketch()
			if err != nil {
				return err
			}
			u.bitMatrix = matrix
			u.accumulator = nil
		}
	case 1: // source SPARSE, union holds a bitMatrix
		u.orTableIntoMatrix(source.pairTable)
	case 3, 5: // source HYBRID or PINNED, union holds a bitMatrix
		u.orWindowIntoMatrix(source.slidingWindow, source.windowOffset, source.lgK)
		u.orTableIntoMatrix(source.pairTable)
	case 7: // source SLIDING, union holds a bitMatrix
		sourceMatrix, err := source.bitMatrixOfSketch()
		if err != nil {
			return err
		}
		orMatrixIntoMatrixBuf(u.bitMatrix, u.lgK, sourceMatrix, source.lgK)
	default:
		return fmt.Errorf("illegal union state: %d", state)
	}
	return nil
}

// GetResult materializes the union's contents as a standalone, merged
// CpcSketch. It never mutates the union, so further Update calls remain
// valid afterward.
func (u *CpcUnion) GetResult() (*CpcSketch, error) {
	if err := u.checkUnionState(); err != nil {
		return nil, err
	}

	if u.accumulator != nil {
		if u.accumulator.numCoupons == 0 {
			result, err := NewCpcSketch(u.lgK, u.accumulator.seed)
			if err != nil {
				return nil, err
			}
			result.mergeFlag = true
			return result, nil
		}
		if u.accumulator.getFlavor() != CpcFlavorSparse {
			return nil, fmt.Errorf("accumulator must be SPARSE")
		}
		result, err := u.accumulator.Copy()
		if err != nil {
			return nil, err
		}
		result.mergeFlag = true
		return result, nil
	}

	matrix := u.bitMatrix
	lgK := u.lgK
	result, err := NewCpcSketch(lgK, u.seed)
	if err != nil {
		return nil, err
	}

	numCoupons := CountCoupons(matrix)
	result.numCoupons = numCoupons

	flavor := determineFlavor(lgK, numCoupons)
	if flavor <= CpcFlavorSparse {
		return nil, fmt.Errorf("flavor must be greater than SPARSE")
	}

	offset := determineCorrectOffset(lgK, numCoupons)
	result.windowOffset = offset

	k := 1 << lgK
	window := make([]byte, k)
	result.slidingWindow = window

	newTableLgSize := max(lgK-4, 2)
	table, err := NewPairTable(newTableLgSize, 6+lgK)
	if err != nil {
		return nil, err
	}
	result.pairTable = table

	// The matrix is literal: every set bit is a real 1. Converting it into
	// the assumed-default representation means flipping only the early
	// zone's bits before reading out which columns are surprising — a
	// literal-1 there matches the assumed-1 default and flips to 0 (no
	// entry needed), while a literal-0 flips to 1 (a surprising-0 entry).
	// The late zone needs no flip: a literal 1 there already is the
	// surprising-1 case, recorded as-is.
	maskForClearingWindow := uint64(0xFF) << uint(offset)
	maskForFlippingEarlyZone := (uint64(1) << uint(offset)) - 1
	var allSurprisesORed uint64
	for row := 0; row < k; row++ {
		pattern := matrix[row]
		window[row] = byte((pattern >> uint(offset)) & 0xFF)
		pattern &^= maskForClearingWindow
		pattern ^= maskForFlippingEarlyZone
		allSurprisesORed |= pattern
		for pattern != 0 {
			col := int(internal.CountTrailingZerosInU64(pattern))
			pattern &^= uint64(1) << uint(col)
			rowCol := (row << 6) | col
			isNovel, err := table.maybeInsert(rowCol)
			if err != nil {
				return nil, err
			}
			if !isNovel {
				return nil, fmt.Errorf("isNovel must be true")
			}
		}
	}
	fiCol := int(internal.CountTrailingZerosInU64(allSurprisesORed))
	if fiCol > offset {
		fiCol = offset
	}
	result.fiCol = fiCol

	result.refreshKXP(matrix)
	result.mergeFlag = true
	return result, nil
}

func (u *CpcUnion) checkUnionState() error {
	if u.accumulator != nil && u.bitMatrix != nil {
		return fmt.Errorf("accumulator and bitMatrix cannot be both valid")
	}
	if u.accumulator != nil {
		if u.accumulator.numCoupons > 0 {
			if u.accumulator.slidingWindow != nil || u.accumulator.pairTable == nil {
				return fmt.Errorf("non-empty union accumulator must be SPARSE")
			}
		}
		if u.lgK != u.accumulator.lgK {
			return fmt.Errorf("union lgK must equal accumulator lgK")
		}
	}
	return nil
}

// reduceUnionK downsamples the union in place to a smaller lgK, needed
// whenever an incoming sketch was built at a coarser resolution than the
// union currently holds.
func (u *CpcUnion) reduceUnionK(newLgK int) error {
	if newLgK >= u.lgK {
		return nil
	}
	if u.bitMatrix != nil {
		newK := 1 << newLgK
		newMatrix := make([]uint64, newK)
		orMatrixIntoMatrixBuf(newMatrix, newLgK, u.bitMatrix, u.lgK)
		u.bitMatrix = newMatrix
		u.lgK = newLgK
		return nil
	}

	oldSketch := u.accumulator
	if oldSketch.numCoupons == 0 {
		acc, err := NewCpcSketch(newLgK, oldSketch.seed)
		if err != nil {
			return err
		}
		u.accumulator = acc
		u.lgK = newLgK
		return nil
	}

	newSketch, err := NewCpcSketch(newLgK, oldSketch.seed)
	if err != nil {
		return err
	}
	if err := walkTableUpdatingSketch(newSketch, oldSketch.pairTable); err != nil {
		return err
	}
	if newSketch.getFlavor() == CpcFlavorSparse {
		u.accumulator = newSketch
		u.lgK = newLgK
		return nil
	}
	matrix, err := newSketch.bitMatrixOfSketch()
	if err != nil {
		return err
	}
	u.bitMatrix = matrix
	u.accumulator = nil
	u.lgK = newLgK
	return nil
}

func (u *CpcUnion) orWindowIntoMatrix(srcWindow []byte, srcOffset int, srcLgK int) {
	if u.lgK > srcLgK {
		panic("union lgK must be <= source lgK")
	}
	destMask := (1 << u.lgK) - 1
	srcK := 1 << srcLgK
	for srcRow := 0; srcRow < srcK; srcRow++ {
		u.bitMatrix[srcRow&destMask] |= uint64(srcWindow[srcRow]) << uint(srcOffset)
	}
}

func (u *CpcUnion) orTableIntoMatrix(srcTable *pairTable) {
	if srcTable == nil {
		return
	}
	destMask := (1 << u.lgK) - 1
	for _, rowCol := range srcTable.slotsArr {
		if rowCol == -1 {
			continue
		}
		col := rowCol & 63
		row := rowCol >> 6
		u.bitMatrix[row&destMask] |= uint64(1) << uint(col)
	}
}

// orMatrixIntoMatrixBuf ORs src (at srcLgK rows) down into dest (at destLgK
// rows, destLgK <= srcLgK), folding rows together modulo the smaller size.
// It operates on caller-supplied buffers rather than the union's own
// bitMatrix field.
func orMatrixIntoMatrixBuf(dest []uint64, destLgK int, src []uint64, srcLgK int) {
	if destLgK > srcLgK {
		panic("destLgK <= srcLgK")
	}
	destMask := (1 << destLgK) - 1
	srcK := 1 << srcLgK
	for srcRow := 0; srcRow < srcK; srcRow++ {
		dest[srcRow&destMask] |= src[srcRow]
	}
}

func (u *CpcUnion) getNumCoupons() uint64 {
	if u.bitMatrix != nil {
		return CountCoupons(u.bitMatrix)
	}
	return u.accumulator.numCoupons
}

// GetBitMatrix returns the union's contents as a flat bit matrix, building
// one from a live accumulator if necessary. The union itself is left
// unchanged.
func (u *CpcUnion) GetBitMatrix() ([]uint64, error) {
	if err := u.checkUnionState(); err != nil {
		return nil, err
	}
	if u.bitMatrix != nil {
		return u.bitMatrix, nil
	}
	return u.accumulator.bitMatrixOfSketch()
}

// walkTableUpdatingSketch feeds every coupon recorded in table into dest, in
// arbitrary slot order; rowColUpdate is idempotent-by-construction for
// already-seen coupons, so order and duplicates do not matter.
func walkTableUpdatingSketch(dest *CpcSketch, table *pairTable) error {
	if table == nil {
		return nil
	}
	for _, rowCol := range table.slotsArr {
		if rowCol == -1 {
			continue
		}
		if err := dest.rowColUpdate(rowCol); err != nil {
			return err
		}
	}
	return nil
}
