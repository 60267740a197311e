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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFieldError(t *testing.T) {
	err := fieldError(CpcFormatEmptyMerged, 3)
	assert.Error(t, err, "Expected fieldError to return an error")
}

func TestCheckWindowOffset(t *testing.T) {
	offset := determineCorrectOffset(4, 54)
	assert.Equal(t, 1, offset, "Expected window offset to be 1")
}

func TestCheckFormatEnum(t *testing.T) {
	assert.Equal(t, CpcFormatEmptyMerged, CpcFormat(0))
	assert.Equal(t, CpcFormatEmptyHip, CpcFormat(1))
	assert.Equal(t, CpcFormatSparseHybridMerged, CpcFormat(2))
	assert.Equal(t, CpcFormatSparseHybridHip, CpcFormat(3))
	assert.Equal(t, CpcFormatPinnedSlidingMergedNosv, CpcFormat(4))
	assert.Equal(t, CpcFormatPinnedSlidingHipNosv, CpcFormat(5))
	assert.Equal(t, CpcFormatPinnedSlidingMerged, CpcFormat(6))
	assert.Equal(t, CpcFormatPinnedSlidingHip, CpcFormat(7))
}

func TestCheckFlavorEnum(t *testing.T) {
	assert.Equal(t, CpcFlavorEmpty, CpcFlavor(0))
	assert.Equal(t, CpcFlavorSparse, CpcFlavor(1))
	assert.Equal(t, CpcFlavorHybrid, CpcFlavor(2))
	assert.Equal(t, CpcFlavorPinned, CpcFlavor(3))
	assert.Equal(t, CpcFlavorSliding, CpcFlavor(4))
}

func TestCheckSeeds(t *testing.T) {
	assert.NoError(t, checkSeeds(1, 1))
	assert.Error(t, checkSeeds(1, 2))
}

func TestCheckLgK(t *testing.T) {
	assert.NoError(t, checkLgK(minLgK))
	assert.NoError(t, checkLgK(maxLgK))
	assert.Error(t, checkLgK(minLgK-1))
	assert.Error(t, checkLgK(maxLgK+1))
}

func TestDetermineFlavor(t *testing.T) {
	lgK := 10
	k := uint64(1) << lgK
	assert.Equal(t, CpcFlavorEmpty, determineFlavor(lgK, 0))
	assert.Equal(t, CpcFlavorSparse, determineFlavor(lgK, 1))
	assert.Equal(t, CpcFlavorHybrid, determineFlavor(lgK, k/2-1))
	assert.Equal(t, CpcFlavorPinned, determineFlavor(lgK, k/2))
	assert.Equal(t, CpcFlavorSliding, determineFlavor(lgK, 27*k/8))
}
