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
	"math"

	"github.com/sketchlab/cpcsketch/internal"
)

// UpdateUint64 registers an unsigned 64-bit value.
func (c *CpcSketch) UpdateUint64(datum uint64) error {
	h0, h1 := internal.HashInt64SliceMurmur3([]int64{int64(datum)}, 0, 1, c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateInt64 registers a signed 64-bit value.
func (c *CpcSketch) UpdateInt64(datum int64) error {
	h0, h1 := internal.HashInt64SliceMurmur3([]int64{datum}, 0, 1, c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateFloat64 registers a double value. -0.0 is canonicalized to +0.0 and
// every NaN bit pattern is canonicalized to the same representative NaN, so
// that all forms of -0 collide with +0 and all NaNs collide with each other.
func (c *CpcSketch) UpdateFloat64(datum float64) error {
	v := datum
	if v == 0 {
		v = 0.0 // canonicalize -0.0 to +0.0
	}
	if math.IsNaN(v) {
		v = math.NaN() // canonicalize to Go's single NaN bit pattern
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	h0, h1 := internal.HashByteArrMurmur3(buf[:], 0, len(buf), c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateString registers a string by its UTF-8 byte encoding.
func (c *CpcSketch) UpdateString(datum string) error {
	if len(datum) == 0 {
		return nil
	}
	b := []byte(datum)
	h0, h1 := internal.HashByteArrMurmur3(b, 0, len(b), c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateByteSlice registers a raw byte sequence. A nil or empty slice is a no-op.
func (c *CpcSketch) UpdateByteSlice(datum []byte) error {
	if len(datum) == 0 {
		return nil
	}
	h0, h1 := internal.HashByteArrMurmur3(datum, 0, len(datum), c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateUTF16 registers a sequence of UTF-16 code units by hashing their raw
// 2-byte representations. This is deliberately distinct from UpdateString:
// the same text hashed as code units vs. as UTF-8 bytes produces different
// coupons.
func (c *CpcSketch) UpdateUTF16(datum []uint16) error {
	if len(datum) == 0 {
		return nil
	}
	buf := make([]byte, len(datum)*2)
	for i, u := range datum {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	h0, h1 := internal.HashCharSliceMurmur3(buf, 0, len(datum), c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateInt32Slice registers a sequence of 32-bit integers as one item. A nil
// or empty slice is a no-op.
func (c *CpcSketch) UpdateInt32Slice(datum []int32) error {
	if len(datum) == 0 {
		return nil
	}
	h0, h1 := internal.HashInt32SliceMurmur3(datum, 0, len(datum), c.seed)
	return c.hashUpdate(h0, h1)
}

// UpdateInt64Slice registers a sequence of 64-bit integers as one item. A nil
// or empty slice is a no-op.
func (c *CpcSketch) UpdateInt64Slice(datum []int64) error {
	if len(datum) == 0 {
		return nil
	}
	h0, h1 := internal.HashInt64SliceMurmur3(datum, 0, len(datum), c.seed)
	return c.hashUpdate(h0, h1)
}
