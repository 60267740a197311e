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

package internal

import (
	"fmt"
)

const (
	DEFAULT_UPDATE_SEED = uint64(9001)
)

// ComputeSeedHash folds a 64-bit update seed down to a non-zero 16-bit
// fingerprint used to detect mismatched seeds across serialized sketches.
func ComputeSeedHash(seed uint64) (int16, error) {
	seedArr := []int64{int64(seed)}
	seedHash, _ := HashInt64SliceMurmur3(seedArr, 0, len(seedArr), 0)
	seedHash = seedHash & 0xFFFF

	if seedHash == 0 {
		return 0, fmt.Errorf("the given seed: %d produced a seedHash of zero, choose a different seed", seed)
	}
	return int16(seedHash), nil
}
