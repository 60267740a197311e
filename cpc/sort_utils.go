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

// introspectiveInsertionSort sorts arr[lo..hi] in place by unsigned value of
// the low 32 bits (rowCol pairs are always non-negative ints but may be
// constructed from values shifted into the high bits during characterization,
// hence the uint32 comparison rather than a plain int compare).
func introspectiveInsertionSort(arr []int, lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		v := arr[i]
		j := i - 1
		for j >= lo && uint32(arr[j]) > uint32(v) {
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = v
	}
}

// mergePairs merges two already-sorted runs arrA[startA:startA+lenA] and
// arrB[startB:startB+lenB] into arrC starting at startC, preserving sorted
// (unsigned) order. Used when combining two sorted pair-table dumps, e.g.
// while characterizing or serializing coupon arrays.
func mergePairs(arrA []int, startA, lenA int, arrB []int, startB, lenB int, arrC []int, startC int) {
	i, j, k := startA, startB, startC
	endA, endB := startA+lenA, startB+lenB
	for i < endA && j < endB {
		if uint32(arrA[i]) <= uint32(arrB[j]) {
			arrC[k] = arrA[i]
			i++
		} else {
			arrC[k] = arrB[j]
			j++
		}
		k++
	}
	for i < endA {
		arrC[k] = arrA[i]
		i++
		k++
	}
	for j < endB {
		arrC[k] = arrB[j]
		j++
		k++
	}
}
