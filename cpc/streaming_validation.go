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
	"io"
	"math"

	"github.com/sketchlab/cpcsketch/common"
	"github.com/sketchlab/cpcsketch/internal"
)

// StreamingValidation repeatedly feeds the same input stream into a CpcSketch
// and an independent naiveBitMatrix, asserting after every trial that the
// two computed exactly the same set of coupons, then reports estimator
// accuracy averaged across trials.
type StreamingValidation struct {
	lgMinK      int
	lgMaxK      int
	trials      int
	ppoN        int
	printStream io.Writer
	printWriter io.Writer

	hfmt    string
	dfmt    string
	hStrArr []string

	vIn uint64
}

func NewStreamingValidation(lgMinK, lgMaxK, trials, ppoN int, pS, pW io.Writer) *StreamingValidation {
	sv := &StreamingValidation{
		lgMinK:      lgMinK,
		lgMaxK:      lgMaxK,
		trials:      trials,
		ppoN:        ppoN,
		printStream: pS,
		printWriter: pW,
	}
	sv.assembleStrings()
	return sv
}

func (sv *StreamingValidation) Start() {
	sv.printf(sv.hfmt, sv.stringArrayToInterface(sv.hStrArr)...)
	sv.doRangeOfLgK()
}

func (sv *StreamingValidation) doRangeOfLgK() {
	for lgK := sv.lgMinK; lgK <= sv.lgMaxK; lgK++ {
		sv.doRangeOfNAtLgK(lgK)
	}
}

func (sv *StreamingValidation) doRangeOfNAtLgK(lgK int) {
	var n int64 = 1
	maxN := int64(64) * (1 << lgK)
	for n < maxN {
		sv.doTrialsAtLgKAtN(lgK, n)
		n = int64(math.Round(common.PowerSeriesNextDouble(sv.ppoN, float64(n), true, 2.0)))
	}
}

func (sv *StreamingValidation) doTrialsAtLgKAtN(lgK int, n int64) {
	var sumC, sumIconEst, sumHipEst float64

	sketch, _ := NewCpcSketch(lgK, internal.DEFAULT_UPDATE_SEED)
	matrix := newNaiveBitMatrix(lgK, internal.DEFAULT_UPDATE_SEED)

	for t := 0; t < sv.trials; t++ {
		sketch.reset()
		matrix.Reset()

		for i := int64(0); i < n; i++ {
			sv.vIn += common.InverseGoldenU64
			in := sv.vIn
			_ = sketch.UpdateUint64(in)
			matrix.Update(int64(in))
		}
		sumC += float64(sketch.numCoupons)
		sumIconEst += iconEstimate(lgK, sketch.numCoupons)
		sumHipEst += sketch.hipEstAccum

		if matrix.GetNumCoupons() != sketch.numCoupons {
			panic(fmt.Sprintf("mismatch in numCoupons: naiveBitMatrix=%d, cpcSketch=%d",
				matrix.GetNumCoupons(), sketch.numCoupons))
		}
		bitMat, err := sketch.bitMatrixOfSketch()
		if err != nil {
			panic(fmt.Sprintf("bitMatrixOfSketch error: %v", err))
		}
		mat2 := matrix.GetMatrix()
		if len(bitMat) != len(mat2) {
			panic(fmt.Sprintf("mismatch: bitMatrixOfSketch len=%d, naiveBitMatrix len=%d",
				len(bitMat), len(mat2)))
		}
		for i := range bitMat {
			if bitMat[i] != mat2[i] {
				panic(fmt.Sprintf("mismatch at row %d: bitMat=%x, mat2=%x", i, bitMat[i], mat2[i]))
			}
		}
	}

	finC := sketch.numCoupons
	finFlavor := sketch.getFlavor()
	finOff := sketch.windowOffset
	avgC := sumC / float64(sv.trials)
	avgIconEst := sumIconEst / float64(sv.trials)
	avgHipEst := sumHipEst / float64(sv.trials)

	sv.printf(
		sv.dfmt,
		lgK,
		sv.trials,
		n,
		finC,
		finFlavor.String(),
		finOff,
		avgC,
		avgIconEst,
		avgHipEst,
	)
}

func (sv *StreamingValidation) assembleStrings() {
	columns := []struct {
		name      string
		headerFmt string
		dataFmt   string
	}{
		{"lgK", "%3s", "%3d"},
		{"Trials", "%7s", "%7d"},
		{"n", "%8s", "%8d"},
		{"FinC", "%8s", "%8d"},
		{"FinFlavor", "%10s", "%10s"},
		{"FinOff", "%7s", "%7d"},
		{"AvgC", "%12s", "%12.3f"},
		{"AvgICON", "%12s", "%12.3f"},
		{"AvgHIP", "%12s", "%12.3f"},
	}
	sv.hStrArr = make([]string, len(columns))

	headerLine := "\nStreaming Validation\n"
	dataLine := ""
	for i, col := range columns {
		sv.hStrArr[i] = col.name
		sep := "\t"
		if i == len(columns)-1 {
			sep = "\n"
		}
		headerLine += fmt.Sprintf(col.headerFmt, col.name) + sep
		dataLine += col.dataFmt
		dataLine += sep
	}
	sv.hfmt = headerLine
	sv.dfmt = dataLine
}

func (sv *StreamingValidation) printf(format string, args ...interface{}) {
	if sv.printStream != nil {
		fmt.Fprintf(sv.printStream, format, args...)
	}
	if sv.printWriter != nil {
		fmt.Fprintf(sv.printWriter, format, args...)
	}
}

func (sv *StreamingValidation) stringArrayToInterface(ss []string) []interface{} {
	ii := make([]interface{}, len(ss))
	for i := range ss {
		ii[i] = ss[i]
	}
	return ii
}
