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
	"strings"

	"github.com/sketchlab/cpcsketch/common"
)

// MergingValidation cross-checks a CpcUnion against a sketch fed the same
// two input streams directly: for every (lgKm, lgKa, lgKb, nA, nB)
// combination it exercises, the union's result must match the direct
// sketch's bit matrix, coupon count and ICON estimate exactly.
type MergingValidation struct {
	hfmt, dfmt string
	hStrArr    []string
	vIn        uint64

	lgMinK, lgMaxK int
	lgMulK         int
	uPPO           int
	incLgK         int

	printStream io.Writer
	printWriter io.Writer
}

func NewMergingValidation(lgMinK, lgMaxK, lgMulK, uPPO, incLgK int, pS, pW io.Writer) *MergingValidation {
	if uPPO < 1 {
		uPPO = 1
	}
	if incLgK < 1 {
		incLgK = 1
	}
	mv := &MergingValidation{
		lgMinK:      lgMinK,
		lgMaxK:      lgMaxK,
		lgMulK:      lgMulK,
		uPPO:        uPPO,
		incLgK:      incLgK,
		printStream: pS,
		printWriter: pW,
	}
	mv.assembleFormats()
	return mv
}

func (mv *MergingValidation) Start() error {
	mv.printf(mv.hfmt, mv.toInterfaceSlice(mv.hStrArr)...)
	return mv.doRangeOfLgK()
}

func (mv *MergingValidation) doRangeOfLgK() error {
	for lgK := mv.lgMinK; lgK <= mv.lgMaxK; lgK += mv.incLgK {
		combos := [][2]int{
			{lgK - 1, lgK - 1}, {lgK - 1, lgK}, {lgK - 1, lgK + 1},
			{lgK, lgK - 1}, {lgK, lgK}, {lgK, lgK + 1},
			{lgK + 1, lgK - 1}, {lgK + 1, lgK}, {lgK + 1, lgK + 1},
		}
		for _, c := range combos {
			if err := mv.multiTestMerging(lgK, c[0], c[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (mv *MergingValidation) multiTestMerging(lgKm, lgKa, lgKb int) error {
	limA := int64(1 << uint(lgKa+mv.lgMulK))
	limB := int64(1 << uint(lgKb+mv.lgMulK))

	var nA int64 = 0
	for nA <= limA {
		var nB int64 = 0
		for nB <= limB {
			if err := mv.testMerging(lgKm, lgKa, lgKb, nA, nB); err != nil {
				return err
			}
			nB = int64(math.Round(common.PowerSeriesNextDouble(mv.uPPO, float64(nB), true, 2.0)))
		}
		nA = int64(math.Round(common.PowerSeriesNextDouble(mv.uPPO, float64(nA), true, 2.0)))
	}
	return nil
}

func (mv *MergingValidation) testMerging(lgKm, lgKa, lgKb int, nA, nB int64) error {
	ugM, err := NewCpcUnionWithDefault(lgKm)
	if err != nil {
		return fmt.Errorf("failed to create CpcUnion: %v", err)
	}

	lgKd := lgKm
	if lgKa < lgKd && nA != 0 {
		lgKd = lgKa
	}
	if lgKb < lgKd && nB != 0 {
		lgKd = lgKb
	}

	skD, err := NewCpcSketchWithDefault(lgKd)
	if err != nil {
		return fmt.Errorf("failed to create CpcSketch: %v", err)
	}
	skA, err := NewCpcSketchWithDefault(lgKa)
	if err != nil {
		return fmt.Errorf("failed to create CpcSketch: %v", err)
	}
	skB, err := NewCpcSketchWithDefault(lgKb)
	if err != nil {
		return fmt.Errorf("failed to create CpcSketch: %v", err)
	}

	for i := int64(0); i < nA; i++ {
		mv.vIn += common.InverseGoldenU64
		in := mv.vIn
		if err = skA.UpdateUint64(in); err != nil {
			return fmt.Errorf("skA.UpdateUint64 error: %v", err)
		}
		if err = skD.UpdateUint64(in); err != nil {
			return fmt.Errorf("skD.UpdateUint64 error: %v", err)
		}
	}
	for i := int64(0); i < nB; i++ {
		mv.vIn += common.InverseGoldenU64
		in := mv.vIn
		if err = skB.UpdateUint64(in); err != nil {
			return fmt.Errorf("skB.UpdateUint64 error: %v", err)
		}
		if err = skD.UpdateUint64(in); err != nil {
			return fmt.Errorf("skD.UpdateUint64 error: %v", err)
		}
	}

	if err := ugM.Update(skA); err != nil {
		return fmt.Errorf("union update skA error: %v", err)
	}
	if err := ugM.Update(skB); err != nil {
		return fmt.Errorf("union update skB error: %v", err)
	}

	finalLgKm := ugM.lgK
	matrixM, err := ugM.GetBitMatrix()
	if err != nil {
		return fmt.Errorf("ugM.GetBitMatrix error: %v", err)
	}

	cM := ugM.getNumCoupons()
	cD := skD.numCoupons

	flavorD := skD.getFlavor()
	flavorA := skA.getFlavor()
	flavorB := skB.getFlavor()

	flavorDoff := fmt.Sprintf("%s%2d", flavorD.String(), skD.windowOffset)
	flavorAoff := fmt.Sprintf("%s%2d", flavorA.String(), skA.windowOffset)
	flavorBoff := fmt.Sprintf("%s%2d", flavorB.String(), skB.windowOffset)

	iconEstD := iconEstimate(lgKd, cD)

	if finalLgKm > lgKm {
		return fmt.Errorf("finalLgKm > lgKm")
	}
	if cM > (skA.numCoupons + skB.numCoupons) {
		return fmt.Errorf("union coupon count too large")
	}
	if cM != cD {
		return fmt.Errorf("mismatch coupon counts union=%d direct=%d", cM, cD)
	}
	if finalLgKm != lgKd {
		return fmt.Errorf("union lgK mismatch: got %d, expected %d", finalLgKm, lgKd)
	}

	matrixD, err := skD.bitMatrixOfSketch()
	if err != nil {
		return fmt.Errorf("bitMatrixOfSketch error: %v", err)
	}
	if len(matrixM) != len(matrixD) {
		return fmt.Errorf("matrix length mismatch union vs direct")
	}
	for i := range matrixM {
		if matrixM[i] != matrixD[i] {
			return fmt.Errorf("matrix bits mismatch union vs direct")
		}
	}

	skR, err := ugM.GetResult()
	if err != nil {
		return err
	}
	iconEstR := iconEstimate(skR.lgK, skR.numCoupons)
	if math.Abs(iconEstD-iconEstR) > 1e-9 {
		return fmt.Errorf("ICON mismatch direct=%.9g union=%.9g", iconEstD, iconEstR)
	}

	if !specialEquals(skD, skR, false, true) {
		return fmt.Errorf("skD != skR")
	}

	mv.printf(mv.dfmt,
		lgKm, lgKa, lgKb, lgKd,
		nA, nB, nA+nB,
		flavorAoff, flavorBoff, flavorDoff,
		skA.numCoupons, skB.numCoupons, cD, iconEstR,
	)
	return nil
}

func (mv *MergingValidation) assembleFormats() {
	assy := [][]string{
		{"lgKm", "%4s", "%4d"},
		{"lgKa", "%4s", "%4d"},
		{"lgKb", "%4s", "%4d"},
		{"lgKfd", "%6s", "%6d"},
		{"nA", "%12s", "%12d"},
		{"nB", "%12s", "%12d"},
		{"nA+nB", "%12s", "%12d"},
		{"Flavor_a", "%11s", "%11s"},
		{"Flavor_b", "%11s", "%11s"},
		{"Flavor_fd", "%11s", "%11s"},
		{"Coupons_a", "%9s", "%9d"},
		{"Coupons_b", "%9s", "%9d"},
		{"Coupons_fd", "%9s", "%9d"},
		{"IconEst_dr", "%12s", "%12.0f"},
	}

	cols := len(assy)
	mv.hStrArr = make([]string, cols)
	var headerFmt strings.Builder
	var dataFmt strings.Builder

	headerFmt.WriteString("\nMerging Validation\n")
	for i := 0; i < cols; i++ {
		mv.hStrArr[i] = assy[i][0]
		headerFmt.WriteString(assy[i][1])
		if i < cols-1 {
			headerFmt.WriteString("\t")
		} else {
			headerFmt.WriteString("\n")
		}
		dataFmt.WriteString(assy[i][2])
		if i < cols-1 {
			dataFmt.WriteString("\t")
		} else {
			dataFmt.WriteString("\n")
		}
	}
	mv.hfmt = headerFmt.String()
	mv.dfmt = dataFmt.String()
}

func (mv *MergingValidation) printf(format string, args ...interface{}) {
	if mv.printStream != nil {
		fmt.Fprintf(mv.printStream, format, args...)
	}
	if mv.printWriter != nil {
		fmt.Fprintf(mv.printWriter, format, args...)
	}
}

func (mv *MergingValidation) toInterfaceSlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i := range ss {
		out[i] = ss[i]
	}
	return out
}
