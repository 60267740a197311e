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

// Command cpcdemo is a runnable demonstration of the cpc package: it builds
// two overlapping sketches, estimates each independently, then unions them
// and compares the merged estimate against the true union size.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sketchlab/cpcsketch/cpc"
)

func main() {
	lgK := flag.Int("lgk", 11, "log2 of the sketch's number of rows (4..26)")
	seed := flag.Uint64("seed", 0, "hash seed; 0 selects the library default")
	countA := flag.Uint64("a", 100000, "distinct items fed into the first sketch")
	countB := flag.Uint64("b", 100000, "distinct items fed into the second sketch")
	overlap := flag.Uint64("overlap", 50000, "items shared between the two streams")
	verbose := flag.Bool("v", false, "enable debug-level logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *lgK, *seed, *countA, *countB, *overlap); err != nil {
		logger.Error("cpcdemo failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, lgK int, seed, countA, countB, overlap uint64) error {
	skA, err := newSketch(lgK, seed)
	if err != nil {
		return fmt.Errorf("creating sketch A: %w", err)
	}
	skB, err := newSketch(lgK, seed)
	if err != nil {
		return fmt.Errorf("creating sketch B: %w", err)
	}

	var id uint64
	for ; id < overlap; id++ {
		if err := skA.UpdateUint64(id); err != nil {
			return err
		}
		if err := skB.UpdateUint64(id); err != nil {
			return err
		}
	}
	for ; id < overlap+(countA-overlap); id++ {
		if err := skA.UpdateUint64(id); err != nil {
			return err
		}
	}
	for ; id < overlap+(countA-overlap)+(countB-overlap); id++ {
		if err := skB.UpdateUint64(id); err != nil {
			return err
		}
	}

	logger.Info("built sketches", "flavorA", skA.String(), "flavorB", skB.String())

	union, err := cpc.NewCpcUnion(lgK, seed)
	if err != nil {
		return fmt.Errorf("creating union: %w", err)
	}
	if err := union.Update(skA); err != nil {
		return fmt.Errorf("union update A: %w", err)
	}
	if err := union.Update(skB); err != nil {
		return fmt.Errorf("union update B: %w", err)
	}
	merged, err := union.GetResult()
	if err != nil {
		return fmt.Errorf("union result: %w", err)
	}

	trueUnion := float64(countA + countB - overlap)
	fmt.Printf("sketch A:  estimate=%.0f  lb=%.0f  ub=%.0f\n",
		skA.GetEstimate(), skA.GetLowerBound(1), skA.GetUpperBound(1))
	fmt.Printf("sketch B:  estimate=%.0f  lb=%.0f  ub=%.0f\n",
		skB.GetEstimate(), skB.GetLowerBound(1), skB.GetUpperBound(1))
	fmt.Printf("union:     estimate=%.0f  lb=%.0f  ub=%.0f  true=%.0f\n",
		merged.GetEstimate(), merged.GetLowerBound(1), merged.GetUpperBound(1), trueUnion)

	return nil
}

func newSketch(lgK int, seed uint64) (*cpc.CpcSketch, error) {
	if seed == 0 {
		return cpc.NewCpcSketchWithDefault(lgK)
	}
	return cpc.NewCpcSketch(lgK, seed)
}
