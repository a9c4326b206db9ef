/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package collector

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vhive-serverless/coldbench/pkg/common"
)

// Aggregate reduces a finished trial set to its per-class statistics. An
// empty class yields a nil Stats pointer - the average of nothing is
// undefined, not zero.
func Aggregate(set *common.TrialSet) common.AggregatedResult {
	return common.AggregatedResult{
		Family:    set.Family,
		MemoryMB:  set.MemoryMB,
		WarmStats: reduce(set.Warm),
		ColdStats: reduce(set.Cold),
	}
}

func reduce(samples []common.Sample) *common.Stats {
	if len(samples) == 0 {
		return nil
	}

	durations := make([]float64, len(samples))
	for i, s := range samples {
		durations[i] = s.DurationMs
	}

	sorted := append([]float64{}, durations...)
	sort.Float64s(sorted)

	return &common.Stats{
		Count:   len(samples),
		Average: stat.Mean(durations, nil),
		Min:     floats.Min(durations),
		Max:     floats.Max(durations),
		P50:     stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:     stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}
