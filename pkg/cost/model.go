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

// Package cost converts per-tier latency statistics into projected GB-second
// billing under configurable cold/warm traffic mixes. Everything here is pure
// and deterministic.
package cost

import (
	"github.com/vhive-serverless/coldbench/pkg/common"
)

type Pricing struct {
	// Price of one GB-second of compute
	PricePerGBSecond float64

	// Assumed share of cold starts in real traffic, used for the headline
	// blended cost
	ColdStartFraction float64

	// Costs are projected per this many invocations (1M by default)
	Scale float64

	// Cold-start shares evaluated in the scenario table
	ScenarioFractions []float64
}

func DefaultPricing() Pricing {
	return Pricing{
		PricePerGBSecond:  common.DefaultPricePerGBSecond,
		ColdStartFraction: common.DefaultColdStartFraction,
		Scale:             common.DefaultCostScale,
		ScenarioFractions: append([]float64{}, common.DefaultScenarioFractions...),
	}
}

// Compute derives the cost metrics of one tier. A tier without warm samples
// yields zero-valued metrics, and a tier without cold samples falls back to
// all-warm traffic for the blended figure since there is no cold cost to mix
// in.
func Compute(result common.AggregatedResult, pricing Pricing) common.CostMetrics {
	metrics := common.CostMetrics{MemoryMB: result.MemoryMB}

	if result.WarmStats == nil {
		return metrics
	}

	memoryGB := float64(result.MemoryMB) / 1024.0

	warmAvg := result.WarmStats.Average
	metrics.AvgExecutionTime = warmAvg

	warmGBSeconds := memoryGB * (warmAvg / 1000.0)
	metrics.CostPer1MWarm = warmGBSeconds * pricing.PricePerGBSecond * pricing.Scale

	if result.ColdStats != nil && result.ColdStats.Average > 0 {
		coldAvg := result.ColdStats.Average
		metrics.ColdStartTime = &coldAvg

		coldGBSeconds := memoryGB * (coldAvg / 1000.0)
		metrics.CostPer1MCold = coldGBSeconds * pricing.PricePerGBSecond * pricing.Scale
		metrics.BlendedCostPer1M = blend(metrics.CostPer1MCold, metrics.CostPer1MWarm, pricing.ColdStartFraction)
	} else {
		metrics.CostPer1MCold = 0
		metrics.BlendedCostPer1M = metrics.CostPer1MWarm
	}

	if metrics.BlendedCostPer1M > 0 {
		metrics.CostEfficiencyScore = pricing.Scale / metrics.BlendedCostPer1M
	}

	return metrics
}

func blend(costCold, costWarm, coldFraction float64) float64 {
	return costCold*coldFraction + costWarm*(1.0-coldFraction)
}

// BlendedAt re-blends already computed metrics under a different cold-start
// share. Tiers without cold data keep their warm-only figure regardless of
// the share.
func BlendedAt(metrics common.CostMetrics, coldFraction float64) float64 {
	if metrics.ColdStartTime == nil {
		return metrics.CostPer1MWarm
	}

	return blend(metrics.CostPer1MCold, metrics.CostPer1MWarm, coldFraction)
}

type ScenarioCost struct {
	ColdStartFraction float64 `json:"coldStartFraction"`
	BlendedCostPer1M  float64 `json:"blendedCostPer1M"`
}

type ScenarioRow struct {
	MemoryMB  int            `json:"memoryMB"`
	Scenarios []ScenarioCost `json:"scenarios"`
}

// ScenarioTable evaluates every tier under every configured cold-start share,
// one row per tier in input order.
func ScenarioTable(metrics []common.CostMetrics, pricing Pricing) []ScenarioRow {
	rows := make([]ScenarioRow, 0, len(metrics))

	for _, m := range metrics {
		row := ScenarioRow{MemoryMB: m.MemoryMB}

		for _, fraction := range pricing.ScenarioFractions {
			row.Scenarios = append(row.Scenarios, ScenarioCost{
				ColdStartFraction: fraction,
				BlendedCostPer1M:  BlendedAt(m, fraction),
			})
		}

		rows = append(rows, row)
	}

	return rows
}
