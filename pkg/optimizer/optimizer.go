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

// Package optimizer ranks memory tiers by a weighted latency/cost score and
// attaches descriptive use-case labels. The weights are policy knobs, not
// derived quantities.
package optimizer

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/common"
	"github.com/vhive-serverless/coldbench/pkg/cost"
)

// ScoringWeights control the relative importance of warm latency, blended
// cost efficiency and cold-start latency when picking the optimal tier.
type ScoringWeights struct {
	Performance    float64
	CostEfficiency float64
	ColdStart      float64
}

// DefaultScoringWeights Historically used split; there is no deeper model
// behind these numbers
var DefaultScoringWeights = ScoringWeights{
	Performance:    0.5,
	CostEfficiency: 0.3,
	ColdStart:      0.2,
}

const (
	// Normalization constants for the individual score terms
	performanceScoreScale    = 1000.0
	coldStartScoreScale      = 1000.0
	costEfficiencyNormalizer = 10000.0
)

// SelectOptimal scores every tier that produced warm samples and returns the
// highest scoring one. Input must be ordered by ascending memory; the first
// tier wins exact score ties. Returns nil when no tier has warm data.
func SelectOptimal(results []common.AggregatedResult, pricing cost.Pricing, weights ScoringWeights) *common.OptimalConfig {
	var best *common.OptimalConfig
	bestScore := 0.0

	for _, result := range results {
		if result.WarmStats == nil {
			log.Debugf("(Optimizer)\t %d[MiB] skipped: no warm samples", result.MemoryMB)

			continue
		}

		metrics := cost.Compute(result, pricing)
		score := tierScore(result, metrics, weights)

		log.Debugf("(Optimizer)\t %d[MiB] scored %.4f", result.MemoryMB, score)

		if best == nil || score > bestScore {
			bestScore = score
			best = &common.OptimalConfig{
				MemoryMB:     result.MemoryMB,
				WarmStartAvg: result.WarmStats.Average,
				ColdStartAvg: metrics.ColdStartTime,
				BlendedCost:  metrics.BlendedCostPer1M,
				Recommendation: fmt.Sprintf("%d MB gives the best weighted latency/cost balance (score %.2f)",
					result.MemoryMB, score),
			}
		}
	}

	return best
}

func tierScore(result common.AggregatedResult, metrics common.CostMetrics, weights ScoringWeights) float64 {
	performanceScore := performanceScoreScale / result.WarmStats.Average
	costEfficiencyScore := metrics.CostEfficiencyScore / costEfficiencyNormalizer

	coldBonus := 0.0
	if result.ColdStats != nil && result.ColdStats.Average > 0 {
		coldBonus = coldStartScoreScale / result.ColdStats.Average
	}

	return weights.Performance*performanceScore +
		weights.CostEfficiency*costEfficiencyScore +
		weights.ColdStart*coldBonus
}

const (
	LabelBestWarmCost       = "best warm cost"
	LabelColdStartSensitive = "fastest / cold-start sensitive"
	LabelMostCostEfficient  = "most cost efficient (blended)"
	LabelBudgetFocused      = "budget focused"
	LabelPerformanceFocused = "performance focused"
	LabelBalancedWorkload   = "balanced workload"
	LabelInsufficientData   = "insufficient data"
)

// ClassifyUseCase labels the tier at the given index within the memory
// ascending metrics list. The label ladder is informational: global minima
// first, then a tertile split by memory rank. Tiers without warm data are
// excluded from the global comparisons and labeled as lacking data.
func ClassifyUseCase(index int, allMetrics []common.CostMetrics) string {
	tier := allMetrics[index]

	if tier.AvgExecutionTime <= 0 {
		return LabelInsufficientData
	}

	if index == lowestWarmCostIndex(allMetrics) {
		return LabelBestWarmCost
	}
	if index == fastestIndex(allMetrics) {
		return LabelColdStartSensitive
	}
	if index == mostEfficientIndex(allMetrics) {
		return LabelMostCostEfficient
	}

	n := len(allMetrics)
	switch {
	case index*3 < n:
		return LabelBudgetFocused
	case index*3 >= 2*n:
		return LabelPerformanceFocused
	default:
		return LabelBalancedWorkload
	}
}

func lowestWarmCostIndex(metrics []common.CostMetrics) int {
	best := -1
	for i, m := range metrics {
		if m.AvgExecutionTime <= 0 {
			continue
		}
		if best == -1 || m.CostPer1MWarm < metrics[best].CostPer1MWarm {
			best = i
		}
	}

	return best
}

func fastestIndex(metrics []common.CostMetrics) int {
	best := -1
	for i, m := range metrics {
		if m.AvgExecutionTime <= 0 {
			continue
		}
		if best == -1 || m.AvgExecutionTime < metrics[best].AvgExecutionTime {
			best = i
		}
	}

	return best
}

func mostEfficientIndex(metrics []common.CostMetrics) int {
	best := -1
	for i, m := range metrics {
		if m.AvgExecutionTime <= 0 {
			continue
		}
		if best == -1 || m.CostEfficiencyScore > metrics[best].CostEfficiencyScore {
			best = i
		}
	}

	return best
}
