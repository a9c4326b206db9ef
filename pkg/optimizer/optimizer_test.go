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

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhive-serverless/coldbench/pkg/common"
	"github.com/vhive-serverless/coldbench/pkg/cost"
)

func tierResult(memoryMB int, warmAvg float64, coldAvg float64) common.AggregatedResult {
	result := common.AggregatedResult{
		MemoryMB:  memoryMB,
		WarmStats: &common.Stats{Count: 5, Average: warmAvg},
	}
	if coldAvg > 0 {
		result.ColdStats = &common.Stats{Count: 5, Average: coldAvg}
	}

	return result
}

func TestSelectOptimalNoWarmData(t *testing.T) {
	results := []common.AggregatedResult{
		{MemoryMB: 128},
		{MemoryMB: 512, ColdStats: &common.Stats{Count: 2, Average: 300}},
	}

	optimal := SelectOptimal(results, cost.DefaultPricing(), DefaultScoringWeights)

	assert.Nil(t, optimal, "no tier with warm samples means no recommendation")
}

func TestSelectOptimalSkipsTiersWithoutWarmStats(t *testing.T) {
	results := []common.AggregatedResult{
		{MemoryMB: 128},
		tierResult(512, 40.0, 300.0),
	}

	optimal := SelectOptimal(results, cost.DefaultPricing(), DefaultScoringWeights)

	require.NotNil(t, optimal)
	assert.Equal(t, 512, optimal.MemoryMB)
	assert.InDelta(t, 40.0, optimal.WarmStartAvg, 1e-9)
	require.NotNil(t, optimal.ColdStartAvg)
	assert.InDelta(t, 300.0, *optimal.ColdStartAvg, 1e-9)
}

func TestSelectOptimalIsDeterministic(t *testing.T) {
	results := []common.AggregatedResult{
		tierResult(128, 90.0, 400.0),
		tierResult(512, 30.0, 250.0),
		tierResult(1024, 12.0, 180.0),
		tierResult(2048, 11.0, 170.0),
	}
	pricing := cost.DefaultPricing()

	first := SelectOptimal(results, pricing, DefaultScoringWeights)
	second := SelectOptimal(results, pricing, DefaultScoringWeights)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.MemoryMB, second.MemoryMB)
	assert.Equal(t, first.BlendedCost, second.BlendedCost)
}

func TestSelectOptimalTieBreakFirstWins(t *testing.T) {
	// With all weight on warm latency, identical warm averages produce an
	// exact score tie; the strict comparison keeps the first tier.
	weights := ScoringWeights{Performance: 1.0}

	results := []common.AggregatedResult{
		tierResult(128, 50.0, 0),
		tierResult(512, 50.0, 0),
	}

	optimal := SelectOptimal(results, cost.DefaultPricing(), weights)

	require.NotNil(t, optimal)
	assert.Equal(t, 128, optimal.MemoryMB)
}

func TestSelectOptimalMixedColdAvailability(t *testing.T) {
	// One tier without cold data and one with it must be comparable.
	results := []common.AggregatedResult{
		tierResult(128, 100.0, 0),
		tierResult(1024, 20.0, 200.0),
	}

	var optimal *common.OptimalConfig
	assert.NotPanics(t, func() {
		optimal = SelectOptimal(results, cost.DefaultPricing(), DefaultScoringWeights)
	})

	require.NotNil(t, optimal)
	// The small tier's much better cost efficiency dominates the score here
	assert.Equal(t, 128, optimal.MemoryMB)
}

func metricsFixture() []common.CostMetrics {
	return []common.CostMetrics{
		{MemoryMB: 128, AvgExecutionTime: 100, CostPer1MWarm: 1.0, CostEfficiencyScore: 5},
		{MemoryMB: 512, AvgExecutionTime: 20, CostPer1MWarm: 2.0, CostEfficiencyScore: 6},
		{MemoryMB: 1024, AvgExecutionTime: 50, CostPer1MWarm: 3.0, CostEfficiencyScore: 10},
		{MemoryMB: 2048, AvgExecutionTime: 60, CostPer1MWarm: 4.0, CostEfficiencyScore: 7},
	}
}

func TestClassifyUseCaseLabelLadder(t *testing.T) {
	metrics := metricsFixture()

	tests := []struct {
		index    int
		expected string
	}{
		{0, LabelBestWarmCost},
		{1, LabelColdStartSensitive},
		{2, LabelMostCostEfficient},
		{3, LabelPerformanceFocused},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ClassifyUseCase(test.index, metrics))
	}
}

func TestClassifyUseCaseIsDeterministic(t *testing.T) {
	metrics := metricsFixture()

	for i := range metrics {
		assert.Equal(t, ClassifyUseCase(i, metrics), ClassifyUseCase(i, metrics))
	}
}

func TestClassifyUseCaseTolerantOfMissingData(t *testing.T) {
	// Comparator tiers without cold data (nil ColdStartTime) and without warm
	// data must not break classification.
	metrics := []common.CostMetrics{
		{MemoryMB: 128, AvgExecutionTime: 0},
		{MemoryMB: 512, AvgExecutionTime: 30, CostPer1MWarm: 2.0, CostEfficiencyScore: 8, ColdStartTime: nil},
		{MemoryMB: 1024, AvgExecutionTime: 40, CostPer1MWarm: 3.0, CostEfficiencyScore: 6},
	}

	assert.NotPanics(t, func() {
		assert.Equal(t, LabelInsufficientData, ClassifyUseCase(0, metrics))
		assert.Equal(t, LabelBestWarmCost, ClassifyUseCase(1, metrics))
	})
}

func TestClassifyUseCaseTertiles(t *testing.T) {
	// Six tiers where the smallest one holds both the warm-cost and the
	// efficiency optimum; the remaining tiers fall through to the tertile
	// split by memory rank.
	metrics := []common.CostMetrics{
		{MemoryMB: 128, AvgExecutionTime: 100, CostPer1MWarm: 1.0, CostEfficiencyScore: 12},
		{MemoryMB: 256, AvgExecutionTime: 10, CostPer1MWarm: 2.0, CostEfficiencyScore: 5},
		{MemoryMB: 512, AvgExecutionTime: 80, CostPer1MWarm: 3.0, CostEfficiencyScore: 4},
		{MemoryMB: 1024, AvgExecutionTime: 70, CostPer1MWarm: 4.0, CostEfficiencyScore: 3},
		{MemoryMB: 2048, AvgExecutionTime: 60, CostPer1MWarm: 5.0, CostEfficiencyScore: 2},
		{MemoryMB: 4096, AvgExecutionTime: 50, CostPer1MWarm: 6.0, CostEfficiencyScore: 1},
	}

	assert.Equal(t, LabelBestWarmCost, ClassifyUseCase(0, metrics))
	assert.Equal(t, LabelColdStartSensitive, ClassifyUseCase(1, metrics))
	assert.Equal(t, LabelBalancedWorkload, ClassifyUseCase(2, metrics))
	assert.Equal(t, LabelBalancedWorkload, ClassifyUseCase(3, metrics))
	assert.Equal(t, LabelPerformanceFocused, ClassifyUseCase(4, metrics))
	assert.Equal(t, LabelPerformanceFocused, ClassifyUseCase(5, metrics))
}
