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

// Package analysis runs the collected tier results of every workload family
// through the cost model and the optimizer and derives cross-family insights.
// Summarize is pure; collection I/O stays behind the TierCollector interface.
package analysis

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/collector"
	"github.com/vhive-serverless/coldbench/pkg/common"
	"github.com/vhive-serverless/coldbench/pkg/config"
	"github.com/vhive-serverless/coldbench/pkg/cost"
	"github.com/vhive-serverless/coldbench/pkg/optimizer"
)

type TierCollector interface {
	Collect(tier collector.TierConfig) (common.AggregatedResult, *common.TrialSet)
}

type FamilyResult struct {
	Family  string                    `json:"family"`
	Results []common.AggregatedResult `json:"results"`

	CostTable []common.CostMetrics `json:"costTable"`

	// UseCases is aligned with CostTable
	UseCases []string `json:"useCases"`

	Scenarios []cost.ScenarioRow    `json:"scenarios"`
	Optimal   *common.OptimalConfig `json:"optimal"`
}

type Summary struct {
	Families    []FamilyResult `json:"families"`
	Insights    []string       `json:"insights"`
	DataQuality []string       `json:"dataQuality"`
}

type CollectionOutput struct {
	Results map[string][]common.AggregatedResult
	Samples []common.Sample
}

// RunCollection walks every configured family across the tier ladder. Tiers
// are visited in ascending memory order, which downstream ranking relies on.
func RunCollection(col TierCollector, cfg *config.BenchmarkConfiguration) CollectionOutput {
	out := CollectionOutput{Results: map[string][]common.AggregatedResult{}}

	for _, famCfg := range cfg.Families {
		fam := cfg.FamilyOrDefault(famCfg)

		log.Infof("(Family)\t %s: testing %d tiers", fam.Name, len(cfg.MemorySizesMB))

		for _, memoryMB := range cfg.MemorySizesMB {
			tier := collector.TierConfig{
				EndpointURL:      collector.EndpointURL(cfg.BaseURL, fam.Name, memoryMB),
				Family:           fam.Name,
				MemoryMB:         memoryMB,
				TargetCold:       fam.TargetColdSamples,
				TargetWarm:       fam.TargetWarmSamples,
				MaxConcurrent:    fam.MaxConcurrent,
				BatchDelay:       time.Duration(fam.BatchDelayMs) * time.Millisecond,
				MaxTotalRequests: fam.MaxTotalRequests,
				ErrorBackoff:     time.Duration(fam.ErrorBackoffMs) * time.Millisecond,
			}

			result, set := col.Collect(tier)
			out.Results[fam.Name] = append(out.Results[fam.Name], result)
			out.Samples = append(out.Samples, set.Samples()...)
		}
	}

	return out
}

// Summarize derives the combined report structure. It never fails on missing
// data: families without warm samples simply carry a nil optimal config and a
// data-quality note.
func Summarize(results map[string][]common.AggregatedResult, pricing cost.Pricing, weights optimizer.ScoringWeights) Summary {
	summary := Summary{}

	families := make([]string, 0, len(results))
	for fam := range results {
		families = append(families, fam)
	}
	sort.Strings(families)

	for _, fam := range families {
		tierResults := append([]common.AggregatedResult{}, results[fam]...)
		sort.Slice(tierResults, func(i, j int) bool {
			return tierResults[i].MemoryMB < tierResults[j].MemoryMB
		})

		famResult := FamilyResult{Family: fam, Results: tierResults}

		for _, res := range tierResults {
			famResult.CostTable = append(famResult.CostTable, cost.Compute(res, pricing))
		}
		for i := range famResult.CostTable {
			famResult.UseCases = append(famResult.UseCases, optimizer.ClassifyUseCase(i, famResult.CostTable))
		}

		famResult.Scenarios = cost.ScenarioTable(famResult.CostTable, pricing)
		famResult.Optimal = optimizer.SelectOptimal(tierResults, pricing, weights)

		summary.DataQuality = append(summary.DataQuality, dataQualityNotes(&famResult)...)
		summary.Families = append(summary.Families, famResult)
	}

	summary.Insights = deriveInsights(summary.Families)

	return summary
}

func dataQualityNotes(fam *FamilyResult) []string {
	var notes []string

	for _, res := range fam.Results {
		if res.WarmStats == nil {
			notes = append(notes, fmt.Sprintf("%s: %d MB produced no warm samples and is excluded from ranking", fam.Family, res.MemoryMB))
		}
		if res.ColdStats == nil {
			notes = append(notes, fmt.Sprintf("%s: %d MB produced no cold starts; its blended cost assumes all-warm traffic", fam.Family, res.MemoryMB))
		}
	}

	if fam.Optimal == nil {
		notes = append(notes, fmt.Sprintf("%s: no tier produced warm samples, no recommendation possible", fam.Family))
	}

	return notes
}

// deriveInsights compares family outcomes. Families without an optimal config
// are skipped rather than compared.
func deriveInsights(families []FamilyResult) []string {
	var insights []string

	for i := 0; i < len(families); i++ {
		for j := i + 1; j < len(families); j++ {
			a, b := families[i], families[j]
			if a.Optimal == nil || b.Optimal == nil {
				continue
			}

			if a.Optimal.MemoryMB != b.Optimal.MemoryMB {
				insights = append(insights, fmt.Sprintf(
					"%s and %s workloads favor different tiers: %d MB vs %d MB",
					a.Family, b.Family, a.Optimal.MemoryMB, b.Optimal.MemoryMB))
			}
		}
	}

	for i := range families {
		insights = append(insights, familyInsights(&families[i])...)
	}

	return insights
}

func familyInsights(fam *FamilyResult) []string {
	var insights []string

	baseline := firstWithWarmData(fam.CostTable)
	if baseline == -1 {
		return insights
	}

	fastest := fastestTier(fam.CostTable)
	if fastest != baseline {
		base := fam.CostTable[baseline]
		fast := fam.CostTable[fastest]
		latencyGain := (base.AvgExecutionTime - fast.AvgExecutionTime) / base.AvgExecutionTime * 100.0

		insights = append(insights, fmt.Sprintf(
			"%s: %d MB runs %.1f%% faster than the %d MB baseline at %.2fx the blended cost",
			fam.Family, fast.MemoryMB, latencyGain, base.MemoryMB,
			safeRatio(fast.BlendedCostPer1M, base.BlendedCostPer1M)))
	}

	efficient := mostEfficientTier(fam.CostTable)
	if efficient != baseline {
		base := fam.CostTable[baseline]
		eff := fam.CostTable[efficient]
		savings := base.BlendedCostPer1M - eff.BlendedCostPer1M
		if savings > 0 {
			insights = append(insights, fmt.Sprintf(
				"%s: switching from %d MB to %d MB saves %.1f%% per 1M invocations",
				fam.Family, base.MemoryMB, eff.MemoryMB, savings/base.BlendedCostPer1M*100.0))
		}
	}

	return insights
}

func firstWithWarmData(metrics []common.CostMetrics) int {
	for i, m := range metrics {
		if m.AvgExecutionTime > 0 {
			return i
		}
	}

	return -1
}

func fastestTier(metrics []common.CostMetrics) int {
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

func mostEfficientTier(metrics []common.CostMetrics) int {
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

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 0
	}

	return a / b
}
