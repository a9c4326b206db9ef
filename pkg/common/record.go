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

package common

type StartType string

const (
	Cold StartType = "cold"
	Warm StartType = "warm"
)

// Sample is one classified trial against a function endpoint. Immutable once
// recorded by the collector.
type Sample struct {
	Family    string `csv:"family" json:"family"`
	MemoryMB  int    `csv:"memoryMB" json:"memoryMB"`
	StartType string `csv:"startType" json:"startType"`
	RequestID string `csv:"requestID" json:"requestId"`

	// Self-reported execution time in milliseconds
	DurationMs float64 `csv:"durationMs" json:"durationMs"`

	// Client-observed end-to-end latency in milliseconds
	ResponseTimeMs float64 `csv:"responseTimeMs" json:"responseTimeMs"`

	Timestamp int64 `csv:"timestamp" json:"timestamp"`
}

func (s *Sample) IsCold() bool {
	return s.StartType == string(Cold)
}

// Stats summarizes one start class of one memory tier.
type Stats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	P50     float64 `json:"p50"`
	P95     float64 `json:"p95"`
}

// AggregatedResult is the per-tier collection outcome. A nil Stats pointer
// means no samples of that class were observed; downstream stages must treat
// it as missing data, never as zero latency.
type AggregatedResult struct {
	Family    string `json:"family"`
	MemoryMB  int    `json:"memoryMB"`
	WarmStats *Stats `json:"warmStats"`
	ColdStats *Stats `json:"coldStats"`

	// Request attempts spent on this tier, including failed and discarded ones
	Attempts int `json:"attempts"`
}

// CostMetrics is derived once per tier from an AggregatedResult and a pricing
// configuration. All cost figures are per pricing scale invocations (1M by
// default).
type CostMetrics struct {
	MemoryMB            int      `json:"memoryMB"`
	AvgExecutionTime    float64  `json:"avgExecutionTime"`
	ColdStartTime       *float64 `json:"coldStartTime"`
	CostPer1MWarm       float64  `json:"costPer1MWarm"`
	CostPer1MCold       float64  `json:"costPer1MCold"`
	BlendedCostPer1M    float64  `json:"blendedCostPer1M"`
	CostEfficiencyScore float64  `json:"costEfficiencyScore"`
}

// OptimalConfig is the single tier recommended for a workload family.
type OptimalConfig struct {
	MemoryMB       int      `json:"memoryMB"`
	WarmStartAvg   float64  `json:"warmStartAvg"`
	ColdStartAvg   *float64 `json:"coldStartAvg"`
	BlendedCost    float64  `json:"blendedCost"`
	Recommendation string   `json:"recommendation"`
}
