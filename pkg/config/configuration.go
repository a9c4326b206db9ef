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

package config

import (
	"encoding/json"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/common"
)

// FamilyConfiguration overrides sampling knobs for one workload family. Zero
// values inherit the benchmark-wide defaults.
type FamilyConfiguration struct {
	Name string `json:"Name"`

	TargetColdSamples int `json:"TargetColdSamples"`
	TargetWarmSamples int `json:"TargetWarmSamples"`
	MaxConcurrent     int `json:"MaxConcurrent"`
	BatchDelayMs      int `json:"BatchDelayMs"`
	MaxTotalRequests  int `json:"MaxTotalRequests"`
	ErrorBackoffMs    int `json:"ErrorBackoffMs"`
}

type BenchmarkConfiguration struct {
	BaseURL string `json:"BaseURL"`

	MemorySizesMB []int `json:"MemorySizesMB"`

	PricePerGBSecond         float64   `json:"PricePerGBSecond"`
	DefaultColdStartFraction float64   `json:"DefaultColdStartFraction"`
	CostScale                float64   `json:"CostScale"`
	BlendedScenarioFractions []float64 `json:"BlendedScenarioFractions"`

	TargetColdSamples int `json:"TargetColdSamples"`
	TargetWarmSamples int `json:"TargetWarmSamples"`
	MaxConcurrent     int `json:"MaxConcurrent"`
	BatchDelayMs      int `json:"BatchDelayMs"`
	MaxTotalRequests  int `json:"MaxTotalRequests"`
	ErrorBackoffMs    int `json:"ErrorBackoffMs"`

	RequestTimeoutSeconds int `json:"RequestTimeoutSeconds"`

	// Optimizer policy knobs; all zero means the built-in 0.5/0.3/0.2 split
	PerformanceWeight    float64 `json:"PerformanceWeight"`
	CostEfficiencyWeight float64 `json:"CostEfficiencyWeight"`
	ColdStartWeight      float64 `json:"ColdStartWeight"`

	Families []FamilyConfiguration `json:"Families"`

	OutputPathPrefix string `json:"OutputPathPrefix"`
}

func ReadConfigurationFile(path string) BenchmarkConfiguration {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}

	var cfg BenchmarkConfiguration
	err = json.Unmarshal(byteValue, &cfg)
	if err != nil {
		log.Fatal(err)
	}

	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset knob with the benchmark-wide default and
// sorts the tier ladder ascending, which the optimizer tie-break relies on.
func (cfg *BenchmarkConfiguration) ApplyDefaults() {
	if len(cfg.MemorySizesMB) == 0 {
		cfg.MemorySizesMB = append([]int{}, common.DefaultMemorySizesMB...)
	}
	sort.Ints(cfg.MemorySizesMB)

	if cfg.PricePerGBSecond == 0 {
		cfg.PricePerGBSecond = common.DefaultPricePerGBSecond
	}
	if cfg.DefaultColdStartFraction == 0 {
		cfg.DefaultColdStartFraction = common.DefaultColdStartFraction
	}
	if cfg.CostScale == 0 {
		cfg.CostScale = common.DefaultCostScale
	}
	if len(cfg.BlendedScenarioFractions) == 0 {
		cfg.BlendedScenarioFractions = append([]float64{}, common.DefaultScenarioFractions...)
	}

	if cfg.TargetColdSamples == 0 {
		cfg.TargetColdSamples = common.DefaultTargetColdSamples
	}
	if cfg.TargetWarmSamples == 0 {
		cfg.TargetWarmSamples = common.DefaultTargetWarmSamples
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = common.DefaultMaxConcurrent
	}
	if cfg.BatchDelayMs == 0 {
		cfg.BatchDelayMs = common.DefaultBatchDelayMs
	}
	if cfg.MaxTotalRequests == 0 {
		cfg.MaxTotalRequests = common.DefaultMaxTotalRequests
	}
	if cfg.ErrorBackoffMs == 0 {
		cfg.ErrorBackoffMs = common.DefaultErrorBackoffMs
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = common.DefaultRequestTimeoutSec
	}

	if len(cfg.Families) == 0 {
		cfg.Families = []FamilyConfiguration{
			{Name: common.FamilyLightweight},
			{Name: common.FamilyComputeHeavy},
		}
	}

	if cfg.OutputPathPrefix == "" {
		cfg.OutputPathPrefix = "data/out/coldbench"
	}
}

// FamilyOrDefault resolves the effective sampling knobs for one family.
func (cfg *BenchmarkConfiguration) FamilyOrDefault(fam FamilyConfiguration) FamilyConfiguration {
	out := fam

	if out.TargetColdSamples == 0 {
		out.TargetColdSamples = cfg.TargetColdSamples
	}
	if out.TargetWarmSamples == 0 {
		out.TargetWarmSamples = cfg.TargetWarmSamples
	}
	if out.MaxConcurrent == 0 {
		out.MaxConcurrent = cfg.MaxConcurrent
	}
	if out.BatchDelayMs == 0 {
		out.BatchDelayMs = cfg.BatchDelayMs
	}
	if out.MaxTotalRequests == 0 {
		out.MaxTotalRequests = cfg.MaxTotalRequests
	}
	if out.ErrorBackoffMs == 0 {
		out.ErrorBackoffMs = cfg.ErrorBackoffMs
	}

	return out
}
