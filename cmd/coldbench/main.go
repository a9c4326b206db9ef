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

package main

import (
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/analysis"
	"github.com/vhive-serverless/coldbench/pkg/collector"
	"github.com/vhive-serverless/coldbench/pkg/config"
	"github.com/vhive-serverless/coldbench/pkg/cost"
	"github.com/vhive-serverless/coldbench/pkg/metric"
	"github.com/vhive-serverless/coldbench/pkg/optimizer"
)

var (
	configPath = flag.String("config", "cmd/config_benchmark.json", "Path to benchmark configuration file")
	verbosity  = flag.String("verbosity", "info", "Logging verbosity - choose from [info, debug, trace]")
	baseURL    = flag.String("baseURL", "", "Override the function base URL from the configuration file")
	outputPath = flag.String("outputPathPrefix", "", "Override the output path prefix from the configuration file")
)

func init() {
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.StampMilli,
		FullTimestamp:   true,
	})
	log.SetOutput(os.Stdout)

	switch *verbosity {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "trace":
		log.SetLevel(log.TraceLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cfg := config.ReadConfigurationFile(*configPath)

	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *outputPath != "" {
		cfg.OutputPathPrefix = *outputPath
	}
	if cfg.BaseURL == "" {
		log.Fatal("A function base URL is required, set BaseURL in the configuration or pass -baseURL.")
	}

	exporter := metric.NewExporter()
	log.Infof("Starting benchmark run %s against %s", exporter.RunID(), cfg.BaseURL)

	col := collector.NewCollector(time.Duration(cfg.RequestTimeoutSeconds) * time.Second)
	collected := analysis.RunCollection(col, &cfg)
	exporter.ReportSamples(collected.Samples)

	pricing := cost.Pricing{
		PricePerGBSecond:  cfg.PricePerGBSecond,
		ColdStartFraction: cfg.DefaultColdStartFraction,
		Scale:             cfg.CostScale,
		ScenarioFractions: cfg.BlendedScenarioFractions,
	}

	weights := optimizer.DefaultScoringWeights
	if cfg.PerformanceWeight+cfg.CostEfficiencyWeight+cfg.ColdStartWeight > 0 {
		weights = optimizer.ScoringWeights{
			Performance:    cfg.PerformanceWeight,
			CostEfficiency: cfg.CostEfficiencyWeight,
			ColdStart:      cfg.ColdStartWeight,
		}
	}

	summary := analysis.Summarize(collected.Results, pricing, weights)
	exporter.FinishAndSave(cfg.OutputPathPrefix, summary)
}
