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

// Package metric persists benchmark outcomes: the full results document as
// JSON, the raw samples as CSV and a plain-text summary report.
package metric

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/analysis"
	"github.com/vhive-serverless/coldbench/pkg/common"
)

// ResultsDocument is the outbound contract consumed by external reporting.
type ResultsDocument struct {
	RunID     string           `json:"runId"`
	Timestamp time.Time        `json:"timestamp"`
	Summary   analysis.Summary `json:"summary"`
}

type Exporter struct {
	mutex   sync.Mutex
	runID   string
	samples []common.Sample
}

func NewExporter() *Exporter {
	return &Exporter{
		runID:   uuid.New().String(),
		samples: []common.Sample{},
	}
}

func (ep *Exporter) RunID() string {
	return ep.runID
}

func (ep *Exporter) ReportSamples(samples []common.Sample) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	ep.samples = append(ep.samples, samples...)
}

// FinishAndSave writes all artifacts under the given path prefix:
// {prefix}_samples.csv, {prefix}_results.json and {prefix}_summary.txt.
func (ep *Exporter) FinishAndSave(pathPrefix string, summary analysis.Summary) {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if dir := filepath.Dir(pathPrefix); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatal(err)
		}
	}

	samplesFile, err := os.Create(pathPrefix + "_samples.csv")
	if err != nil {
		log.Fatal(err)
	}
	defer samplesFile.Close()

	if err := gocsv.MarshalFile(&ep.samples, samplesFile); err != nil {
		log.Fatal(err)
	}

	document := ResultsDocument{
		RunID:     ep.runID,
		Timestamp: time.Now(),
		Summary:   summary,
	}

	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(pathPrefix+"_results.json", raw, 0644); err != nil {
		log.Fatal(err)
	}

	report := RenderTextReport(&document)
	if err := os.WriteFile(pathPrefix+"_summary.txt", []byte(report), 0644); err != nil {
		log.Fatal(err)
	}

	log.Infof("(Export)\t saved %d samples and summary under %s_*", len(ep.samples), pathPrefix)
}

// RenderTextReport produces the human-readable counterpart of the results
// document.
func RenderTextReport(document *ResultsDocument) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Serverless cold/warm start benchmark\n")
	fmt.Fprintf(&sb, "Run %s at %s\n\n", document.RunID, document.Timestamp.Format(time.RFC3339))

	for _, fam := range document.Summary.Families {
		fmt.Fprintf(&sb, "== %s ==\n", fam.Family)
		fmt.Fprintf(&sb, "%8s %12s %12s %14s %12s  %s\n",
			"memory", "warm[ms]", "cold[ms]", "blended/1M", "efficiency", "use case")

		for i, metrics := range fam.CostTable {
			coldStr := "n/a"
			if metrics.ColdStartTime != nil {
				coldStr = fmt.Sprintf("%.2f", *metrics.ColdStartTime)
			}
			warmStr := "n/a"
			if metrics.AvgExecutionTime > 0 {
				warmStr = fmt.Sprintf("%.2f", metrics.AvgExecutionTime)
			}

			fmt.Fprintf(&sb, "%6d MB %12s %12s %14.4f %12.1f  %s\n",
				metrics.MemoryMB, warmStr, coldStr,
				metrics.BlendedCostPer1M, metrics.CostEfficiencyScore, fam.UseCases[i])
		}

		if fam.Optimal != nil {
			fmt.Fprintf(&sb, "Recommended: %s\n", fam.Optimal.Recommendation)
		} else {
			fmt.Fprintf(&sb, "Recommended: no tier produced warm samples\n")
		}

		if len(fam.Scenarios) > 0 {
			fmt.Fprintf(&sb, "Blended cost by cold-start share:\n")
			for _, row := range fam.Scenarios {
				fmt.Fprintf(&sb, "%6d MB:", row.MemoryMB)
				for _, scenario := range row.Scenarios {
					fmt.Fprintf(&sb, "  %4.0f%% -> %.4f", scenario.ColdStartFraction*100, scenario.BlendedCostPer1M)
				}
				fmt.Fprintf(&sb, "\n")
			}
		}

		fmt.Fprintf(&sb, "\n")
	}

	if len(document.Summary.Insights) > 0 {
		fmt.Fprintf(&sb, "Insights:\n")
		for _, insight := range document.Summary.Insights {
			fmt.Fprintf(&sb, "  - %s\n", insight)
		}
		fmt.Fprintf(&sb, "\n")
	}

	if len(document.Summary.DataQuality) > 0 {
		fmt.Fprintf(&sb, "Data quality:\n")
		for _, note := range document.Summary.DataQuality {
			fmt.Fprintf(&sb, "  - %s\n", note)
		}
	}

	return sb.String()
}
