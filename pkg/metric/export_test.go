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

package metric

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhive-serverless/coldbench/pkg/analysis"
	"github.com/vhive-serverless/coldbench/pkg/common"
	"github.com/vhive-serverless/coldbench/pkg/cost"
	"github.com/vhive-serverless/coldbench/pkg/optimizer"
)

func summaryFixture() analysis.Summary {
	results := map[string][]common.AggregatedResult{
		common.FamilyLightweight: {
			{
				Family:    common.FamilyLightweight,
				MemoryMB:  128,
				WarmStats: &common.Stats{Count: 5, Average: 40, Min: 30, Max: 50},
				ColdStats: &common.Stats{Count: 5, Average: 300, Min: 250, Max: 350},
			},
			{
				Family:    common.FamilyLightweight,
				MemoryMB:  1024,
				WarmStats: &common.Stats{Count: 5, Average: 10, Min: 8, Max: 12},
			},
		},
	}

	return analysis.Summarize(results, cost.DefaultPricing(), optimizer.DefaultScoringWeights)
}

func TestFinishAndSaveWritesAllArtifacts(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "nested", "run")

	exporter := NewExporter()
	exporter.ReportSamples([]common.Sample{
		{Family: common.FamilyLightweight, MemoryMB: 128, StartType: string(common.Warm), DurationMs: 40, RequestID: "r1", Timestamp: time.Now().UnixMicro()},
		{Family: common.FamilyLightweight, MemoryMB: 128, StartType: string(common.Cold), DurationMs: 300, RequestID: "r2", Timestamp: time.Now().UnixMicro()},
	})

	exporter.FinishAndSave(prefix, summaryFixture())

	raw, err := os.ReadFile(prefix + "_results.json")
	require.NoError(t, err)

	var document ResultsDocument
	require.NoError(t, json.Unmarshal(raw, &document))
	assert.Equal(t, exporter.RunID(), document.RunID)
	require.Len(t, document.Summary.Families, 1)
	assert.Equal(t, common.FamilyLightweight, document.Summary.Families[0].Family)

	csvRaw, err := os.ReadFile(prefix + "_samples.csv")
	require.NoError(t, err)
	assert.Contains(t, string(csvRaw), "durationMs")
	assert.Contains(t, string(csvRaw), "r1")

	report, err := os.ReadFile(prefix + "_summary.txt")
	require.NoError(t, err)
	assert.Contains(t, string(report), common.FamilyLightweight)
}

func TestRenderTextReport(t *testing.T) {
	document := ResultsDocument{
		RunID:     "test-run",
		Timestamp: time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC),
		Summary:   summaryFixture(),
	}

	report := RenderTextReport(&document)

	assert.Contains(t, report, "test-run")
	assert.Contains(t, report, "== lightweight ==")
	assert.Contains(t, report, "Recommended:")
	assert.Contains(t, report, "Data quality:")

	// The tier without cold samples renders a placeholder, never a zero cost
	assert.Contains(t, report, "n/a")
}
