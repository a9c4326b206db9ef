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

// Plots average warm and cold latency against the memory tier ladder from an
// exported samples CSV, one figure per workload family.
package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/vhive-serverless/coldbench/pkg/common"
)

func main() {
	var (
		inputFile  = flag.String("i", "data/out/coldbench_samples.csv", "Path to the exported samples CSV")
		outputDir  = flag.String("o", "figs", "Path to the directory for output figures")
		debugLevel = flag.String("d", "info", "Debug level: info, debug")
	)
	flag.Parse()
	log.SetOutput(os.Stdout)

	switch *debugLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	samples := parseSamples(*inputFile)
	log.Infof("Loaded %d samples", len(samples))

	for family, byClass := range groupSamples(samples) {
		plotFamily(*outputDir, family, byClass)
	}
}

func parseSamples(path string) []*common.Sample {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var samples []*common.Sample
	if err := gocsv.UnmarshalFile(f, &samples); err != nil {
		log.Fatal(err)
	}

	return samples
}

// groupSamples buckets durations by family, start class and memory tier.
func groupSamples(samples []*common.Sample) map[string]map[string]map[int][]float64 {
	grouped := map[string]map[string]map[int][]float64{}

	for _, s := range samples {
		if _, ok := grouped[s.Family]; !ok {
			grouped[s.Family] = map[string]map[int][]float64{}
		}
		if _, ok := grouped[s.Family][s.StartType]; !ok {
			grouped[s.Family][s.StartType] = map[int][]float64{}
		}

		grouped[s.Family][s.StartType][s.MemoryMB] = append(grouped[s.Family][s.StartType][s.MemoryMB], s.DurationMs)
	}

	return grouped
}

func plotFamily(outputDir, family string, byClass map[string]map[int][]float64) {
	if _, err := os.Stat(outputDir); errors.Is(err, os.ErrNotExist) {
		log.Info("Creating the output directory")
		if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
			log.Fatal(err)
		}
	}

	p := plot.New()
	p.Title.Text = family
	p.X.Label.Text = "Memory [MB]"
	p.Y.Label.Text = "Avg latency [ms]"
	p.Y.Min = 0

	var lines []interface{}
	for _, class := range []string{string(common.Warm), string(common.Cold)} {
		byMemory, ok := byClass[class]
		if !ok {
			continue
		}

		lines = append(lines, class, averageXY(byMemory))
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		log.Fatal(err)
	}

	outputPath := filepath.Join(outputDir, family+".png")
	if err := p.Save(6*vg.Inch, 4*vg.Inch, outputPath); err != nil {
		log.Fatal(err)
	}

	log.Infof("Saved %s", outputPath)
}

func averageXY(byMemory map[int][]float64) plotter.XYs {
	memories := make([]int, 0, len(byMemory))
	for memoryMB := range byMemory {
		memories = append(memories, memoryMB)
	}
	sort.Ints(memories)

	xys := make(plotter.XYs, len(memories))
	for i, memoryMB := range memories {
		xys[i].X = float64(memoryMB)
		xys[i].Y = stat.Mean(byMemory[memoryMB], nil)
	}

	return xys
}
