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

// Package collector drives batches of concurrent trials against one function
// endpoint until the per-class sample targets are met or the attempt ceiling
// is reached.
package collector

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/common"
)

type TierConfig struct {
	EndpointURL string
	Family      string
	MemoryMB    int

	TargetCold int
	TargetWarm int

	MaxConcurrent    int
	BatchDelay       time.Duration
	MaxTotalRequests int
	ErrorBackoff     time.Duration
}

// EndpointURL builds the per-tier URL, {baseURL}/{family}-{memoryMB}.
func EndpointURL(baseURL, family string, memoryMB int) string {
	return fmt.Sprintf("%s/%s-%d", baseURL, family, memoryMB)
}

type Collector struct {
	client *http.Client

	// sleep is swapped out in tests to avoid real delays
	sleep func(time.Duration)
}

func NewCollector(requestTimeout time.Duration) *Collector {
	return &Collector{
		client: newHTTPClient(requestTimeout),
		sleep:  time.Sleep,
	}
}

// Collect runs the adaptive batch loop for one tier. It terminates either
// when both sample targets are met or when the attempt ceiling is exceeded;
// the second exit returns whatever was collected so far.
func (c *Collector) Collect(tier TierConfig) (common.AggregatedResult, *common.TrialSet) {
	set := common.NewTrialSet(tier.Family, tier.MemoryMB, tier.TargetCold, tier.TargetWarm)
	attempts := 0

	for !set.TargetsMet() {
		results := c.fireBatch(tier)
		attempts += len(results)

		delivered := 0
		for _, res := range results {
			if res.err != nil {
				if res.transport {
					log.Debugf("(Trial)\t %s-%d: transport failure: %v", tier.Family, tier.MemoryMB, res.err)
				} else {
					log.Warnf("(Trial)\t %s-%d: malformed response dropped: %v", tier.Family, tier.MemoryMB, res.err)
				}

				continue
			}

			delivered++

			if !set.Add(res.sample) {
				log.Debugf("(Trial)\t %s-%d: %s sample discarded - have enough", tier.Family, tier.MemoryMB, res.sample.StartType)
			}
		}

		log.Debugf("(Batch)\t %s-%d: %d/%d delivered, cold %d/%d, warm %d/%d, attempts %d",
			tier.Family, tier.MemoryMB, delivered, len(results),
			len(set.Cold), tier.TargetCold, len(set.Warm), tier.TargetWarm, attempts)

		if set.TargetsMet() {
			break
		}

		if attempts >= tier.MaxTotalRequests {
			log.Warnf("(Tier)\t %s-%d: attempt ceiling %d reached with cold %d/%d, warm %d/%d - returning partial data",
				tier.Family, tier.MemoryMB, tier.MaxTotalRequests,
				len(set.Cold), tier.TargetCold, len(set.Warm), tier.TargetWarm)

			break
		}

		if delivered == 0 {
			log.Warnf("(Batch)\t %s-%d: whole batch failed, backing off for %v", tier.Family, tier.MemoryMB, tier.ErrorBackoff)
			c.sleep(tier.ErrorBackoff)

			continue
		}

		// Cold starts only reappear after idle containers get reclaimed, so
		// pause between batches while the cold target is unmet.
		if !set.ColdSatisfied() {
			c.sleep(tier.BatchDelay)
		}
	}

	result := Aggregate(set)
	result.Attempts = attempts

	logTierSummary(&result)

	return result, set
}

// fireBatch issues MaxConcurrent trials and waits for all of them. Completion
// order within the batch carries no meaning; each result lands in its own
// slot.
func (c *Collector) fireBatch(tier TierConfig) []invocationResult {
	results := make([]invocationResult, tier.MaxConcurrent)

	var wg sync.WaitGroup
	wg.Add(tier.MaxConcurrent)

	for i := 0; i < tier.MaxConcurrent; i++ {
		go func(slot int) {
			defer wg.Done()

			results[slot] = invoke(c.client, tier)
		}(i)
	}

	wg.Wait()

	return results
}

func logTierSummary(result *common.AggregatedResult) {
	if result.WarmStats != nil {
		log.Infof("(Tier)\t %s-%d: warm avg %.2f[ms] over %d samples",
			result.Family, result.MemoryMB, result.WarmStats.Average, result.WarmStats.Count)
	}
	if result.ColdStats != nil {
		log.Infof("(Tier)\t %s-%d: cold avg %.2f[ms] over %d samples",
			result.Family, result.MemoryMB, result.ColdStats.Average, result.ColdStats.Count)
	}
	if result.WarmStats == nil && result.ColdStats == nil {
		log.Warnf("(Tier)\t %s-%d: no samples collected", result.Family, result.MemoryMB)
	}
}
