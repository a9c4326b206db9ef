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

package collector

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vhive-serverless/coldbench/pkg/common"
)

// Expected response envelope of a function under test. The endpoint, not the
// collector, decides whether the invocation was a cold start; see the trust
// boundary note in the README.
type responseEnvelope struct {
	Performance          *performanceReport    `json:"performance"`
	ExecutionEnvironment *executionEnvironment `json:"executionEnvironment"`
}

type performanceReport struct {
	TotalExecutionTime float64 `json:"totalExecutionTime"`
}

type executionEnvironment struct {
	ColdStart   bool   `json:"coldStart"`
	MemoryLimit int    `json:"memoryLimit"`
	RequestID   string `json:"requestId"`
}

type invocationResult struct {
	sample common.Sample
	err    error

	// transport distinguishes connection/timeout failures from responses
	// that arrived but failed envelope validation
	transport bool
}

func newHTTPClient(requestTimeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
			MaxIdleConnsPerHost: common.DefaultMaxConcurrent,
		},
	}
}

// invoke performs one GET trial and turns the response envelope into a
// classified sample.
func invoke(client *http.Client, tier TierConfig) invocationResult {
	log.Tracef("(Invoke)\t %s-%d: GET %s", tier.Family, tier.MemoryMB, tier.EndpointURL)

	start := time.Now()

	resp, err := client.Get(tier.EndpointURL)
	if err != nil {
		return invocationResult{err: err, transport: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return invocationResult{err: err, transport: true}
	}

	responseTime := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		return invocationResult{err: fmt.Errorf("unexpected status code %d", resp.StatusCode)}
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return invocationResult{err: fmt.Errorf("unparseable response body: %w", err)}
	}
	if err := validateEnvelope(&envelope); err != nil {
		return invocationResult{err: err}
	}

	startType := common.Warm
	if envelope.ExecutionEnvironment.ColdStart {
		startType = common.Cold
	}

	return invocationResult{
		sample: common.Sample{
			Family:         tier.Family,
			MemoryMB:       tier.MemoryMB,
			StartType:      string(startType),
			RequestID:      envelope.ExecutionEnvironment.RequestID,
			DurationMs:     envelope.Performance.TotalExecutionTime,
			ResponseTimeMs: float64(responseTime.Microseconds()) / 1e3,
			Timestamp:      start.UnixMicro(),
		},
	}
}

// validateEnvelope rejects envelopes that are structurally present but carry
// unusable measurements, so the cost model can assume positive durations.
func validateEnvelope(envelope *responseEnvelope) error {
	if envelope.Performance == nil {
		return fmt.Errorf("response misses the performance section")
	}
	if envelope.ExecutionEnvironment == nil {
		return fmt.Errorf("response misses the executionEnvironment section")
	}
	if envelope.Performance.TotalExecutionTime <= 0 {
		return fmt.Errorf("non-positive execution time %f", envelope.Performance.TotalExecutionTime)
	}

	return nil
}
