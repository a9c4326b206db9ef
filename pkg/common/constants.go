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

const (
	FamilyLightweight  = "lightweight"
	FamilyComputeHeavy = "compute-heavy"
)

const (
	// DefaultPricePerGBSecond AWS Lambda x86 price, us-east-1
	// https://aws.amazon.com/lambda/pricing/
	DefaultPricePerGBSecond = 0.0000166667

	// DefaultColdStartFraction Assumed share of cold starts in real traffic
	DefaultColdStartFraction = 0.10

	// DefaultCostScale Costs are projected per this many invocations
	DefaultCostScale = 1_000_000.0
)

const (
	DefaultTargetColdSamples = 5
	DefaultTargetWarmSamples = 5
	DefaultMaxConcurrent     = 20
	DefaultBatchDelayMs      = 500
	DefaultMaxTotalRequests  = 100
	DefaultErrorBackoffMs    = 2000
	DefaultRequestTimeoutSec = 30
)

// DefaultMemorySizesMB Tier ladder under test, must be ascending
var DefaultMemorySizesMB = []int{128, 512, 1024, 2048}

// DefaultScenarioFractions Cold-start traffic shares for the blended cost table
var DefaultScenarioFractions = []float64{0.05, 0.10, 0.20, 0.50}
