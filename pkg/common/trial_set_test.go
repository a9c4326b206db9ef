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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func coldSample() Sample {
	return Sample{StartType: string(Cold), DurationMs: 250}
}

func warmSample() Sample {
	return Sample{StartType: string(Warm), DurationMs: 10}
}

func TestTrialSetBoundsTargets(t *testing.T) {
	set := NewTrialSet(FamilyLightweight, 128, 2, 3)

	assert.True(t, set.Add(coldSample()))
	assert.True(t, set.Add(coldSample()))
	assert.False(t, set.Add(coldSample()), "cold target reached, sample must be discarded")

	assert.True(t, set.Add(warmSample()))
	assert.True(t, set.Add(warmSample()))
	assert.False(t, set.TargetsMet())
	assert.True(t, set.Add(warmSample()))
	assert.False(t, set.Add(warmSample()))

	assert.Len(t, set.Cold, 2)
	assert.Len(t, set.Warm, 3)
	assert.True(t, set.ColdSatisfied())
	assert.True(t, set.WarmSatisfied())
	assert.True(t, set.TargetsMet())
}

func TestTrialSetDiscardKeepsPriorCounts(t *testing.T) {
	set := NewTrialSet(FamilyLightweight, 128, 5, 5)

	for i := 0; i < 5; i++ {
		assert.True(t, set.Add(coldSample()))
	}

	// A later batch that still reports cold starts must not grow the set
	for i := 0; i < 5; i++ {
		assert.False(t, set.Add(coldSample()))
	}

	assert.Len(t, set.Cold, 5)
}

func TestTrialSetSamplesConcatenation(t *testing.T) {
	set := NewTrialSet(FamilyComputeHeavy, 512, 1, 1)
	set.Add(coldSample())
	set.Add(warmSample())

	samples := set.Samples()
	assert.Len(t, samples, 2)
	assert.True(t, samples[0].IsCold())
	assert.False(t, samples[1].IsCold())
}
