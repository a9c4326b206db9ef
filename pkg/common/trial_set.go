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

// TrialSet accumulates classified samples for one memory tier, bounded by the
// per-class targets. The collector is the sole writer during its run; after
// collection finishes the set is read-only.
type TrialSet struct {
	Family   string
	MemoryMB int

	Cold []Sample
	Warm []Sample

	targetCold int
	targetWarm int
}

func NewTrialSet(family string, memoryMB, targetCold, targetWarm int) *TrialSet {
	return &TrialSet{
		Family:     family,
		MemoryMB:   memoryMB,
		Cold:       []Sample{},
		Warm:       []Sample{},
		targetCold: targetCold,
		targetWarm: targetWarm,
	}
}

// Add appends the sample to its class unless the class target has already been
// reached, in which case the sample is discarded and false is returned.
func (ts *TrialSet) Add(s Sample) bool {
	if s.IsCold() {
		if len(ts.Cold) >= ts.targetCold {
			return false
		}
		ts.Cold = append(ts.Cold, s)
		return true
	}

	if len(ts.Warm) >= ts.targetWarm {
		return false
	}
	ts.Warm = append(ts.Warm, s)
	return true
}

func (ts *TrialSet) ColdSatisfied() bool {
	return len(ts.Cold) >= ts.targetCold
}

func (ts *TrialSet) WarmSatisfied() bool {
	return len(ts.Warm) >= ts.targetWarm
}

func (ts *TrialSet) TargetsMet() bool {
	return ts.ColdSatisfied() && ts.WarmSatisfied()
}

// Samples returns cold followed by warm samples, for export.
func (ts *TrialSet) Samples() []Sample {
	out := make([]Sample, 0, len(ts.Cold)+len(ts.Warm))
	out = append(out, ts.Cold...)
	out = append(out, ts.Warm...)
	return out
}
