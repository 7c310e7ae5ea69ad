// kmertyper: k-mer based haplotype multiplicity and frequency core.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/kmertyper/blob/master/LICENSE.txt>.

package frequency

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	logging "github.com/op/go-logging"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/exascience/kmertyper/internal"
)

var log = logging.MustGetLogger("frequency")

// A FrequencyDistribution samples the frequencies of a fixed set of
// discrete elements from observation counts.
type FrequencyDistribution interface {
	// Reset clears the observation counts. Frequencies are kept.
	Reset()

	// ElementFrequency returns the current frequency of an element.
	// The boolean result is false for elements outside the support.
	ElementFrequency(elementIdx uint16) (bool, float64)

	// IncrementObservationCount records one observation of an element.
	IncrementObservationCount(elementIdx uint16)

	// SampleFrequencies draws new frequencies given the observations
	// since the last reset. numObservations is their total.
	SampleFrequencies(numObservations uint32)
}

// SparseOptions configures a SparseFrequencyDistribution.
type SparseOptions struct {
	// Concentration is the total prior pseudo-count, spread evenly
	// over all elements. Small values favour sparse frequencies.
	Concentration float64

	// MinFrequency is the smallest frequency for which an element
	// stays in the support.
	MinFrequency float64
}

// DefaultSparseOptions returns the default sparse prior.
func DefaultSparseOptions() SparseOptions {
	return SparseOptions{
		Concentration: 1,
		MinFrequency:  1e-8,
	}
}

// Validate checks the options.
func (opts SparseOptions) Validate() error {
	if !(opts.Concentration > 0) {
		return fmt.Errorf("invalid concentration %v, must be positive", opts.Concentration)
	}
	if opts.MinFrequency < 0 || opts.MinFrequency >= 1 {
		return fmt.Errorf("invalid minimum frequency %v, must be in [0, 1)", opts.MinFrequency)
	}
	return nil
}

// SparseFrequencyDistribution draws element frequencies from the
// Dirichlet posterior of its observation counts. The prior puts little
// mass on each element, so elements that are never observed drift out
// of the support.
type SparseFrequencyDistribution struct {
	opts            SparseOptions
	alpha           float64
	counts          []uint32
	numObservations uint32
	frequencies     []float64
	support         *bitset.BitSet
	rng             *internal.Rand
}

// NewSparseFrequencyDistribution creates a distribution over
// numElements elements with uniform initial frequencies.
func NewSparseFrequencyDistribution(numElements int, opts SparseOptions, rng *internal.Rand) (*SparseFrequencyDistribution, error) {
	if numElements <= 0 || numElements >= 1<<16-1 {
		return nil, fmt.Errorf("invalid number of elements %v", numElements)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("missing random number generator")
	}
	d := &SparseFrequencyDistribution{
		opts:        opts,
		alpha:       opts.Concentration / float64(numElements),
		counts:      make([]uint32, numElements),
		frequencies: make([]float64, numElements),
		support:     bitset.New(uint(numElements)),
		rng:         rng,
	}
	for i := range d.frequencies {
		d.frequencies[i] = 1 / float64(numElements)
		d.support.Set(uint(i))
	}
	return d, nil
}

// NumElements returns the number of elements.
func (d *SparseFrequencyDistribution) NumElements() int {
	return len(d.counts)
}

// SupportSize returns the number of elements with a frequency of at
// least the minimum frequency.
func (d *SparseFrequencyDistribution) SupportSize() int {
	return int(d.support.Count())
}

func (d *SparseFrequencyDistribution) checkElement(elementIdx uint16) {
	if int(elementIdx) >= len(d.counts) {
		log.Panicf("Element index %v out of range for %v elements.", elementIdx, len(d.counts))
	}
}

// Reset implements FrequencyDistribution.
func (d *SparseFrequencyDistribution) Reset() {
	for i := range d.counts {
		d.counts[i] = 0
	}
	d.numObservations = 0
}

// ElementFrequency implements FrequencyDistribution.
func (d *SparseFrequencyDistribution) ElementFrequency(elementIdx uint16) (bool, float64) {
	d.checkElement(elementIdx)
	if !d.support.Test(uint(elementIdx)) {
		return false, 0
	}
	return true, d.frequencies[elementIdx]
}

// IncrementObservationCount implements FrequencyDistribution.
func (d *SparseFrequencyDistribution) IncrementObservationCount(elementIdx uint16) {
	d.checkElement(elementIdx)
	d.counts[elementIdx]++
	d.numObservations++
}

// SampleFrequencies implements FrequencyDistribution.
func (d *SparseFrequencyDistribution) SampleFrequencies(numObservations uint32) {
	if numObservations != d.numObservations {
		log.Panicf("Sampling frequencies for %v observations, but %v were counted.", numObservations, d.numObservations)
	}
	weights := make([]float64, len(d.counts))
	for i, count := range d.counts {
		weights[i] = distuv.Gamma{
			Alpha: float64(count) + d.alpha,
			Beta:  1,
			Src:   d.rng,
		}.Rand()
	}
	sum := floats.Sum(weights)
	if !(sum > 0) {
		log.Warningf("Degenerate frequency sample over %v elements, keeping previous frequencies.", len(weights))
		return
	}
	floats.Scale(1/sum, weights)
	d.support.ClearAll()
	for i, frequency := range weights {
		if frequency >= d.opts.MinFrequency && frequency > 0 {
			d.frequencies[i] = frequency
			d.support.Set(uint(i))
		} else {
			d.frequencies[i] = 0
		}
	}
}
