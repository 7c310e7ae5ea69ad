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
	"github.com/exascience/kmertyper/utils"
)

// A HaplotypeFrequencyDistribution holds the population frequencies of
// the haplotypes of a variant cluster during Gibbs sampling.
//
// A Gibbs round runs Reset, then IncrementObservationCount for every
// haplotype drawn in the round, then SampleFrequencies. Observations of
// utils.HaplotypeMissing are counted separately and never inform the
// frequencies.
type HaplotypeFrequencyDistribution interface {
	Reset()
	ElementFrequency(elementIdx uint16) (bool, float64)
	IncrementObservationCount(elementIdx uint16)
	SampleFrequencies()
	NumHaplotypeCount() uint32
	NumMissingCount() uint32
}

// observationCounts holds the counters both distribution flavours
// maintain identically.
type observationCounts struct {
	numHaplotypeCount uint32
	numMissingCount   uint32
}

// NumHaplotypeCount returns the number of non-missing observations
// since the last reset.
func (c *observationCounts) NumHaplotypeCount() uint32 {
	return c.numHaplotypeCount
}

// NumMissingCount returns the number of missing observations since
// the last reset.
func (c *observationCounts) NumMissingCount() uint32 {
	return c.numMissingCount
}

// count records an observation and reports whether it was a haplotype
// rather than a missing one.
func (c *observationCounts) count(elementIdx uint16) bool {
	if elementIdx == utils.HaplotypeMissing {
		c.numMissingCount++
		return false
	}
	c.numHaplotypeCount++
	return true
}

func (c *observationCounts) checkDrained() {
	if c.numHaplotypeCount != 0 || c.numMissingCount != 0 {
		log.Panicf("Reset with %v haplotype and %v missing observations pending.", c.numHaplotypeCount, c.numMissingCount)
	}
}

func (c *observationCounts) clear() {
	c.numHaplotypeCount = 0
	c.numMissingCount = 0
}

func checkElementIdx(elementIdx uint16) {
	if elementIdx >= utils.HaplotypeMissing {
		log.Panicf("Haplotype index %v out of range.", elementIdx)
	}
}

// UniformHaplotypeFrequencyDistribution assigns every haplotype the
// same fixed frequency.
type UniformHaplotypeFrequencyDistribution struct {
	observationCounts
	frequency float64
}

// NewUniformHaplotypeFrequencyDistribution creates a uniform
// distribution over numHaplotypes haplotypes.
func NewUniformHaplotypeFrequencyDistribution(numHaplotypes uint16) *UniformHaplotypeFrequencyDistribution {
	if numHaplotypes == 0 || numHaplotypes == utils.HaplotypeMissing {
		log.Panicf("Invalid number of haplotypes %v.", numHaplotypes)
	}
	return &UniformHaplotypeFrequencyDistribution{frequency: 1 / float64(numHaplotypes)}
}

// Reset implements HaplotypeFrequencyDistribution.
func (d *UniformHaplotypeFrequencyDistribution) Reset() {
	d.checkDrained()
}

// ElementFrequency implements HaplotypeFrequencyDistribution.
func (d *UniformHaplotypeFrequencyDistribution) ElementFrequency(elementIdx uint16) (bool, float64) {
	checkElementIdx(elementIdx)
	return true, d.frequency
}

// IncrementObservationCount implements HaplotypeFrequencyDistribution.
func (d *UniformHaplotypeFrequencyDistribution) IncrementObservationCount(elementIdx uint16) {
	d.count(elementIdx)
}

// SampleFrequencies implements HaplotypeFrequencyDistribution. The
// frequencies never change.
func (d *UniformHaplotypeFrequencyDistribution) SampleFrequencies() {
	d.clear()
}

// SparseHaplotypeFrequencyDistribution delegates haplotype frequencies
// to a FrequencyDistribution it owns exclusively.
type SparseHaplotypeFrequencyDistribution struct {
	observationCounts
	distribution FrequencyDistribution
}

// NewSparseHaplotypeFrequencyDistribution takes ownership of the given
// distribution; callers must not use it afterwards.
func NewSparseHaplotypeFrequencyDistribution(distribution FrequencyDistribution) *SparseHaplotypeFrequencyDistribution {
	if distribution == nil {
		log.Panic("Missing frequency distribution.")
	}
	return &SparseHaplotypeFrequencyDistribution{distribution: distribution}
}

// Reset implements HaplotypeFrequencyDistribution.
func (d *SparseHaplotypeFrequencyDistribution) Reset() {
	d.checkDrained()
	d.distribution.Reset()
}

// ElementFrequency implements HaplotypeFrequencyDistribution.
func (d *SparseHaplotypeFrequencyDistribution) ElementFrequency(elementIdx uint16) (bool, float64) {
	checkElementIdx(elementIdx)
	return d.distribution.ElementFrequency(elementIdx)
}

// IncrementObservationCount implements HaplotypeFrequencyDistribution.
func (d *SparseHaplotypeFrequencyDistribution) IncrementObservationCount(elementIdx uint16) {
	if d.count(elementIdx) {
		d.distribution.IncrementObservationCount(elementIdx)
	}
}

// SampleFrequencies implements HaplotypeFrequencyDistribution. Without
// haplotype observations the frequencies are left untouched.
func (d *SparseHaplotypeFrequencyDistribution) SampleFrequencies() {
	if d.numHaplotypeCount > 0 {
		d.distribution.SampleFrequencies(d.numHaplotypeCount)
	}
	d.clear()
}
