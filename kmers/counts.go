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

package kmers

import (
	"sync/atomic"

	logging "github.com/op/go-logging"

	"github.com/exascience/kmertyper/utils"
)

var log = logging.MustGetLogger("kmers")

// Counts is the shared record of one k-mer in the k-mer index. Every
// variant cluster and haplotype containing the k-mer refers to the
// same record; the index owns it.
//
// Observed counts and multicluster multiplicities are updated with
// atomic operations, so clusters processed in parallel can share a
// record without further synchronization. Every change a sample's
// k-mer statistics depend on bumps that sample's generation.
type Counts struct {
	sampleCounts                       []uint32
	generations                        []uint32
	interclusterMultiplicities         [utils.NumGenders]uint8
	clusterOccurrences                 int32
	multiclusterMultiplicities         []int32
	previousMulticlusterMultiplicities []int32
}

// NewCounts allocates a record for the given number of samples.
func NewCounts(numSamples int) *Counts {
	return &Counts{
		sampleCounts:                       make([]uint32, numSamples),
		generations:                        make([]uint32, numSamples),
		multiclusterMultiplicities:         make([]int32, numSamples),
		previousMulticlusterMultiplicities: make([]int32, numSamples),
	}
}

// NumSamples returns the number of samples the record holds counts for.
func (c *Counts) NumSamples() int {
	return len(c.sampleCounts)
}

// AddSampleCount increments the observed count of a sample.
func (c *Counts) AddSampleCount(sampleIdx int, n uint32) {
	atomic.AddUint32(&c.sampleCounts[sampleIdx], n)
	atomic.AddUint32(&c.generations[sampleIdx], 1)
}

// SampleCount returns the observed count of a sample.
func (c *Counts) SampleCount(sampleIdx int) uint32 {
	return atomic.LoadUint32(&c.sampleCounts[sampleIdx])
}

// SetInterclusterMultiplicity records how often the k-mer occurs in
// the genome outside any variant cluster, for samples of the given
// gender.
func (c *Counts) SetInterclusterMultiplicity(gender utils.Gender, multiplicity uint8) {
	c.interclusterMultiplicities[gender] = multiplicity
	for i := range c.generations {
		atomic.AddUint32(&c.generations[i], 1)
	}
}

// InterclusterMultiplicity returns the multiplicity outside any
// variant cluster for samples of the given gender.
func (c *Counts) InterclusterMultiplicity(gender utils.Gender) uint8 {
	return c.interclusterMultiplicities[gender]
}

// AddClusterOccurrence registers one more variant cluster containing
// the k-mer.
func (c *Counts) AddClusterOccurrence() {
	atomic.AddInt32(&c.clusterOccurrences, 1)
}

// HasMulticlusterOccurrence reports whether more than one variant
// cluster contains the k-mer.
func (c *Counts) HasMulticlusterOccurrence() bool {
	return atomic.LoadInt32(&c.clusterOccurrences) > 1
}

// MulticlusterMultiplicity returns the sum of the contributions all
// clusters sharing the k-mer have committed for a sample.
func (c *Counts) MulticlusterMultiplicity(sampleIdx int) int32 {
	return atomic.LoadInt32(&c.multiclusterMultiplicities[sampleIdx])
}

// PreviousMulticlusterMultiplicity returns the multicluster
// multiplicity of a sample as of the last snapshot.
func (c *Counts) PreviousMulticlusterMultiplicity(sampleIdx int) int32 {
	return atomic.LoadInt32(&c.previousMulticlusterMultiplicities[sampleIdx])
}

// AddMulticlusterMultiplicity applies a change of one cluster's
// contribution for a sample.
func (c *Counts) AddMulticlusterMultiplicity(sampleIdx int, delta int32) {
	if atomic.AddInt32(&c.multiclusterMultiplicities[sampleIdx], delta) < 0 {
		log.Panicf("Negative multicluster multiplicity for sample %v.", sampleIdx)
	}
	atomic.AddUint32(&c.generations[sampleIdx], 1)
}

// Generation returns a counter that changes whenever the observed
// count, an intercluster multiplicity or the multicluster multiplicity
// of a sample changes.
func (c *Counts) Generation(sampleIdx int) uint32 {
	return atomic.LoadUint32(&c.generations[sampleIdx])
}

// SnapshotMulticlusterMultiplicities copies the current multicluster
// multiplicities of all samples to the previous ones. It must not run
// concurrently with AddMulticlusterMultiplicity on the same record.
func (c *Counts) SnapshotMulticlusterMultiplicities() {
	for i := range c.multiclusterMultiplicities {
		atomic.StoreInt32(&c.previousMulticlusterMultiplicities[i], atomic.LoadInt32(&c.multiclusterMultiplicities[i]))
	}
}

// IsMulticlusterMultiplicityUpdated reports whether any cluster
// changed its contribution for a sample since the last snapshot.
func (c *Counts) IsMulticlusterMultiplicityUpdated(sampleIdx int) bool {
	return c.MulticlusterMultiplicity(sampleIdx) != c.PreviousMulticlusterMultiplicity(sampleIdx)
}
