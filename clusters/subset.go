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

package clusters

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/exascience/kmertyper/internal"
)

// SampleKmerSubset redraws the k-mer subsets scored by the sampler.
// Each unique and multicluster k-mer is kept independently with
// probability rate, unless keeping it would give some variant allele
// of some haplotype more than maxHaplotypeVariantKmers k-mers. K-mers
// are considered in index order, unique ones first, so the outcome
// only depends on the state of rng.
//
// The contributions this cluster committed to the shared multicluster
// multiplicities are withdrawn, the per-sample bookkeeping is
// reallocated for numSamples samples, and all statistics caches are
// marked dirty. Empty subsets are valid.
func (c *VariantClusterHaplotypes) SampleKmerSubset(rng *internal.Rand, rate float64, maxHaplotypeVariantKmers uint32, numSamples int) {
	c.checkPartitioned()
	if numSamples < 0 {
		log.Panicf("Invalid number of samples %v.", numSamples)
	}

	rows, _ := c.sampleMulticlusterKmerMultiplicities.Dims()
	for s := 0; s < rows; s++ {
		for _, k := range c.multiclusterKmerSubsetIndices {
			if m := c.sampleMulticlusterKmerMultiplicities.At(s, int(k)); m > 0 {
				c.kmers[k].Counts.AddMulticlusterMultiplicity(s, -int32(m))
			}
		}
	}

	haplotypeVariantKmers := make([][]uint32, c.numVariants)
	for v := range haplotypeVariantKmers {
		haplotypeVariantKmers[v] = make([]uint32, len(c.haplotypes))
	}
	c.uniqueKmerSubsetIndices = c.sampleKmerIndices(c.uniqueKmerSubsetIndices[:0], c.uniqueKmerIndices, rng, rate, haplotypeVariantKmers, maxHaplotypeVariantKmers)
	c.multiclusterKmerSubsetIndices = c.sampleKmerIndices(c.multiclusterKmerSubsetIndices[:0], c.multiclusterKmerIndices, rng, rate, haplotypeVariantKmers, maxHaplotypeVariantKmers)

	c.sampleMulticlusterKmerMultiplicities = internal.NewUint8Matrix(numSamples, len(c.kmers))
	c.updatedMulticlusterKmers = make([]*bitset.BitSet, numSamples)
	for s := range c.updatedMulticlusterKmers {
		c.updatedMulticlusterKmers[s] = bitset.New(uint(len(c.kmers)))
	}
	if len(c.kmerStatsCaches) != numSamples {
		c.kmerStatsCaches = make([]KmerStatsCache, numSamples)
		for s := range c.kmerStatsCaches {
			c.kmerStatsCaches[s] = newKmerStatsCache(c.numVariants)
		}
	} else {
		c.InvalidateKmerStatsCaches()
	}

	log.Debugf("Sampled %v of %v unique and %v of %v multicluster k-mers.",
		len(c.uniqueKmerSubsetIndices), len(c.uniqueKmerIndices),
		len(c.multiclusterKmerSubsetIndices), len(c.multiclusterKmerIndices))
}

func (c *VariantClusterHaplotypes) sampleKmerIndices(subset, indices []uint32, rng *internal.Rand, rate float64, haplotypeVariantKmers [][]uint32, maxHaplotypeVariantKmers uint32) []uint32 {
	for _, k := range indices {
		switch {
		case rate <= 0:
			return subset
		case rate < 1:
			if rng.Float64() >= rate {
				continue
			}
		}
		variantHaplotypes := c.kmers[k].VariantHaplotypeIndices
		if isMaxHaplotypeVariantKmer(haplotypeVariantKmers, maxHaplotypeVariantKmers, variantHaplotypes) {
			continue
		}
		for _, vh := range variantHaplotypes {
			for h, ok := vh.Haplotypes.NextSet(0); ok; h, ok = vh.Haplotypes.NextSet(h + 1) {
				haplotypeVariantKmers[vh.VariantIdx][h]++
			}
		}
		subset = append(subset, k)
	}
	return subset
}

// isMaxHaplotypeVariantKmer reports whether any variant allele of any
// haplotype carrying the k-mer already has maxHaplotypeVariantKmers
// k-mers. K-mers not attributed to any variant are never capped.
func isMaxHaplotypeVariantKmer(haplotypeVariantKmers [][]uint32, maxHaplotypeVariantKmers uint32, variantHaplotypes []VariantHaplotypes) bool {
	for _, vh := range variantHaplotypes {
		counts := haplotypeVariantKmers[vh.VariantIdx]
		for h, ok := vh.Haplotypes.NextSet(0); ok; h, ok = vh.Haplotypes.NextSet(h + 1) {
			if counts[h] >= maxHaplotypeVariantKmers {
				return true
			}
		}
	}
	return false
}
