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
	"fmt"

	"github.com/bits-and-blooms/bitset"
	logging "github.com/op/go-logging"

	"github.com/exascience/kmertyper/internal"
	"github.com/exascience/kmertyper/kmers"
	"github.com/exascience/kmertyper/utils"
)

var log = logging.MustGetLogger("clusters")

// VariantClusterHaplotypes holds the haplotypes of one variant cluster
// together with the k-mers that distinguish them, and answers the
// k-mer multiplicity queries of the Gibbs sampler.
//
// A VariantClusterHaplotypes is not safe for concurrent use. Different
// clusters may be processed concurrently; they only share the
// kmers.Counts records of the k-mer index.
type VariantClusterHaplotypes struct {
	numVariants int
	haplotypes  []HaplotypeInfo

	// haplotypes x k-mers
	haplotypeKmerMultiplicities internal.Uint8Matrix

	kmers []KmerInfo

	uniqueKmerIndices       []uint32
	multiclusterKmerIndices []uint32
	multiclusterKmers       *bitset.BitSet

	uniqueKmerSubsetIndices       []uint32
	multiclusterKmerSubsetIndices []uint32

	// samples x k-mers, the multiplicity this cluster has committed
	// to the shared records of its multicluster subset k-mers
	sampleMulticlusterKmerMultiplicities internal.Uint8Matrix
	updatedMulticlusterKmers             []*bitset.BitSet

	kmerStatsCaches []KmerStatsCache

	nestedVariantClusterDependency NestedVariantClusterDependency

	partitioned bool
}

// NewVariantClusterHaplotypes creates a cluster over numVariants
// variants with the given haplotypes and no k-mers.
func NewVariantClusterHaplotypes(haplotypes []HaplotypeInfo, numVariants int) (*VariantClusterHaplotypes, error) {
	if numVariants <= 0 || numVariants >= utils.AlleleMissing {
		return nil, fmt.Errorf("invalid number of variants %v", numVariants)
	}
	if len(haplotypes) == 0 || len(haplotypes) >= utils.HaplotypeMissing {
		return nil, fmt.Errorf("invalid number of haplotypes %v", len(haplotypes))
	}
	for i, h := range haplotypes {
		if len(h.VariantAlleleIndices) != numVariants {
			return nil, fmt.Errorf("haplotype %v has %v allele indices for %v variants", i, len(h.VariantAlleleIndices), numVariants)
		}
	}
	return &VariantClusterHaplotypes{
		numVariants:                    numVariants,
		haplotypes:                     haplotypes,
		haplotypeKmerMultiplicities:    internal.NewUint8Matrix(len(haplotypes), 0),
		nestedVariantClusterDependency: make(NestedVariantClusterDependency),
	}, nil
}

// AddKmer adds a k-mer with its multiplicity on each haplotype and
// returns its index. Every haplotype flagged in variantHaplotypes must
// contain the k-mer at least once.
func (c *VariantClusterHaplotypes) AddKmer(counts *kmers.Counts, biasIdx uint8, multiplicities []uint8, variantHaplotypes []VariantHaplotypes) (int, error) {
	if counts == nil {
		return -1, fmt.Errorf("missing k-mer counts")
	}
	if len(multiplicities) != len(c.haplotypes) {
		return -1, fmt.Errorf("%v multiplicities for %v haplotypes", len(multiplicities), len(c.haplotypes))
	}
	for _, vh := range variantHaplotypes {
		if int(vh.VariantIdx) >= c.numVariants {
			return -1, fmt.Errorf("variant index %v out of range for %v variants", vh.VariantIdx, c.numVariants)
		}
		if vh.Haplotypes == nil {
			return -1, fmt.Errorf("missing haplotype flags for variant %v", vh.VariantIdx)
		}
		if h, ok := vh.Haplotypes.NextSet(uint(len(c.haplotypes))); ok {
			return -1, fmt.Errorf("haplotype index %v out of range for %v haplotypes", h, len(c.haplotypes))
		}
		for h, ok := vh.Haplotypes.NextSet(0); ok; h, ok = vh.Haplotypes.NextSet(h + 1) {
			if multiplicities[h] == 0 {
				return -1, fmt.Errorf("haplotype %v flagged for variant %v does not contain the k-mer", h, vh.VariantIdx)
			}
		}
	}
	c.haplotypeKmerMultiplicities.AppendColumn(multiplicities)
	c.kmers = append(c.kmers, KmerInfo{
		Counts:                  counts,
		BiasIdx:                 biasIdx,
		VariantHaplotypeIndices: variantHaplotypes,
	})
	counts.AddClusterOccurrence()
	c.partitioned = false
	return len(c.kmers) - 1, nil
}

// AddNestedVariantClusterDependency records that the allele of a
// variant depends on the resolution of a nested cluster.
func (c *VariantClusterHaplotypes) AddNestedVariantClusterDependency(nestedIdx uint32, variantIdx uint16) error {
	if int(variantIdx) >= c.numVariants {
		return fmt.Errorf("variant index %v out of range for %v variants", variantIdx, c.numVariants)
	}
	dependency := c.nestedVariantClusterDependency[nestedIdx]
	for _, v := range dependency {
		if v == variantIdx {
			return nil
		}
	}
	c.nestedVariantClusterDependency[nestedIdx] = append(dependency, variantIdx)
	return nil
}

// PartitionKmers splits the k-mers into those unique to this cluster
// and those shared with other clusters, and resets the subsets to the
// full sets. All clusters must have added their k-mers before any
// cluster is partitioned.
func (c *VariantClusterHaplotypes) PartitionKmers() {
	c.uniqueKmerIndices = c.uniqueKmerIndices[:0]
	c.multiclusterKmerIndices = c.multiclusterKmerIndices[:0]
	c.multiclusterKmers = bitset.New(uint(len(c.kmers)))
	for k := range c.kmers {
		if c.kmers[k].Counts.HasMulticlusterOccurrence() {
			c.multiclusterKmerIndices = append(c.multiclusterKmerIndices, uint32(k))
			c.multiclusterKmers.Set(uint(k))
		} else {
			c.uniqueKmerIndices = append(c.uniqueKmerIndices, uint32(k))
		}
	}
	c.uniqueKmerSubsetIndices = append([]uint32(nil), c.uniqueKmerIndices...)
	c.multiclusterKmerSubsetIndices = append([]uint32(nil), c.multiclusterKmerIndices...)
	c.partitioned = true
}

// NumVariants returns the number of variants.
func (c *VariantClusterHaplotypes) NumVariants() int {
	return c.numVariants
}

// NumHaplotypes returns the number of haplotypes.
func (c *VariantClusterHaplotypes) NumHaplotypes() int {
	return len(c.haplotypes)
}

// Haplotype returns haplotype h.
func (c *VariantClusterHaplotypes) Haplotype(h int) *HaplotypeInfo {
	return &c.haplotypes[h]
}

// NumKmers returns the number of k-mers.
func (c *VariantClusterHaplotypes) NumKmers() int {
	return len(c.kmers)
}

// Kmer returns k-mer k.
func (c *VariantClusterHaplotypes) Kmer(k int) *KmerInfo {
	return &c.kmers[k]
}

// HaplotypeKmerMultiplicity returns how often haplotype h contains k-mer k.
func (c *VariantClusterHaplotypes) HaplotypeKmerMultiplicity(h, k int) uint8 {
	return c.haplotypeKmerMultiplicities.At(h, k)
}

// UniqueKmerIndices returns the k-mers contained in this cluster only.
func (c *VariantClusterHaplotypes) UniqueKmerIndices() []uint32 {
	return c.uniqueKmerIndices
}

// MulticlusterKmerIndices returns the k-mers shared with other clusters.
func (c *VariantClusterHaplotypes) MulticlusterKmerIndices() []uint32 {
	return c.multiclusterKmerIndices
}

// UniqueKmerSubset returns the current subset of unique k-mers.
func (c *VariantClusterHaplotypes) UniqueKmerSubset() []uint32 {
	return c.uniqueKmerSubsetIndices
}

// MulticlusterKmerSubset returns the current subset of multicluster k-mers.
func (c *VariantClusterHaplotypes) MulticlusterKmerSubset() []uint32 {
	return c.multiclusterKmerSubsetIndices
}

// NestedVariantClusterDependency returns the variants depending on
// each nested cluster.
func (c *VariantClusterHaplotypes) NestedVariantClusterDependency() NestedVariantClusterDependency {
	return c.nestedVariantClusterDependency
}

func (c *VariantClusterHaplotypes) checkPartitioned() {
	if !c.partitioned {
		log.Panic("K-mers used before PartitionKmers.")
	}
}

func (c *VariantClusterHaplotypes) checkHaplotype(h uint16) {
	if int(h) >= len(c.haplotypes) {
		log.Panicf("Haplotype index %v out of range for %v haplotypes.", h, len(c.haplotypes))
	}
}

func (c *VariantClusterHaplotypes) checkSample(sampleIdx int) {
	if rows, _ := c.sampleMulticlusterKmerMultiplicities.Dims(); sampleIdx < 0 || sampleIdx >= rows {
		log.Panicf("Sample index %v out of range for %v samples, missing SampleKmerSubset?", sampleIdx, rows)
	}
}

// diplotypeKmerMultiplicity sums the multiplicities of a k-mer on both
// haplotypes of a diplotype. Missing haplotypes contribute nothing.
func (c *VariantClusterHaplotypes) diplotypeKmerMultiplicity(kmerIdx int, diplotype Diplotype) (multiplicity uint8) {
	column := c.haplotypeKmerMultiplicities.Column(kmerIdx)
	for _, h := range diplotype.Haplotypes() {
		if h == utils.HaplotypeMissing {
			continue
		}
		c.checkHaplotype(h)
		multiplicity = internal.SaturatingAdd8(multiplicity, column[h])
	}
	return multiplicity
}

// UniqueKmerMultiplicity returns the expected multiplicity of a k-mer
// contained in this cluster only: its multiplicity on the diplotype
// plus its multiplicity elsewhere in the genome for the given gender.
func (c *VariantClusterHaplotypes) UniqueKmerMultiplicity(kmerIdx int, diplotype Diplotype, gender utils.Gender) uint8 {
	return internal.SaturatingAdd8(c.diplotypeKmerMultiplicity(kmerIdx, diplotype), c.kmers[kmerIdx].Counts.InterclusterMultiplicity(gender))
}

// MulticlusterKmerMultiplicity returns the expected multiplicity of a
// k-mer shared with other clusters if this cluster switched the sample
// to the given diplotype: the contributions committed by all other
// clusters, plus the diplotype's, plus the intercluster multiplicity.
func (c *VariantClusterHaplotypes) MulticlusterKmerMultiplicity(kmerIdx int, diplotype Diplotype, sampleIdx int, gender utils.Gender) uint8 {
	c.checkSample(sampleIdx)
	counts := c.kmers[kmerIdx].Counts
	multiplicity := int64(counts.MulticlusterMultiplicity(sampleIdx))
	multiplicity -= int64(c.sampleMulticlusterKmerMultiplicities.At(sampleIdx, kmerIdx))
	multiplicity += int64(c.diplotypeKmerMultiplicity(kmerIdx, diplotype))
	multiplicity += int64(counts.InterclusterMultiplicity(gender))
	return internal.Clamp8(multiplicity)
}

// PreviousMulticlusterKmerMultiplicity is MulticlusterKmerMultiplicity
// against the multicluster multiplicities of the last snapshot, when
// this cluster had committed previousDiplotype for the sample.
func (c *VariantClusterHaplotypes) PreviousMulticlusterKmerMultiplicity(kmerIdx int, diplotype, previousDiplotype Diplotype, sampleIdx int, gender utils.Gender) uint8 {
	c.checkSample(sampleIdx)
	counts := c.kmers[kmerIdx].Counts
	multiplicity := int64(counts.PreviousMulticlusterMultiplicity(sampleIdx))
	multiplicity -= int64(c.diplotypeKmerMultiplicity(kmerIdx, previousDiplotype))
	multiplicity += int64(c.diplotypeKmerMultiplicity(kmerIdx, diplotype))
	multiplicity += int64(counts.InterclusterMultiplicity(gender))
	return internal.Clamp8(multiplicity)
}
