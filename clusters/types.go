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

	"github.com/exascience/kmertyper/kmers"
	"github.com/exascience/kmertyper/utils"
)

// A Diplotype is the pair of haplotypes a sample carries at a variant
// cluster. Haploid samples carry utils.HaplotypeMissing as second
// haplotype, samples with null ploidy carry it twice.
type Diplotype struct {
	First, Second uint16
}

// HaploidDiplotype returns the diplotype of a haploid sample.
func HaploidDiplotype(haplotype uint16) Diplotype {
	return Diplotype{haplotype, utils.HaplotypeMissing}
}

// NullDiplotype is the diplotype of a sample with null ploidy.
var NullDiplotype = Diplotype{utils.HaplotypeMissing, utils.HaplotypeMissing}

// Haplotypes returns both haplotypes, first one first.
func (d Diplotype) Haplotypes() [2]uint16 {
	return [2]uint16{d.First, d.Second}
}

// Ploidy returns the number of non-missing haplotypes.
func (d Diplotype) Ploidy() utils.Ploidy {
	ploidy := utils.Null
	for _, h := range d.Haplotypes() {
		if h != utils.HaplotypeMissing {
			ploidy++
		}
	}
	return ploidy
}

// HaplotypeInfo is one combination of alleles across the variants of a
// cluster.
type HaplotypeInfo struct {
	// VariantAlleleIndices holds one allele index per variant, or
	// utils.AlleleMissing where the allele is unresolved.
	VariantAlleleIndices []uint16

	// NestedVariantClusterIndices lists the nested clusters whose
	// haplotypes this haplotype carries.
	NestedVariantClusterIndices []uint32
}

// NewHaplotypeInfo returns a haplotype with all alleles unresolved.
func NewHaplotypeInfo(numVariants int) HaplotypeInfo {
	indices := make([]uint16, numVariants)
	for i := range indices {
		indices[i] = utils.AlleleMissing
	}
	return HaplotypeInfo{VariantAlleleIndices: indices}
}

// VariantHaplotypes records which haplotypes carry a k-mer on the
// allele of one variant.
type VariantHaplotypes struct {
	VariantIdx uint16
	Haplotypes *bitset.BitSet
}

// KmerInfo is one k-mer tracked by a variant cluster.
type KmerInfo struct {
	// Counts is shared with the k-mer index and all other clusters
	// containing the k-mer.
	Counts *kmers.Counts

	// BiasIdx selects the coverage of the k-mer's bias bin.
	BiasIdx uint8

	VariantHaplotypeIndices []VariantHaplotypes
}

// NestedVariantClusterDependency maps a nested cluster to the
// variants of its parent whose alleles depend on it.
type NestedVariantClusterDependency map[uint32][]uint16

// NestedVariantClusterInfo holds the k-mer statistics a nested cluster
// hands up to its parent for one sample, one entry per chromosome copy.
type NestedVariantClusterInfo struct {
	Ploidy    utils.Ploidy
	KmerStats []kmers.Stats
}

// Sample describes one sequenced sample.
type Sample struct {
	Gender utils.Gender

	// KmerCoverage is the expected count of a single-copy k-mer,
	// per bias index.
	KmerCoverage []float64
}

func (s *Sample) kmerCoverage(biasIdx uint8) float64 {
	if int(biasIdx) < len(s.KmerCoverage) {
		if coverage := s.KmerCoverage[biasIdx]; coverage > 0 {
			return coverage
		}
	}
	return 1
}

// VariantInfo describes one variant of a cluster.
type VariantInfo struct {
	NumAlleles int
}

// AlleleKmerStats accumulates the k-mer statistics of the alleles of
// one variant in one sample.
type AlleleKmerStats struct {
	Alleles []kmers.Stats
}

// NewAlleleKmerStatsTable allocates empty statistics for every variant
// and sample, indexed [variant][sample].
func NewAlleleKmerStatsTable(variantInfos []VariantInfo, numSamples int) [][]AlleleKmerStats {
	table := make([][]AlleleKmerStats, len(variantInfos))
	for v, info := range variantInfos {
		table[v] = make([]AlleleKmerStats, numSamples)
		for s := range table[v] {
			table[v][s].Alleles = make([]kmers.Stats, info.NumAlleles)
		}
	}
	return table
}
