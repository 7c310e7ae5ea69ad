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
	logging "github.com/op/go-logging"

	"github.com/exascience/kmertyper/kmers"
	"github.com/exascience/kmertyper/utils"
)

// KmerStatsCacheIsDirty reports whether the statistics cache of a
// sample will be recomputed on its next use: it was invalidated, never
// filled, or a k-mer record it depends on changed since it was filled.
func (c *VariantClusterHaplotypes) KmerStatsCacheIsDirty(sampleIdx int) bool {
	if sampleIdx >= len(c.kmerStatsCaches) {
		return true
	}
	cache := &c.kmerStatsCaches[sampleIdx]
	return cache.IsDirty() || cache.generation != c.kmerGeneration(sampleIdx)
}

// InvalidateKmerStatsCaches marks the statistics caches of all samples
// dirty.
func (c *VariantClusterHaplotypes) InvalidateKmerStatsCaches() {
	for s := range c.kmerStatsCaches {
		c.kmerStatsCaches[s].invalidate()
	}
}

func (c *VariantClusterHaplotypes) ensureKmerStatsCaches(numSamples int) {
	for len(c.kmerStatsCaches) < numSamples {
		c.kmerStatsCaches = append(c.kmerStatsCaches, newKmerStatsCache(c.numVariants))
	}
}

// kmerGeneration sums the generations of a sample over all k-mer
// records of the cluster.
func (c *VariantClusterHaplotypes) kmerGeneration(sampleIdx int) (generation uint64) {
	for k := range c.kmers {
		generation += uint64(c.kmers[k].Counts.Generation(sampleIdx))
	}
	return generation
}

// kmerMultiplicity returns the expected multiplicity of a k-mer for a
// sample with the given diplotype: the unique multiplicity for k-mers
// of this cluster only, the multicluster one including the
// contributions of all other clusters otherwise.
func (c *VariantClusterHaplotypes) kmerMultiplicity(kmerIdx int, diplotype Diplotype, sampleIdx int, gender utils.Gender) uint8 {
	if c.multiclusterKmers.Test(uint(kmerIdx)) {
		return c.MulticlusterKmerMultiplicity(kmerIdx, diplotype, sampleIdx, gender)
	}
	return c.UniqueKmerMultiplicity(kmerIdx, diplotype, gender)
}

// updateKmerStatsCache returns the per-variant k-mer statistics of
// both haplotypes of the sample's diplotype, recomputing them only if
// the cache is stale.
func (c *VariantClusterHaplotypes) updateKmerStatsCache(sampleIdx int, diplotype Diplotype, sample *Sample) (haplotype1, haplotype2 []kmers.Stats, recomputed bool) {
	return c.kmerStatsCaches[sampleIdx].get(diplotype, sample.Gender, c.kmerGeneration(sampleIdx), func(haplotype1, haplotype2 []kmers.Stats) {
		for k := range c.kmers {
			c.addKmerStats(k, diplotype, sampleIdx, sample, haplotype1, haplotype2)
		}
	})
}

// addKmerStats adds the normalized count of one k-mer to the variant
// slots of each diplotype haplotype that carries it.
func (c *VariantClusterHaplotypes) addKmerStats(kmerIdx int, diplotype Diplotype, sampleIdx int, sample *Sample, haplotype1, haplotype2 []kmers.Stats) {
	info := &c.kmers[kmerIdx]
	var value float64
	valueSet := false
	for _, vh := range info.VariantHaplotypeIndices {
		for i, h := range diplotype.Haplotypes() {
			if h == utils.HaplotypeMissing || !vh.Haplotypes.Test(uint(h)) {
				continue
			}
			if !valueSet {
				multiplicity := c.kmerMultiplicity(kmerIdx, diplotype, sampleIdx, sample.Gender)
				if multiplicity == 0 {
					multiplicity = 1
				}
				value = float64(info.Counts.SampleCount(sampleIdx)) / (float64(multiplicity) * sample.kmerCoverage(info.BiasIdx))
				valueSet = true
			}
			if i == 0 {
				haplotype1[vh.VariantIdx].AddValue(value)
			} else {
				haplotype2[vh.VariantIdx].AddValue(value)
			}
		}
	}
}

// UpdateAlleleKmerStats adds, for every sample, the k-mer statistics
// of each haplotype of its diplotype to the alleles that haplotype
// carries, and folds in the statistics of nested clusters for the
// variants depending on them. output is indexed [variant][sample], see
// NewAlleleKmerStatsTable; nestedInfos holds one entry per sample for
// each nested cluster index.
func (c *VariantClusterHaplotypes) UpdateAlleleKmerStats(output [][]AlleleKmerStats, samples []Sample, variantInfos []VariantInfo, nestedInfos map[uint32][]NestedVariantClusterInfo, diplotypes []Diplotype) {
	if len(diplotypes) != len(samples) {
		log.Panicf("%v diplotypes for %v samples.", len(diplotypes), len(samples))
	}
	if len(variantInfos) != c.numVariants || len(output) != c.numVariants {
		log.Panicf("%v variant infos and %v output rows for %v variants.", len(variantInfos), len(output), c.numVariants)
	}
	c.checkPartitioned()
	c.ensureKmerStatsCaches(len(samples))

	for s := range samples {
		sample := &samples[s]
		diplotype := diplotypes[s]
		haplotype1, haplotype2, recomputed := c.updateKmerStatsCache(s, diplotype, sample)
		if recomputed && log.IsEnabledFor(logging.DEBUG) {
			log.Debugf("Recomputed k-mer statistics of sample %v.", s)
		}
		for i, h := range diplotype.Haplotypes() {
			if h == utils.HaplotypeMissing {
				continue
			}
			c.checkHaplotype(h)
			stats := haplotype1
			if i == 1 {
				stats = haplotype2
			}
			c.addHaplotypeKmerStats(output, stats, variantInfos, s, c.haplotypes[h].VariantAlleleIndices)
			c.addNestedKmerStats(output, nestedInfos, variantInfos, s, i, &c.haplotypes[h])
		}
	}
}

func (c *VariantClusterHaplotypes) addHaplotypeKmerStats(output [][]AlleleKmerStats, stats []kmers.Stats, variantInfos []VariantInfo, sampleIdx int, alleleIndices []uint16) {
	for v, allele := range alleleIndices {
		if allele == utils.AlleleMissing {
			continue
		}
		checkAllele(variantInfos, v, allele)
		output[v][sampleIdx].Alleles[allele].Merge(stats[v])
	}
}

func (c *VariantClusterHaplotypes) addNestedKmerStats(output [][]AlleleKmerStats, nestedInfos map[uint32][]NestedVariantClusterInfo, variantInfos []VariantInfo, sampleIdx, copyIdx int, haplotype *HaplotypeInfo) {
	for _, nestedIdx := range haplotype.NestedVariantClusterIndices {
		variants, ok := c.nestedVariantClusterDependency[nestedIdx]
		if !ok {
			continue
		}
		infos, ok := nestedInfos[nestedIdx]
		if !ok || sampleIdx >= len(infos) {
			log.Panicf("Missing nested variant cluster info for cluster %v and sample %v.", nestedIdx, sampleIdx)
		}
		info := &infos[sampleIdx]
		if copyIdx >= info.Ploidy.Copies() {
			continue
		}
		if len(info.KmerStats) != info.Ploidy.Copies() {
			log.Panicf("Nested variant cluster %v has %v k-mer stats for ploidy %v.", nestedIdx, len(info.KmerStats), info.Ploidy)
		}
		for _, v := range variants {
			c.addNestedHaplotypeKmerStats(output, info.KmerStats[copyIdx], variantInfos, v, haplotype.VariantAlleleIndices[v], sampleIdx)
		}
	}
}

func (c *VariantClusterHaplotypes) addNestedHaplotypeKmerStats(output [][]AlleleKmerStats, stats kmers.Stats, variantInfos []VariantInfo, variantIdx, allele uint16, sampleIdx int) {
	if allele == utils.AlleleMissing {
		return
	}
	checkAllele(variantInfos, int(variantIdx), allele)
	output[variantIdx][sampleIdx].Alleles[allele].Merge(stats)
}

func checkAllele(variantInfos []VariantInfo, variantIdx int, allele uint16) {
	if int(allele) >= variantInfos[variantIdx].NumAlleles {
		log.Panicf("Allele index %v out of range for variant %v with %v alleles.", allele, variantIdx, variantInfos[variantIdx].NumAlleles)
	}
}
