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
	"github.com/exascience/kmertyper/kmers"
	"github.com/exascience/kmertyper/utils"
)

type cacheState uint8

const (
	cacheDirty cacheState = iota
	cacheClean
)

// KmerStatsCache holds, for one sample, the k-mer statistics of each
// variant on both haplotypes of the sample's diplotype. The only way to
// read it is get, which recomputes stale contents first.
//
// The generation is the sum of the sample's kmers.Counts generations
// over the cluster's k-mers at fill time. Generations only grow, so the
// sum changes whenever any record changes.
type KmerStatsCache struct {
	state      cacheState
	diplotype  Diplotype
	gender     utils.Gender
	generation uint64
	haplotype1 []kmers.Stats
	haplotype2 []kmers.Stats
}

func newKmerStatsCache(numVariants int) KmerStatsCache {
	return KmerStatsCache{
		state:      cacheDirty,
		haplotype1: make([]kmers.Stats, numVariants),
		haplotype2: make([]kmers.Stats, numVariants),
	}
}

// IsDirty reports whether the cache was invalidated or never filled.
func (c *KmerStatsCache) IsDirty() bool {
	return c.state == cacheDirty
}

func (c *KmerStatsCache) isCurrent(diplotype Diplotype, gender utils.Gender, generation uint64) bool {
	return c.state == cacheClean && c.diplotype == diplotype && c.gender == gender && c.generation == generation
}

func (c *KmerStatsCache) invalidate() {
	c.state = cacheDirty
}

// get returns the statistics for the given diplotype, gender and
// count generation. If the cache is dirty or was filled for anything
// else, it is cleared and refilled by fill first.
func (c *KmerStatsCache) get(diplotype Diplotype, gender utils.Gender, generation uint64, fill func(haplotype1, haplotype2 []kmers.Stats)) (haplotype1, haplotype2 []kmers.Stats, recomputed bool) {
	if c.isCurrent(diplotype, gender, generation) {
		return c.haplotype1, c.haplotype2, false
	}
	for i := range c.haplotype1 {
		c.haplotype1[i].Reset()
		c.haplotype2[i].Reset()
	}
	fill(c.haplotype1, c.haplotype2)
	c.state = cacheClean
	c.diplotype = diplotype
	c.gender = gender
	c.generation = generation
	return c.haplotype1, c.haplotype2, true
}
