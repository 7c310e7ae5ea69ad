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
	"github.com/exascience/pargo/parallel"

	"github.com/exascience/kmertyper/internal"
)

// SampleKmerSubsets redraws the k-mer subsets of all clusters in
// parallel. Cluster i draws from a generator seeded with opts.Seed
// offset by i, so the result does not depend on scheduling. It returns
// the total number of k-mers kept.
func SampleKmerSubsets(clusters []*VariantClusterHaplotypes, opts Options, numSamples int) (int, error) {
	if err := opts.Validate(); err != nil {
		return 0, err
	}
	total := parallel.RangeReduceInt(0, len(clusters), 0, func(low, high int) (result int) {
		for i := low; i < high; i++ {
			cluster := clusters[i]
			cluster.SampleKmerSubset(internal.NewOffsetRand(opts.Seed, i), opts.KmerSubsamplingRate, opts.MaxHaplotypeVariantKmers, numSamples)
			result += len(cluster.uniqueKmerSubsetIndices) + len(cluster.multiclusterKmerSubsetIndices)
		}
		return result
	}, func(x, y int) int {
		return x + y
	})
	log.Debugf("Sampled %v k-mers in %v variant clusters.", total, len(clusters))
	return total, nil
}

// A ClusterStatsJob is one call of UpdateAlleleKmerStats.
type ClusterStatsJob struct {
	Cluster      *VariantClusterHaplotypes
	Output       [][]AlleleKmerStats
	VariantInfos []VariantInfo
	NestedInfos  map[uint32][]NestedVariantClusterInfo
	Diplotypes   []Diplotype
}

// UpdateAlleleKmerStatsParallel runs the jobs in parallel. Jobs must
// not share clusters or output tables.
func UpdateAlleleKmerStatsParallel(jobs []ClusterStatsJob, samples []Sample) {
	parallel.Range(0, len(jobs), 0, func(low, high int) {
		for i := low; i < high; i++ {
			job := &jobs[i]
			job.Cluster.UpdateAlleleKmerStats(job.Output, samples, job.VariantInfos, job.NestedInfos, job.Diplotypes)
		}
	})
}
