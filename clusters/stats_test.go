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
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/exascience/kmertyper/internal"
	"github.com/exascience/kmertyper/kmers"
	"github.com/exascience/kmertyper/utils"
)

var testVariantInfos = []VariantInfo{{NumAlleles: 2}, {NumAlleles: 2}}

// newTestStatsCluster returns the test cluster with one sample of
// coverage 10 that observed k0 20 times, k1 and k2 10 times, and k3
// never.
func newTestStatsCluster(t *testing.T) (*VariantClusterHaplotypes, []*kmers.Counts, []Sample) {
	t.Helper()
	cluster, records := newTestCluster(t, 1)
	for k, count := range []uint32{20, 10, 10, 0} {
		records[k].AddSampleCount(0, count)
	}
	return cluster, records, []Sample{{Gender: utils.Female, KmerCoverage: []float64{10}}}
}

func checkStats(t *testing.T, name string, stats kmers.Stats, count uint32, mean float64) {
	t.Helper()
	if stats.Count() != count || !floats.EqualWithinAbs(stats.Mean(), mean, 1e-12) {
		t.Errorf("%v: count %v mean %v, expected count %v mean %v", name, stats.Count(), stats.Mean(), count, mean)
	}
}

func TestUpdateAlleleKmerStats(t *testing.T) {
	cluster, _, samples := newTestStatsCluster(t)
	output := NewAlleleKmerStatsTable(testVariantInfos, 1)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})

	checkStats(t, "variant 0 allele 0", output[0][0].Alleles[0], 1, 1)
	checkStats(t, "variant 0 allele 1", output[0][0].Alleles[1], 1, 1)
	checkStats(t, "variant 1 allele 0", output[1][0].Alleles[0], 2, 1)
	checkStats(t, "variant 1 allele 1", output[1][0].Alleles[1], 0, 0)

	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	checkStats(t, "accumulated variant 1 allele 0", output[1][0].Alleles[0], 4, 1)
}

func TestUpdateAlleleKmerStatsHaploid(t *testing.T) {
	cluster, _, samples := newTestStatsCluster(t)
	output := NewAlleleKmerStatsTable(testVariantInfos, 1)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{HaploidDiplotype(2)})

	// k2 has multiplicity 1 on h2, k3 multiplicity 2 and no count.
	checkStats(t, "variant 0 allele 0", output[0][0].Alleles[0], 1, 1)
	checkStats(t, "variant 1 allele 1", output[1][0].Alleles[1], 1, 0)
	if output[1][0].Alleles[1].FractionObserved() != 0 {
		t.Error("unobserved k-mer counted as observed")
	}
	checkStats(t, "variant 0 allele 1", output[0][0].Alleles[1], 0, 0)
}

func TestUpdateAlleleKmerStatsErrors(t *testing.T) {
	cluster, _, samples := newTestStatsCluster(t)
	output := NewAlleleKmerStatsTable(testVariantInfos, 1)
	expectPanic(t, "diplotypes and samples of different length", func() {
		cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, nil)
	})
	expectPanic(t, "allele index out of range", func() {
		cluster.UpdateAlleleKmerStats(output, samples, []VariantInfo{{NumAlleles: 1}, {NumAlleles: 1}}, nil, []Diplotype{{0, 1}})
	})
}

func TestKmerStatsCache(t *testing.T) {
	cluster, _, samples := newTestStatsCluster(t)
	if !cluster.KmerStatsCacheIsDirty(0) {
		t.Error("cache clean before first use")
	}
	cluster.UpdateAlleleKmerStats(NewAlleleKmerStatsTable(testVariantInfos, 1), samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	if cluster.KmerStatsCacheIsDirty(0) {
		t.Error("cache dirty after use")
	}

	h1, h2, recomputed := cluster.updateKmerStatsCache(0, Diplotype{0, 1}, &samples[0])
	if recomputed || cluster.KmerStatsCacheIsDirty(0) {
		t.Error("second use with identical arguments recomputed the cache")
	}
	checkStats(t, "cached haplotype 1 variant 1", h1[1], 1, 1)
	checkStats(t, "cached haplotype 2 variant 0", h2[0], 1, 1)

	if _, _, recomputed = cluster.updateKmerStatsCache(0, Diplotype{1, 0}, &samples[0]); !recomputed {
		t.Error("other diplotype did not recompute the cache")
	}

	cluster.InvalidateKmerStatsCaches()
	if !cluster.KmerStatsCacheIsDirty(0) {
		t.Error("InvalidateKmerStatsCaches failed")
	}
	if _, _, recomputed = cluster.updateKmerStatsCache(0, Diplotype{1, 0}, &samples[0]); !recomputed {
		t.Error("dirty cache was not recomputed")
	}
}

func TestKmerStatsCacheMulticlusterUpdates(t *testing.T) {
	a, _, shared := newSharedKmerClusters(t, 1)
	shared.AddSampleCount(0, 10)
	samples := []Sample{{Gender: utils.Male}}
	if !a.KmerStatsCacheIsDirty(0) {
		t.Error("cache clean after SampleKmerSubset")
	}
	a.UpdateAlleleKmerStats(NewAlleleKmerStatsTable(testVariantInfos, 1), samples, testVariantInfos, nil, []Diplotype{{0, 1}})

	a.UpdateMulticlusterKmerMultiplicities(Diplotype{0, 1}, Diplotype{0, 1}, 0)
	if !a.KmerStatsCacheIsDirty(0) {
		t.Error("committing a new contribution left the cache clean")
	}
	a.UpdateAlleleKmerStats(NewAlleleKmerStatsTable(testVariantInfos, 1), samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	a.UpdateMulticlusterKmerMultiplicities(Diplotype{0, 1}, Diplotype{0, 1}, 0)
	if a.KmerStatsCacheIsDirty(0) {
		t.Error("repeated update invalidated the cache")
	}
	a.UpdateMulticlusterKmerMultiplicities(Diplotype{0, 2}, Diplotype{0, 1}, 0)
	if !a.KmerStatsCacheIsDirty(0) {
		t.Error("diplotype change left the cache clean")
	}

	a.UpdateAlleleKmerStats(NewAlleleKmerStatsTable(testVariantInfos, 1), samples, testVariantInfos, nil, []Diplotype{{0, 2}})
	a.UpdateMulticlusterKmerMultiplicities(Diplotype{0, 2}, Diplotype{0, 1}, 0)
	if a.KmerStatsCacheIsDirty(0) {
		t.Error("repeated diplotype change invalidated the cache")
	}
	if _, _, recomputed := a.updateKmerStatsCache(0, Diplotype{0, 2}, &samples[0]); recomputed {
		t.Error("repeated diplotype change recomputed the cache")
	}
	a.SampleKmerSubset(internal.NewRand(4), 1, DefaultMaxHaplotypeVariantKmers, 1)
	if !a.KmerStatsCacheIsDirty(0) {
		t.Error("SampleKmerSubset left the cache clean")
	}
}

func TestKmerStatsCacheNewCounts(t *testing.T) {
	cluster, records, samples := newTestStatsCluster(t)
	output := NewAlleleKmerStatsTable(testVariantInfos, 1)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	checkStats(t, "before new counts", output[1][0].Alleles[0], 2, 1)

	records[0].AddSampleCount(0, 20)
	if !cluster.KmerStatsCacheIsDirty(0) {
		t.Error("new counts left the cache clean")
	}
	output = NewAlleleKmerStatsTable(testVariantInfos, 1)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	checkStats(t, "after new counts", output[1][0].Alleles[0], 2, 2)
	checkStats(t, "k-mers without new counts", output[0][0].Alleles[0], 1, 1)

	records[2].SetInterclusterMultiplicity(utils.Female, 1)
	output = NewAlleleKmerStatsTable(testVariantInfos, 1)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	checkStats(t, "after new intercluster multiplicity", output[0][0].Alleles[0], 1, 0.5)
}

func TestMulticlusterKmerStats(t *testing.T) {
	a, b, shared := newSharedKmerClusters(t, 1)
	shared.AddSampleCount(0, 40)
	samples := []Sample{{Gender: utils.Male, KmerCoverage: []float64{10}}}

	b.UpdateMulticlusterKmerMultiplicities(Diplotype{2, 2}, NullDiplotype, 0)
	a.UpdateMulticlusterKmerMultiplicities(Diplotype{0, 1}, NullDiplotype, 0)
	if m := a.MulticlusterKmerMultiplicity(0, Diplotype{0, 1}, 0, utils.Male); m != 4 {
		t.Fatalf("multicluster multiplicity = %v, expected 4", m)
	}
	output := NewAlleleKmerStatsTable(testVariantInfos, 1)
	a.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	checkStats(t, "shared k-mer", output[1][0].Alleles[0], 2, 1)

	b.UpdateMulticlusterKmerMultiplicities(Diplotype{0, 0}, Diplotype{2, 2}, 0)
	if !a.KmerStatsCacheIsDirty(0) {
		t.Error("another cluster's update left the cache clean")
	}
	output = NewAlleleKmerStatsTable(testVariantInfos, 1)
	a.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	checkStats(t, "shared k-mer after the other cluster left", output[1][0].Alleles[0], 2, 2)
}

// newTestNestedCluster returns a cluster with h0 = (0, 0) carrying
// nested cluster 5, on which variant 1 depends, and h1 = (1, 1).
func newTestNestedCluster(t *testing.T) *VariantClusterHaplotypes {
	t.Helper()
	haplotypes := []HaplotypeInfo{
		{VariantAlleleIndices: []uint16{0, 0}, NestedVariantClusterIndices: []uint32{5}},
		{VariantAlleleIndices: []uint16{1, 1}},
	}
	cluster, err := NewVariantClusterHaplotypes(haplotypes, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := cluster.AddNestedVariantClusterDependency(5, 1); err != nil {
		t.Fatal(err)
	}
	cluster.PartitionKmers()
	return cluster
}

func nestedInfo(ploidy utils.Ploidy, values ...float64) NestedVariantClusterInfo {
	info := NestedVariantClusterInfo{Ploidy: ploidy, KmerStats: make([]kmers.Stats, len(values))}
	for i, v := range values {
		info.KmerStats[i].AddValue(v)
	}
	return info
}

func TestNestedKmerStats(t *testing.T) {
	cluster := newTestNestedCluster(t)
	samples := []Sample{{Gender: utils.Female}}
	nestedInfos := map[uint32][]NestedVariantClusterInfo{5: {nestedInfo(utils.Diploid, 2, 3)}}
	output := NewAlleleKmerStatsTable(testVariantInfos, 1)

	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nestedInfos, []Diplotype{{0, 1}})
	checkStats(t, "first copy", output[1][0].Alleles[0], 1, 2)
	checkStats(t, "independent variant", output[0][0].Alleles[0], 0, 0)
	checkStats(t, "haplotype without nested cluster", output[1][0].Alleles[1], 0, 0)

	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nestedInfos, []Diplotype{{1, 0}})
	checkStats(t, "both copies", output[1][0].Alleles[0], 2, 2.5)

	haploidInfos := map[uint32][]NestedVariantClusterInfo{5: {nestedInfo(utils.Haploid, 4)}}
	output = NewAlleleKmerStatsTable(testVariantInfos, 1)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, haploidInfos, []Diplotype{{1, 0}})
	checkStats(t, "second copy of haploid nested cluster", output[1][0].Alleles[0], 0, 0)
	cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, haploidInfos, []Diplotype{{0, 0}})
	checkStats(t, "first copy of haploid nested cluster", output[1][0].Alleles[0], 1, 4)

	expectPanic(t, "missing nested cluster info", func() {
		cluster.UpdateAlleleKmerStats(output, samples, testVariantInfos, nil, []Diplotype{{0, 1}})
	})
}

func TestUpdateAlleleKmerStatsParallel(t *testing.T) {
	var jobs []ClusterStatsJob
	var samples []Sample
	for i := 0; i < 4; i++ {
		cluster, _, clusterSamples := newTestStatsCluster(t)
		samples = clusterSamples
		jobs = append(jobs, ClusterStatsJob{
			Cluster:      cluster,
			Output:       NewAlleleKmerStatsTable(testVariantInfos, 1),
			VariantInfos: testVariantInfos,
			Diplotypes:   []Diplotype{{0, 1}},
		})
	}
	UpdateAlleleKmerStatsParallel(jobs, samples)
	for i, job := range jobs {
		if job.Cluster.KmerStatsCacheIsDirty(0) {
			t.Errorf("job %v: cache dirty", i)
		}
		checkStats(t, "parallel variant 1 allele 0", job.Output[1][0].Alleles[0], 2, 1)
		checkStats(t, "parallel variant 0 allele 1", job.Output[0][0].Alleles[1], 1, 1)
	}
}
