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
	"runtime"
	"sync/atomic"

	"github.com/exascience/pargo/parallel"
	"github.com/exascience/pargo/sync"
)

// Index maps k-mers to their shared Counts records. It is safe for
// concurrent use.
type Index struct {
	numSamples int
	size       int64
	table      *sync.Map
}

// NewIndex creates an empty index for the given number of samples.
func NewIndex(numSamples int) *Index {
	return &Index{
		numSamples: numSamples,
		table:      sync.NewMap(16 * runtime.GOMAXPROCS(0)),
	}
}

// NumSamples returns the number of samples per record.
func (idx *Index) NumSamples() int {
	return idx.numSamples
}

// Len returns the number of k-mers in the index.
func (idx *Index) Len() int {
	return int(atomic.LoadInt64(&idx.size))
}

// Load returns the record of a k-mer, if present.
func (idx *Index) Load(kmer Kmer) (*Counts, bool) {
	entry, ok := idx.table.Load(kmer)
	if !ok {
		return nil, false
	}
	return entry.(*Counts), true
}

// LoadOrStore returns the record of a k-mer, creating it if
// necessary. The boolean result is true if the record already existed.
func (idx *Index) LoadOrStore(kmer Kmer) (*Counts, bool) {
	if counts, ok := idx.Load(kmer); ok {
		return counts, true
	}
	entry, loaded := idx.table.LoadOrStore(kmer, NewCounts(idx.numSamples))
	if !loaded {
		atomic.AddInt64(&idx.size, 1)
	}
	return entry.(*Counts), loaded
}

// Range calls f for each k-mer and its record until f returns false.
func (idx *Index) Range(f func(kmer Kmer, counts *Counts) bool) {
	idx.table.Range(func(key, value interface{}) bool {
		return f(key.(Kmer), value.(*Counts))
	})
}

// SnapshotMulticlusterMultiplicities takes a snapshot of the
// multicluster multiplicities of all records. The outer sampler calls
// it between sweeps, while no cluster updates its contributions.
func (idx *Index) SnapshotMulticlusterMultiplicities() {
	records := make([]*Counts, 0, idx.Len())
	idx.Range(func(_ Kmer, counts *Counts) bool {
		records = append(records, counts)
		return true
	})
	parallel.Range(0, len(records), 0, func(low, high int) {
		for _, counts := range records[low:high] {
			counts.SnapshotMulticlusterMultiplicities()
		}
	})
}
