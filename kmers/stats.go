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
	"github.com/mingzhi/gomath/stat/desc"
)

// Stats is a running statistic over per-k-mer values of one sample,
// such as k-mer counts normalized by their expected coverage. The zero
// value is empty. Copies share their accumulators, so add values only
// through the original and combine statistics with Merge.
type Stats struct {
	mean     *desc.Mean
	variance *desc.Variance
	observed uint32
}

func (s *Stats) init() {
	if s.mean == nil {
		s.mean = desc.NewMean()
		s.variance = desc.NewVariance()
	}
}

// AddValue adds one value. Values greater than zero count as
// observed k-mers.
func (s *Stats) AddValue(value float64) {
	s.init()
	s.mean.Increment(value)
	s.variance.Increment(value)
	if value > 0 {
		s.observed++
	}
}

// Merge adds all values of another statistic.
func (s *Stats) Merge(other Stats) {
	if other.Count() == 0 {
		return
	}
	s.init()
	s.mean.Append(other.mean)
	s.variance.Append(other.variance)
	s.observed += other.observed
}

// Reset removes all values.
func (s *Stats) Reset() {
	if s.mean != nil {
		s.mean.Clear()
		s.variance.Clear()
	}
	s.observed = 0
}

// Count returns the number of values.
func (s Stats) Count() uint32 {
	if s.mean == nil {
		return 0
	}
	return uint32(s.mean.GetN())
}

// Mean returns the mean value, or 0 without values.
func (s Stats) Mean() float64 {
	if s.Count() == 0 {
		return 0
	}
	return s.mean.GetResult()
}

// Variance returns the population variance, or 0 without values.
func (s Stats) Variance() float64 {
	if s.Count() == 0 {
		return 0
	}
	return s.variance.GetResult()
}

// FractionObserved returns the fraction of values greater than zero,
// or 0 without values.
func (s Stats) FractionObserved() float64 {
	if s.Count() == 0 {
		return 0
	}
	return float64(s.observed) / float64(s.Count())
}
