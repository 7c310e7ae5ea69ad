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

package internal

import (
	"golang.org/x/exp/rand"
)

// Rand is the random number generator shared by k-mer subsampling and
// frequency resampling. It doubles as a rand.Source for the gonum
// distributions.
type Rand = rand.Rand

// NewRand returns a seeded random number generator.
func NewRand(seed uint64) *Rand {
	return rand.New(rand.NewSource(seed))
}

// OffsetSeed derives the seed of an independent work unit, such as a
// variant cluster, from a global seed. Results stay reproducible no
// matter which worker processes which unit.
func OffsetSeed(seed uint64, offset int) uint64 {
	return seed + uint64(offset)
}

// NewOffsetRand returns NewRand(OffsetSeed(seed, offset)).
func NewOffsetRand(seed uint64, offset int) *Rand {
	return NewRand(OffsetSeed(seed, offset))
}
