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

package utils

import "math"

// Gender is the sex of a sample. It determines the ploidy of variant
// clusters on the sex chromosomes.
type Gender uint8

const (
	Male Gender = iota
	Female
)

// NumGenders is the number of distinct Gender values.
const NumGenders = 2

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "unknown"
	}
}

// Ploidy is the number of chromosome copies a sample carries at a
// variant cluster.
type Ploidy uint8

const (
	Null Ploidy = iota
	Haploid
	Diploid
)

// Copies returns the number of chromosome copies.
func (p Ploidy) Copies() int {
	return int(p)
}

func (p Ploidy) String() string {
	switch p {
	case Null:
		return "null"
	case Haploid:
		return "haploid"
	case Diploid:
		return "diploid"
	default:
		return "unknown"
	}
}

const (
	// HaplotypeMissing marks an absent or unresolved haplotype, both
	// as the second haplotype of a haploid diplotype and as the
	// observation of a missing haplotype in frequency estimation.
	HaplotypeMissing = math.MaxUint16

	// AlleleMissing marks a variant whose allele is unresolved on a
	// haplotype.
	AlleleMissing = math.MaxUint16

	// MaxMultiplicity is the largest representable k-mer
	// multiplicity. Larger multiplicities saturate at this value.
	MaxMultiplicity = math.MaxUint8
)
