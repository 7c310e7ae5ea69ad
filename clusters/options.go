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

import "fmt"

const (
	// DefaultKmerSubsamplingRate is the default fraction of k-mers
	// scored per Gibbs sweep.
	DefaultKmerSubsamplingRate = 0.1

	// DefaultMaxHaplotypeVariantKmers is the default cap on the
	// number of subsampled k-mers per variant allele of a haplotype.
	DefaultMaxHaplotypeVariantKmers = 500
)

// Options configures k-mer subsampling.
type Options struct {
	KmerSubsamplingRate      float64
	MaxHaplotypeVariantKmers uint32

	// Seed is the global seed; each cluster offsets it by its index.
	Seed uint64
}

// DefaultOptions returns the default subsampling options.
func DefaultOptions() Options {
	return Options{
		KmerSubsamplingRate:      DefaultKmerSubsamplingRate,
		MaxHaplotypeVariantKmers: DefaultMaxHaplotypeVariantKmers,
	}
}

// Validate checks the options.
func (opts Options) Validate() error {
	if opts.KmerSubsamplingRate < 0 || opts.KmerSubsamplingRate > 1 {
		return fmt.Errorf("invalid k-mer subsampling rate %v, must be in [0, 1]", opts.KmerSubsamplingRate)
	}
	if opts.MaxHaplotypeVariantKmers == 0 {
		return fmt.Errorf("invalid maximum number of haplotype variant k-mers, must be positive")
	}
	return nil
}
