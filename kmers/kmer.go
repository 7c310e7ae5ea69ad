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
	"strings"

	"github.com/exascience/kmertyper/internal"
)

// MaxK is the longest k-mer that fits a Kmer.
const MaxK = 32

// A Kmer is a DNA sequence of at most MaxK bases packed two bits per
// base, first base in the most significant position.
type Kmer uint64

var baseCodes = [256]int8{}

func init() {
	for i := range baseCodes {
		baseCodes[i] = -1
	}
	for code, bases := range []string{"Aa", "Cc", "Gg", "Tt"} {
		for _, b := range []byte(bases) {
			baseCodes[b] = int8(code)
		}
	}
}

// Encode packs a sequence of A, C, G and T bases. It returns false if
// the sequence is longer than MaxK or contains any other character.
func Encode(seq []byte) (Kmer, bool) {
	if len(seq) > MaxK {
		return 0, false
	}
	var k Kmer
	for _, b := range seq {
		code := baseCodes[b]
		if code < 0 {
			return 0, false
		}
		k = (k << 2) | Kmer(code)
	}
	return k, true
}

// Sequence unpacks a k-mer of the given length.
func (k Kmer) Sequence(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := length - 1; i >= 0; i-- {
		sb.WriteByte("ACGT"[(k>>(2*uint(i)))&3])
	}
	return sb.String()
}

// ReverseComplement returns the reverse complement of a k-mer of the
// given length.
func (k Kmer) ReverseComplement(length int) (rc Kmer) {
	for i := 0; i < length; i++ {
		rc = (rc << 2) | (3 - (k & 3))
		k >>= 2
	}
	return rc
}

// Canonical returns the smaller of a k-mer and its reverse complement.
func (k Kmer) Canonical(length int) Kmer {
	if rc := k.ReverseComplement(length); rc < k {
		return rc
	}
	return k
}

// Hash implements the pargo sync.Hasher interface.
func (k Kmer) Hash() uint64 {
	return internal.Uint64Hash(uint64(k))
}
