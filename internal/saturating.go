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

import "math"

// SaturatingAdd8 adds two multiplicities, clamping at math.MaxUint8
// instead of wrapping around. Highly repetitive regions can push a
// k-mer's multiplicity past the representable range; clamping is
// intended.
func SaturatingAdd8(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < math.MaxUint8 {
		return uint8(s)
	}
	return math.MaxUint8
}

// SaturatingSub8 subtracts b from a, clamping at zero.
func SaturatingSub8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return 0
}

// Clamp8 converts a signed multiplicity to the range [0, math.MaxUint8].
func Clamp8(v int64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(v)
	}
}
