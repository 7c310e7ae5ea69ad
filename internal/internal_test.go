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
	"math"
	"testing"
)

func TestSaturatingAdd8(t *testing.T) {
	if SaturatingAdd8(2, 3) != 5 {
		t.Error("SaturatingAdd8 1 failed")
	}
	if SaturatingAdd8(200, 100) != math.MaxUint8 {
		t.Error("SaturatingAdd8 2 failed")
	}
	if SaturatingAdd8(math.MaxUint8, 0) != math.MaxUint8 {
		t.Error("SaturatingAdd8 3 failed")
	}
	if SaturatingAdd8(254, 1) != math.MaxUint8 {
		t.Error("SaturatingAdd8 4 failed")
	}
}

func TestSaturatingSub8(t *testing.T) {
	if SaturatingSub8(5, 3) != 2 {
		t.Error("SaturatingSub8 1 failed")
	}
	if SaturatingSub8(3, 5) != 0 {
		t.Error("SaturatingSub8 2 failed")
	}
}

func TestClamp8(t *testing.T) {
	for _, c := range []struct {
		in  int64
		out uint8
	}{{-7, 0}, {0, 0}, {17, 17}, {255, 255}, {1000, 255}} {
		if got := Clamp8(c.in); got != c.out {
			t.Errorf("Clamp8(%v) = %v, expected %v", c.in, got, c.out)
		}
	}
}

func TestUint8Matrix(t *testing.T) {
	m := NewUint8Matrix(3, 0)
	m.AppendColumn([]uint8{1, 2, 3})
	m.AppendColumn([]uint8{4, 5, 6})
	if rows, cols := m.Dims(); rows != 3 || cols != 2 {
		t.Errorf("Dims = %v x %v, expected 3 x 2", rows, cols)
	}
	if m.At(0, 0) != 1 || m.At(2, 0) != 3 || m.At(1, 1) != 5 {
		t.Error("At after AppendColumn failed")
	}
	m.Set(2, 1, 9)
	if column := m.Column(1); column[0] != 4 || column[2] != 9 {
		t.Error("Column after Set failed")
	}
	m.Zero()
	for j := 0; j < 2; j++ {
		for i := 0; i < 3; i++ {
			if m.At(i, j) != 0 {
				t.Errorf("Zero failed at %v, %v", i, j)
			}
		}
	}
}

func TestUint8MatrixAppendColumnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("AppendColumn with wrong length did not panic")
		}
	}()
	m := NewUint8Matrix(2, 0)
	m.AppendColumn([]uint8{1, 2, 3})
}

func TestOffsetRand(t *testing.T) {
	r1 := NewOffsetRand(42, 3)
	r2 := NewRand(45)
	for i := 0; i < 10; i++ {
		if r1.Uint64() != r2.Uint64() {
			t.Fatal("NewOffsetRand does not match NewRand of the offset seed")
		}
	}
	if NewOffsetRand(42, 0).Uint64() == NewOffsetRand(42, 1).Uint64() {
		t.Error("different offsets produce the same stream")
	}
}

func TestUint64Hash(t *testing.T) {
	if Uint64Hash(12345) != Uint64Hash(12345) {
		t.Error("Uint64Hash is not deterministic")
	}
	if Uint64Hash(1) == Uint64Hash(2) {
		t.Error("Uint64Hash collision on small inputs")
	}
}
