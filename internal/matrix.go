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
	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("internal")

// Uint8Matrix is a dense table of small counts. Entries are stored
// column by column, so that appending a column is cheap and the
// entries of one column are adjacent in memory.
type Uint8Matrix struct {
	rows, cols int
	data       []uint8
}

// NewUint8Matrix allocates a zeroed rows x cols matrix.
func NewUint8Matrix(rows, cols int) Uint8Matrix {
	if rows < 0 || cols < 0 {
		log.Panicf("Invalid matrix dimensions %v x %v.", rows, cols)
	}
	return Uint8Matrix{rows: rows, cols: cols, data: make([]uint8, rows*cols)}
}

// Dims returns the number of rows and columns.
func (m *Uint8Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// At returns the entry at row i and column j.
func (m *Uint8Matrix) At(i, j int) uint8 {
	return m.data[j*m.rows+i]
}

// Set stores v at row i and column j.
func (m *Uint8Matrix) Set(i, j int, v uint8) {
	m.data[j*m.rows+i] = v
}

// Column returns the entries of column j. The result shares storage
// with the matrix.
func (m *Uint8Matrix) Column(j int) []uint8 {
	return m.data[j*m.rows : (j+1)*m.rows]
}

// AppendColumn adds a column to the right of the matrix. The column
// must have one entry per row.
func (m *Uint8Matrix) AppendColumn(column []uint8) {
	if len(column) != m.rows {
		log.Panicf("Column of length %v does not fit a matrix with %v rows.", len(column), m.rows)
	}
	m.data = append(m.data, column...)
	m.cols++
}

// Zero resets all entries to zero.
func (m *Uint8Matrix) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}
