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
	logging "github.com/op/go-logging"
)

// UpdateMulticlusterKmerMultiplicities commits the multiplicities of
// the sample's new diplotype for every multicluster k-mer in the
// current subset. Only the difference to what this cluster committed
// before is applied to the shared records, so repeating a call with
// the same arguments changes nothing. The k-mers whose contribution
// changed are flagged for IsMulticlusterKmerUpdated. Changed records
// bump their generation, which makes the statistics caches of every
// cluster sharing them stale.
func (c *VariantClusterHaplotypes) UpdateMulticlusterKmerMultiplicities(diplotype, previousDiplotype Diplotype, sampleIdx int) {
	c.checkPartitioned()
	c.checkSample(sampleIdx)

	updated := c.updatedMulticlusterKmers[sampleIdx]
	updated.ClearAll()
	changed := 0

	for _, k := range c.multiclusterKmerSubsetIndices {
		multiplicity := c.diplotypeKmerMultiplicity(int(k), diplotype)
		committed := c.sampleMulticlusterKmerMultiplicities.At(sampleIdx, int(k))
		if multiplicity == committed {
			continue
		}
		c.kmers[k].Counts.AddMulticlusterMultiplicity(sampleIdx, int32(multiplicity)-int32(committed))
		c.sampleMulticlusterKmerMultiplicities.Set(sampleIdx, int(k), multiplicity)
		updated.Set(uint(k))
		changed++
	}

	if changed > 0 && log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("Sample %v moved from %v to %v, %v multicluster k-mers changed.", sampleIdx, previousDiplotype, diplotype, changed)
	}
}

// IsMulticlusterKmerUpdated reports whether the last
// UpdateMulticlusterKmerMultiplicities for the sample changed this
// cluster's contribution to a multicluster k-mer.
func (c *VariantClusterHaplotypes) IsMulticlusterKmerUpdated(kmerIdx int, sampleIdx int) bool {
	c.checkSample(sampleIdx)
	return c.updatedMulticlusterKmers[sampleIdx].Test(uint(kmerIdx))
}
