// Package bloom provides a probabilistic index of dataset source pages.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate is the false positive rate of NewPageIndex.
const DefaultFalsePositiveRate = 0.001

// PageIndex records which source pages have rows in a dataset snapshot.
// A negative answer is definite; a positive one may be wrong.
type PageIndex struct {
	f *bloom.BloomFilter
}

// NewPageIndex creates an index sized for the given pages and adds them.
func NewPageIndex(pages []string) *PageIndex {
	n := uint(len(pages))
	if n == 0 {
		n = 1
	}
	idx := &PageIndex{f: bloom.NewWithEstimates(n, DefaultFalsePositiveRate)}
	for _, page := range pages {
		idx.f.AddString(page)
	}
	return idx
}

// MayContain reports whether page might have rows. False means it has none.
func (idx *PageIndex) MayContain(page string) bool {
	return idx.f.TestString(page)
}

// EstimatedCount returns the approximate number of distinct pages indexed.
func (idx *PageIndex) EstimatedCount() uint {
	return uint(idx.f.ApproximatedSize())
}
