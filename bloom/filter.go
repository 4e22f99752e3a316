// Package bloom provides duplicate document detection using Bloom filters.
package bloom

import (
	"encoding/binary"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
)

// Filter remembers the documents it has seen by the digest of their HTML.
// It is safe for concurrent use.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected documents
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a document.
func (f *Filter) Add(html []byte) {
	key := digest(html)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.Add(key)
}

// Test returns true if the document might have been seen.
// False positives are possible; false negatives are not.
func (f *Filter) Test(html []byte) bool {
	key := digest(html)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Test(key)
}

// Seen records a document and reports whether it might have been seen
// before.
func (f *Filter) Seen(html []byte) bool {
	key := digest(html)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestAndAdd(key)
}

// EstimatedCount returns the approximate number of documents in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}

// digest hashes the document once so the filter never sees large keys.
func digest(html []byte) []byte {
	return binary.BigEndian.AppendUint64(nil, xxhash.Sum64(html))
}
