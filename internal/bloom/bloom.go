// Package bloom implements the Counting Bloom Filter used as a
// negative-lookup oracle in front of each prefix-length class's hash
// table: a query answer of false means the key is definitely absent
// from the class, so the hash table probe can be skipped entirely.
package bloom

import (
	"math"

	"github.com/lucch/bloomfwd/hashfunc"
	"github.com/lucch/bloomfwd/internal/bitset"
)

// maxIndices bounds the k derived bitmap indices a single key ever
// produces, so every Insert/Query/Remove call can derive its indices
// into a fixed-size array living on the caller's stack instead of
// allocating a slice on the lookup hot path (spec.md §5: "No
// per-lookup allocation is permitted on the hot path"). k is fixed at
// construction time from (n, p) and clamped to this bound in New, not
// recomputed per call, so the clamp can only ever raise the filter's
// realized false-positive rate above its designed p in pathological
// (n, p) configurations — it never affects soundness, since insert
// and query always derive the same (capped) k indices for a given key.
const maxIndices = 32

// Filter is a Counting Bloom Filter over fixed-width integer keys.
// The zero value is not usable; construct with New.
type Filter struct {
	bitmap   bitset.BitSet
	counters []uint8
	hash     hashfunc.Func
	m        uint32 // bitmap length
	k        int    // number of hash functions, <= maxIndices
	n        uint32 // designed capacity
}

// New sizes a Filter for capacity n expected elements at a target
// false-positive ratio p, following:
//
//	m = ceil(n * log2(1/p) / ln2)
//	k = ceil((m/n) * ln2)
func New(n uint32, p float64, hash hashfunc.Func) *Filter {
	if n == 0 {
		n = 1
	}

	m := uint32(math.Ceil(float64(n) * math.Log2(1/p) / math.Ln2))
	if m == 0 {
		m = 1
	}
	k := int(math.Ceil((float64(m) / float64(n)) * math.Ln2))
	if k < 1 {
		k = 1
	}
	if k > maxIndices {
		k = maxIndices
	}

	return &Filter{
		bitmap:   make(bitset.BitSet, (m+63)/64),
		counters: make([]uint8, m),
		hash:     hash,
		m:        m,
		k:        k,
		n:        n,
	}
}

// PrimaryHash32 returns the first hash h1 that a 32-bit key's indices
// are derived from. A caller whose hash table shares this Filter's
// Func can pass this value straight to the hash table's *WithHash
// entry points instead of recomputing the same hash.
func (f *Filter) PrimaryHash32(key uint32) uint32 { return f.hash.Hash32(key) }

// PrimaryHash64 is PrimaryHash32 for a 64-bit key.
func (f *Filter) PrimaryHash64(key uint64) uint32 { return f.hash.Hash64(key) }

// InsertWithHash is Insert but accepts a precomputed primary hash.
func (f *Filter) InsertWithHash(h1 uint32) {
	var buf [maxIndices]uint32
	f.insertIndices(f.deriveInto(buf[:], h1))
}

// QueryWithHash is Query but accepts a precomputed primary hash.
func (f *Filter) QueryWithHash(h1 uint32) bool {
	var buf [maxIndices]uint32
	return f.queryIndices(f.deriveInto(buf[:], h1))
}

// deriveInto expands the first hash h1 into f.k bitmap indices,
// written into dst (which must have length >= f.k, e.g. a
// caller-owned [maxIndices]uint32 array) rather than a freshly
// allocated slice, so no call on the lookup hot path allocates. Uses
// the chained-PRNG scheme when the configured Func supports it, and
// the double-hashing trick otherwise.
func (f *Filter) deriveInto(dst []uint32, h1 uint32) []uint32 {
	if chainer, ok := f.hash.(hashfunc.Chainer); ok {
		dst = dst[:f.k]
		h := h1
		for i := range f.k {
			dst[i] = h % f.m
			h = chainer.Next(h)
		}
		return dst
	}

	h2 := f.hash.Hash32(h1)
	return hashfunc.DoubleHash(dst, h1, h2, f.k, f.m)
}

// Insert sets the bit and increments the saturating counter at each of
// the key's k derived indices. There are no error conditions;
// oversubscription beyond the designed capacity degrades the
// false-positive rate rather than failing.
func (f *Filter) Insert(key uint32) {
	f.InsertWithHash(f.hash.Hash32(key))
}

// Insert64 is Insert for a 64-bit key.
func (f *Filter) Insert64(key uint64) {
	f.InsertWithHash(f.hash.Hash64(key))
}

func (f *Filter) insertIndices(idxs []uint32) {
	for _, idx := range idxs {
		f.bitmap.Set(uint(idx))
		if f.counters[idx] < math.MaxUint8 {
			f.counters[idx]++
		}
	}
}

// Query returns true iff every one of the key's k derived bitmap bits
// is set. False negatives are impossible as long as no counter has
// saturated; false positives occur at roughly the designed rate p when
// the filter is loaded to its designed capacity.
func (f *Filter) Query(key uint32) bool {
	return f.QueryWithHash(f.hash.Hash32(key))
}

// Query64 is Query for a 64-bit key.
func (f *Filter) Query64(key uint64) bool {
	return f.QueryWithHash(f.hash.Hash64(key))
}

func (f *Filter) queryIndices(idxs []uint32) bool {
	for _, idx := range idxs {
		if !f.bitmap.Test(uint(idx)) {
			return false
		}
	}
	return true
}

// Remove decrements each of the key's k counters, clearing the
// corresponding bit when a counter reaches zero. Remove is
// design-complete but unused on the lookup hot path, and is unsafe if
// any of the touched counters ever saturated: the second return value
// reports whether that happened, so a caller can treat it as the
// observable (non-fatal) invariant violation the design calls for,
// without the filter silently corrupting membership state.
func (f *Filter) Remove(key uint32) (safe bool) {
	var buf [maxIndices]uint32
	return f.removeIndices(f.deriveInto(buf[:], f.hash.Hash32(key)))
}

// Remove64 is Remove for a 64-bit key.
func (f *Filter) Remove64(key uint64) (safe bool) {
	var buf [maxIndices]uint32
	return f.removeIndices(f.deriveInto(buf[:], f.hash.Hash64(key)))
}

func (f *Filter) removeIndices(idxs []uint32) (safe bool) {
	safe = true
	for _, idx := range idxs {
		if f.counters[idx] == math.MaxUint8 {
			safe = false
		}
		if f.counters[idx] > 0 {
			f.counters[idx]--
		}
		if f.counters[idx] == 0 {
			f.bitmap.Clear(uint(idx))
		}
	}
	return safe
}

// SaturatedCells counts bitmap cells whose counter exceeds 1, i.e. a
// cell touched by more than one distinct key's index derivation. The
// source's original diagnostic indexed counters[i] with the outer
// per-class loop variable instead of the inner per-cell one, which is
// almost certainly a bug; SaturatedCells implements the corrected
// "count cells whose counter exceeds 1" behavior with the inner index.
func (f *Filter) SaturatedCells() uint64 {
	var n uint64
	for _, c := range f.counters {
		if c > 1 {
			n++
		}
	}
	return n
}

// Capacity returns the filter's designed element capacity.
func (f *Filter) Capacity() uint32 { return f.n }

// BitmapLen returns the bitmap length m.
func (f *Filter) BitmapLen() uint32 { return f.m }

// NumHashes returns the derived hash count k.
func (f *Filter) NumHashes() int { return f.k }
