// Package hashfunc provides the small family of 32-bit integer hash
// functions shared by the Counting Bloom Filter and the hash table.
//
// Hash-function choice is a constructor-time value: a Table is built
// with one Func and every derived index computation goes through that
// same value, called through the Func interface.
package hashfunc

// Func produces avalanche-quality 32-bit hashes from fixed-width
// integer keys. Hash64 is used for IPv6's reduced 64-bit keys; Hash32
// for IPv4 keys and for any folded/class-masked 32-bit value.
type Func interface {
	Hash32(key uint32) uint32
	Hash64(key uint64) uint32
}

// DoubleHash derives k Bloom-filter/bucket indices from two seed
// hashes using the standard double-hashing trick:
//
//	h_i = (h1 + i*h2) mod m,  i in [0, k)
//
// This lets a Func compute only two real hashes per key and derive as
// many indices as the filter needs. The indices are written into dst
// (which must have length >= k) instead of a freshly allocated slice,
// so a caller on a hot path can pass a stack-owned array and derive
// indices without allocating.
func DoubleHash(dst []uint32, h1, h2 uint32, k int, m uint32) []uint32 {
	dst = dst[:k]
	for i := range k {
		dst[i] = (h1 + uint32(i)*h2) % m
	}
	return dst
}
