package hashfunc

// Chainer is implemented by hash functions that derive Bloom-filter
// indices by iterating a deterministic PRNG step seeded by the key,
// rather than by the two-hash double-hashing trick of DoubleHash. Both
// schemes are acceptable per the hash-function family's contract; a
// Func that does not implement Chainer is driven through DoubleHash
// instead.
type Chainer interface {
	// Next advances the chain: h_{i+1} = Next(h_i).
	Next(h uint32) uint32
}

// SeededPRNG reproduces the IPv4-optimized variant's hash scheme: the
// key seeds a PRNG, and successive calls re-seed it with the previous
// output, i.e. h_{i+1} = rand_with_seed(h_i). The original C source
// seeds libc's rand_r with the key; Go has no portable equivalent, so
// SeededPRNG uses a splitmix32-style step function instead, which has
// the same shape (deterministic, reseed-from-previous-output) and the
// same avalanche guarantees the design requires (see DESIGN.md).
type SeededPRNG struct{}

// Next implements Chainer.
func (SeededPRNG) Next(h uint32) uint32 {
	return splitmix32(h)
}

func splitmix32(x uint32) uint32 {
	x += 0x9e3779b9
	x = (x ^ (x >> 16)) * 0x21f0aaad
	x = (x ^ (x >> 15)) * 0x735a2d97
	x = x ^ (x >> 15)
	return x
}

// Hash32 seeds the chain with key and returns its first output.
func (s SeededPRNG) Hash32(key uint32) uint32 {
	return s.Next(key)
}

// Hash64 folds the key's halves before seeding the chain, matching the
// sequential-accumulation model used by the 64-bit hash functions.
func (s SeededPRNG) Hash64(key uint64) uint32 {
	hi := uint32(key >> 32)
	lo := uint32(key)
	return s.Next(s.Next(hi) ^ lo)
}
