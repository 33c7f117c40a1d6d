package hashfunc

// Murmur3 implements the scalar MurmurHash3 finalization sequence
// specified for fixed-size integer keys: each 32-bit block is
// multiplied by the c1 constant, rotated left 15, multiplied by c2,
// then folded into the running hash (xor, rotate left 13,
// multiply-add); once every block has been folded in, the hash is
// xored with the key's byte length and run through the avalanche mix.
//
// Murmur3 was created by Austin Appleby; this is the integer-only
// variant, not the general byte-stream algorithm.
type Murmur3 struct{}

const (
	murmurC1 = 0xcc9e2d51
	murmurC2 = 0x1b873593
)

// mixBlock folds one 32-bit block into the running hash h.
func mixBlock(h, block uint32) uint32 {
	block *= murmurC1
	block = (block << 15) | (block >> 17)
	block *= murmurC2

	h ^= block
	h = (h << 13) | (h >> 19)
	h = h*5 + 0xe6546b64

	return h
}

func murmurFinalize(x, byteLen uint32) uint32 {
	x ^= byteLen
	x ^= x >> 16
	x *= 0x85ebca6b
	x ^= x >> 13
	x *= 0xc2b2ae35
	x ^= x >> 16
	return x
}

// Hash32 hashes a single 32-bit key.
func (Murmur3) Hash32(key uint32) uint32 {
	h := mixBlock(0, key)
	return murmurFinalize(h, 4)
}

// Hash64 feeds the key's two 32-bit halves sequentially through the
// MurmurHash3 body stage (high half first) before finalizing with a
// key byte length of 8, as specified for 64-bit keys.
func (Murmur3) Hash64(key uint64) uint32 {
	hi := uint32(key >> 32)
	lo := uint32(key)

	h := mixBlock(0, hi)
	h = mixBlock(h, lo)
	return murmurFinalize(h, 8)
}
