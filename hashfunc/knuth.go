package hashfunc

// Knuth implements the Knuth multiplicative hash: h = key * 2654435761
// (wrapping 32-bit multiplication). There is no 64-bit variant in the
// original source; Knuth extends it here by hashing each half
// independently and XOR-folding the two 32-bit products, keeping the
// same multiplicative constant and wrap semantics (see DESIGN.md).
type Knuth struct{}

const knuthConst = 2654435761

// Hash32 hashes a single 32-bit key.
func (Knuth) Hash32(key uint32) uint32 {
	return key * knuthConst
}

// Hash64 folds the independently-hashed halves of a 64-bit key.
func (Knuth) Hash64(key uint64) uint32 {
	hi := uint32(key >> 32)
	lo := uint32(key)
	return (hi * knuthConst) ^ (lo * knuthConst)
}
