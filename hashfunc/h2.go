package hashfunc

// H2 implements the H2 database integer hash: three rounds of
// x = ((x>>16)^x) * 0x45d9f3b, followed by a final x = (x>>16)^x.
//
// See:
// https://github.com/h2database/h2database/blob/master/h2/src/test/org/h2/test/store/CalculateHashConstant.java
type H2 struct{}

const h2Const = 0x45d9f3b

func h2Round(x uint32) uint32 {
	x = ((x >> 16) ^ x) * h2Const
	x = ((x >> 16) ^ x) * h2Const
	x = ((x >> 16) ^ x) * h2Const
	x = (x >> 16) ^ x
	return x
}

// Hash32 hashes a single 32-bit key.
func (H2) Hash32(key uint32) uint32 {
	return h2Round(key)
}

// Hash64 applies the round to each half and XOR-folds the results.
func (H2) Hash64(key uint64) uint32 {
	hi := uint32(key >> 32)
	lo := uint32(key)
	return h2Round(hi) ^ h2Round(lo)
}
