package bloomfwd

import (
	"github.com/lucch/bloomfwd/internal/bloom"
	"github.com/lucch/bloomfwd/internal/hashtable"
)

// class groups every prefix of one (expanded) length, backed by one
// Bloom filter and one hash table. classes are stored in a Table in
// longest-first scan order: for IPv4 that's simply [length 32, length
// 24]; for IPv6 it's length 64 down to length 1.
//
// A class's Bloom filter and hash table always share one hashfunc.Func, so
// the hash computed for the Bloom query is reused as the hash table's
// bucket hash instead of being recomputed (spec's "precomputed hash"
// fast path).
type class[K Key] struct {
	length uint8
	cbf    *bloom.Filter
	ht     *hashtable.Table
}

// primaryHash computes the one hash this class's Bloom filter and hash
// table both derive their probes from, so callers compute it once and
// pass it to both via their *WithHash entry points.
func (c *class[K]) primaryHash(key K) uint32 {
	switch k := any(key).(type) {
	case uint32:
		return c.cbf.PrimaryHash32(k)
	case uint64:
		return c.cbf.PrimaryHash64(k)
	default:
		panic("bloomfwd: unreachable Key type")
	}
}
