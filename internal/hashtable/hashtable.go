// Package hashtable implements the chained hash table that stores the
// exact prefix_key -> next_hop mapping for one prefix-length class.
//
// Chain nodes live in a flat arena indexed by 32-bit offsets instead of
// being individually heap-allocated and linked by pointer: this keeps
// the build-once, read-many table cache-dense and avoids per-lookup
// allocation, at the cost of a single bulk arena allocation at build
// time (see DESIGN.md, grounded on the teacher's pool.go allocation
// bookkeeping, adapted from a sync.Pool of *node to a flat arena since
// this table is never returned to a pool - it is immutable after
// build).
package hashtable

import "github.com/lucch/bloomfwd/hashfunc"

// entry is one chain node in the arena. Index 0 is a reserved sentinel
// meaning "no entry" / "end of chain", so real entries start at index 1.
type entry struct {
	hash    uint32
	key     uint64
	nextHop uint64
	next    uint32
}

// Table is a chained hash table with load factor ~= 1 (range == capacity).
type Table struct {
	slots   []uint32 // bucket -> arena index of chain head (0 = empty)
	arena   []entry  // arena[0] is the unused sentinel
	hash    hashfunc.Func
	range_  uint32
	is64bit bool
}

// New allocates a Table sized for capacity elements.
func New(capacity uint32, hash hashfunc.Func, is64bit bool) *Table {
	if capacity == 0 {
		capacity = 1
	}
	return &Table{
		slots:   make([]uint32, capacity),
		arena:   make([]entry, 1, capacity+1),
		hash:    hash,
		range_:  capacity,
		is64bit: is64bit,
	}
}

func (t *Table) hashOf(key uint64) uint32 {
	if t.is64bit {
		return t.hash.Hash64(key)
	}
	return t.hash.Hash32(uint32(key))
}

// StoreNextHop computes the key's hash, scans its bucket chain for an
// existing entry and overwrites its next hop if found (returning
// created=false), or prepends a new chain-head entry (returning
// created=true). Callers that already derived the same hash for a
// Bloom filter using an identical Func use StoreNextHopWithHash to
// skip recomputing it.
func (t *Table) StoreNextHop(key, nextHop uint64) (created bool) {
	return t.storeWithHash(t.hashOf(key), key, nextHop)
}

// StoreNextHopWithHash is StoreNextHop but accepts a precomputed hash,
// skipping recomputation when the Bloom filter's primary hash is known
// to equal the hash table's hash.
func (t *Table) StoreNextHopWithHash(hash uint32, key, nextHop uint64) (created bool) {
	return t.storeWithHash(hash, key, nextHop)
}

func (t *Table) storeWithHash(hash uint32, key, nextHop uint64) (created bool) {
	idx := hash % t.range_
	for i := t.slots[idx]; i != 0; i = t.arena[i].next {
		if t.arena[i].hash == hash && t.arena[i].key == key {
			t.arena[i].nextHop = nextHop
			return false
		}
	}

	t.arena = append(t.arena, entry{hash: hash, key: key, nextHop: nextHop, next: t.slots[idx]})
	t.slots[idx] = uint32(len(t.arena) - 1)
	return true
}

// FindNextHop scans the key's bucket chain and returns its stored next
// hop. No allocation occurs on this path.
func (t *Table) FindNextHop(key uint64) (nextHop uint64, hit bool) {
	return t.findWithHash(t.hashOf(key), key)
}

// FindNextHopWithHash is FindNextHop but accepts a precomputed hash.
func (t *Table) FindNextHopWithHash(hash uint32, key uint64) (nextHop uint64, hit bool) {
	return t.findWithHash(hash, key)
}

func (t *Table) findWithHash(hash uint32, key uint64) (nextHop uint64, hit bool) {
	idx := hash % t.range_
	for i := t.slots[idx]; i != 0; i = t.arena[i].next {
		if t.arena[i].hash == hash && t.arena[i].key == key {
			return t.arena[i].nextHop, true
		}
	}
	return 0, false
}

// Len returns the number of distinct keys currently stored.
func (t *Table) Len() int {
	return len(t.arena) - 1
}

// CollisionCount counts keys stored in a bucket that holds more than
// one entry: the sum, over every bucket with >1 chained entries, of
// that bucket's entry count.
func (t *Table) CollisionCount() uint64 {
	var n uint64
	for _, head := range t.slots {
		var count int
		for i := head; i != 0; i = t.arena[i].next {
			count++
		}
		if count > 1 {
			n += uint64(count)
		}
	}
	return n
}
