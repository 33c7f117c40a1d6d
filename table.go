package bloomfwd

import (
	"sort"

	"github.com/lucch/bloomfwd/hashfunc"
	"github.com/lucch/bloomfwd/internal/bloom"
	"github.com/lucch/bloomfwd/internal/hashtable"
)

// state tracks a Table through its build lifecycle. Lookups are
// rejected outside stateQueriable: a Table under construction has
// under-sized (or entirely absent) Bloom filters, and would report
// false negatives that have nothing to do with the real data plane.
type state uint8

const (
	stateEmpty state = iota
	stateSized
	statePopulated
	stateQueriable
)

// ClassSize gives a Bloom filter's designed (element count, target
// false-positive ratio) for one prefix length, taken from the
// distribution manifest that precedes population.
type ClassSize struct {
	Length uint8
	N      uint32
	P      float64
}

// Table is a longest-prefix-match forwarding table over K-bit keys: a
// DLA direct array for short, stride-bounded prefixes (IPv4 only), and
// one Bloom-filter-gated hash table per remaining prefix length.
//
// Both IPv4 and IPv6 reduce to the same abstract machine: a set of
// populated classes scanned longest length first, with the DLA (when
// present) providing an O(1) shortcut for every length it covers. The
// source keeps these as two parallel implementations; here they are one
// generic type parameterized over the key width.
type Table[K Key] struct {
	width  uint8 // 32 for IPv4, 64 for IPv6's reduced key
	stride uint8 // DLA stride S; 0 disables the DLA tier
	hash   hashfunc.Func

	dla          dla
	classes      map[uint8]*class[K]
	byLengthDesc []uint8 // populated lengths, longest first

	hasDefault     bool
	defaultNextHop uint64

	state state
}

// NewIPv4Table constructs an empty IPv4 table with DLA stride s (the
// source's default is 20, covering /1../20 directly and leaving
// /21.. up to hash-table classes; pass 0 to disable the DLA tier
// entirely).
func NewIPv4Table(stride uint8, hash hashfunc.Func) *Table[uint32] {
	return &Table[uint32]{
		width:   32,
		stride:  stride,
		hash:    hash,
		dla:     newDLA(stride),
		classes: make(map[uint8]*class[uint32]),
		state:   stateEmpty,
	}
}

// NewIPv6Table constructs an empty IPv6 table. IPv6 carries no DLA
// tier: every prefix length in [1,64] gets its own class.
func NewIPv6Table(hash hashfunc.Func) *Table[uint64] {
	return &Table[uint64]{
		width:   64,
		hash:    hash,
		classes: make(map[uint8]*class[uint64]),
		state:   stateEmpty,
	}
}

// Size allocates one Bloom filter (and backing hash table) per entry in
// sizes, moving the table from stateEmpty to stateSized. Size must be
// called exactly once, before any StorePrefix call.
func (t *Table[K]) Size(sizes []ClassSize) error {
	if t.state != stateEmpty {
		return fatalf("size", "table already sized")
	}
	for _, cs := range sizes {
		if t.stride != 0 && cs.Length <= t.stride {
			return fatalf("size", "length %d is covered by the DLA (stride %d) and must not have a class", cs.Length, t.stride)
		}
		t.classes[cs.Length] = &class[K]{
			length: cs.Length,
			cbf:    bloom.New(cs.N, cs.P, t.hash),
			ht:     hashtable.New(cs.N, t.hash, t.width == 64),
		}
		t.byLengthDesc = append(t.byLengthDesc, cs.Length)
	}
	sort.Slice(t.byLengthDesc, func(i, j int) bool { return t.byLengthDesc[i] > t.byLengthDesc[j] })
	t.state = stateSized
	return nil
}

// StorePrefix inserts one (possibly CPE-expanded) prefix. Length 0 is
// the default route and is stored outside the class/DLA machinery.
// StorePrefix may be called any number of times once the table is
// sized, and is a fatal error once Finalize has been called.
func (t *Table[K]) StorePrefix(p Prefix[K]) error {
	if t.state != stateSized && t.state != statePopulated {
		return fatalf("store_prefix", "table must be sized (and not yet finalized) before storing prefixes")
	}
	if p.Length > t.width {
		return fatalf("store_prefix", "prefix length %d exceeds key width %d", p.Length, t.width)
	}
	t.state = statePopulated

	key := p.Canonical(t.width)

	if p.Length == 0 {
		t.defaultNextHop = p.NextHop
		t.hasDefault = true
		return nil
	}

	if t.dla.enabled() && p.Length <= t.stride {
		if p.Length != t.stride {
			return fatalf("store_prefix", "prefix length %d shorter than DLA stride %d must be CPE-expanded first", p.Length, t.stride)
		}
		t.dla.store(uint64(key), uint64(t.width), p.NextHop)
		return nil
	}

	c, ok := t.classes[p.Length]
	if !ok {
		return fatalf("store_prefix", "no class sized for prefix length %d", p.Length)
	}

	h1 := c.primaryHash(key)
	c.cbf.InsertWithHash(h1)
	c.ht.StoreNextHopWithHash(h1, uint64(key), p.NextHop)
	return nil
}

// Finalize moves the table into the queriable state. No further
// StorePrefix calls are permitted afterward.
func (t *Table[K]) Finalize() error {
	if t.state != statePopulated && t.state != stateSized {
		return fatalf("finalize", "table already finalized or never sized")
	}
	t.state = stateQueriable
	return nil
}
