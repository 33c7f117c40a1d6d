// Package cpe implements the offline Controlled Prefix Expansion
// preprocessor: it buckets a raw prefix set into the fixed-length
// groups a Table's DLA and hash-table classes expect, expanding every
// shorter prefix in a bucket out to the bucket's target length.
//
// Grounded on ip-helpers/cpe.c's btrie_insert/btrie_perform_cpe: a
// binary trie accumulates one next hop per leaf, and a leaf already
// carrying a next hop is never overwritten by a later, less specific
// expansion (btrie_insert's allow_update=false path). Expanding
// longest-original-prefix-first and within-length in input order
// reproduces that "first insertion at a slot wins" rule without
// needing the trie itself.
package cpe

import "sort"

// Prefix4 is an IPv4 prefix as read from the prefix file: an
// unreduced, unexpanded (key, length, next hop) triple.
type Prefix4 struct {
	Key     uint32
	Length  uint8
	NextHop uint64
}

// ExpandIPv4 buckets prefixes into three groups by original length —
// [1,strideDLA] expanded to strideDLA, (strideDLA,strideG1] expanded to
// strideG1, (strideG1,32] expanded to 32 — matching cpe.c's three-pass
// dla/g1/g2 split. Length 0 (the default route) is returned unchanged
// in its own slice rather than expanded, since CPE never touches it.
func ExpandIPv4(prefixes []Prefix4, strideDLA, strideG1 uint8) (dla, g1, g2 []Prefix4, defaultRoute []Prefix4) {
	dla = expandBucket(prefixes, 1, strideDLA, strideDLA)
	g1 = expandBucket(prefixes, strideDLA+1, strideG1, strideG1)
	g2 = expandBucket(prefixes, strideG1+1, 32, 32)
	for _, p := range prefixes {
		if p.Length == 0 {
			defaultRoute = append(defaultRoute, p)
		}
	}
	return dla, g1, g2, defaultRoute
}

// ExpandIPv6 expands every prefix of length [1,target] out to length
// target, as one bucket; prefixes longer than target and the length-0
// default route are not part of the result. It exists to mirror
// cpe_v6.c's interface for callers who want a single fixed-length
// class instead of one class per length (IPv6 tables have no DLA
// tier, and each length already gets its own class).
func ExpandIPv6(prefixes []Prefix6, target uint8) (expanded []Prefix6) {
	return expandBucket6(prefixes, 1, target, target)
}

// Prefix6 is Prefix4 for the 64-bit reduced IPv6 key space.
type Prefix6 struct {
	Key     uint64
	Length  uint8
	NextHop uint64
}

type trieNode struct {
	hasNextHop bool
	nextHop    uint64
	left       *trieNode
	right      *trieNode
}

// bit32 extracts bit index (0 = most significant) of a left-aligned,
// canonicalized 32-bit key: the key's meaningful bits are its top
// length bits, always anchored at bit 31 regardless of length, so the
// position is fixed relative to the 32-bit width, not to length.
func bit32(key uint32, index uint8) uint32 {
	return (key >> (31 - index)) & 1
}

func insert32(root *trieNode, key uint32, length uint8, nextHop uint64, allowUpdate bool) {
	n := root
	for i := uint8(0); i < length; i++ {
		if bit32(key, i) == 0 {
			if n.left == nil {
				n.left = &trieNode{}
			}
			n = n.left
		} else {
			if n.right == nil {
				n.right = &trieNode{}
			}
			n = n.right
		}
	}
	if !n.hasNextHop || allowUpdate {
		n.hasNextHop = true
		n.nextHop = nextHop
	}
}

// expandBucket builds one trie from every prefix whose original length
// falls in [start,end], inserted longest-first (ties broken by input
// order) so a more specific original prefix's value always wins a
// contested expansion slot, then expands every leaf out to target and
// collects the results.
func expandBucket(prefixes []Prefix4, start, end, target uint8) []Prefix4 {
	selected := make([]Prefix4, 0, len(prefixes))
	for _, p := range prefixes {
		if p.Length >= start && p.Length <= end {
			selected = append(selected, p)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Length > selected[j].Length })

	root := &trieNode{}
	for _, p := range selected {
		insert32(root, p.Key, p.Length, p.NextHop, false)
	}

	var out []Prefix4
	// Children are walked before their parent, so a slot is first
	// claimed by the most specific prefix covering it; later, shorter
	// expansions skip slots already claimed.
	claimed := make(map[uint32]bool)
	var walk func(n *trieNode, key uint32, length uint8)
	walk = func(n *trieNode, key uint32, length uint8) {
		if n.left != nil {
			walk(n.left, key<<1, length+1)
		}
		if n.right != nil {
			walk(n.right, key<<1|1, length+1)
		}
		if n.hasNextHop {
			k := target - length
			count := uint32(1) << k
			for i := uint32(0); i < count; i++ {
				slot := (key << k) | i
				if !claimed[slot] {
					claimed[slot] = true
					out = append(out, Prefix4{Key: slot, Length: target, NextHop: n.nextHop})
				}
			}
		}
	}
	walk(root, 0, 0)
	return out
}

// bit64 is bit32 for a left-aligned, canonicalized 64-bit key: the
// meaningful bits are anchored at bit 63 regardless of length.
func bit64(key uint64, index uint8) uint64 {
	return (key >> (63 - index)) & 1
}

type trieNode64 struct {
	hasNextHop bool
	nextHop    uint64
	left       *trieNode64
	right      *trieNode64
}

func insert64(root *trieNode64, key uint64, length uint8, nextHop uint64, allowUpdate bool) {
	n := root
	for i := uint8(0); i < length; i++ {
		if bit64(key, i) == 0 {
			if n.left == nil {
				n.left = &trieNode64{}
			}
			n = n.left
		} else {
			if n.right == nil {
				n.right = &trieNode64{}
			}
			n = n.right
		}
	}
	if !n.hasNextHop || allowUpdate {
		n.hasNextHop = true
		n.nextHop = nextHop
	}
}

func expandBucket6(prefixes []Prefix6, start, end, target uint8) []Prefix6 {
	selected := make([]Prefix6, 0, len(prefixes))
	for _, p := range prefixes {
		if p.Length >= start && p.Length <= end {
			selected = append(selected, p)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool { return selected[i].Length > selected[j].Length })

	root := &trieNode64{}
	for _, p := range selected {
		insert64(root, p.Key, p.Length, p.NextHop, false)
	}

	var out []Prefix6
	claimed := make(map[uint64]bool)
	var walk func(n *trieNode64, key uint64, length uint8)
	walk = func(n *trieNode64, key uint64, length uint8) {
		if n.left != nil {
			walk(n.left, key<<1, length+1)
		}
		if n.right != nil {
			walk(n.right, key<<1|1, length+1)
		}
		if n.hasNextHop {
			k := target - length
			count := uint64(1) << k
			for i := uint64(0); i < count; i++ {
				slot := (key << k) | i
				if !claimed[slot] {
					claimed[slot] = true
					out = append(out, Prefix6{Key: slot, Length: target, NextHop: n.nextHop})
				}
			}
		}
	}
	walk(root, 0, 0)
	return out
}

// DistributionEntry is one (prefix length, route count) row, matching
// ipstat.c's "PrefixLength NumberofRoutes" table.
type DistributionEntry struct {
	Length uint8
	Count  uint32
}

// Distribution derives the per-length route counts ipstat.c prints,
// for every length that has at least one prefix. Entries are ordered
// by increasing length.
func Distribution(prefixes []Prefix4) []DistributionEntry {
	var counts [33]uint32
	for _, p := range prefixes {
		counts[p.Length]++
	}
	var out []DistributionEntry
	for length, n := range counts {
		if n > 0 {
			out = append(out, DistributionEntry{Length: uint8(length), Count: n})
		}
	}
	return out
}

// Distribution6 is Distribution for the 64-bit IPv6 key space, over
// lengths [0,64].
func Distribution6(prefixes []Prefix6) []DistributionEntry {
	var counts [65]uint32
	for _, p := range prefixes {
		counts[p.Length]++
	}
	var out []DistributionEntry
	for length, n := range counts {
		if n > 0 {
			out = append(out, DistributionEntry{Length: uint8(length), Count: n})
		}
	}
	return out
}
