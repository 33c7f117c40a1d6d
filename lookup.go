package bloomfwd

// LookupAddress resolves addr to its longest-matching next hop. The
// scan order is: every populated class longest length first, each
// gated by its Bloom filter so the hash table is probed only when the
// filter reports a possible match, then the DLA (if enabled, resolving
// every length in [1,stride] in O(1)), then finally the default route
// if one was stored. Classes are always strictly more specific than
// anything the DLA can resolve (Size and StorePrefix both fatal on a
// class length <= the DLA stride), so the DLA must only be consulted
// once every class has missed.
//
// Every class probed after a Bloom hit that turns out to be a false
// positive falls through to the next (shorter) class exactly as if
// the filter had not been consulted at all: the filter can only ever
// skip work, never change the answer.
func (t *Table[K]) LookupAddress(addr K) (nextHop uint64, found bool, err error) {
	if t.state != stateQueriable {
		return 0, false, errNotQueriable
	}

	for _, length := range t.byLengthDesc {
		c := t.classes[length]
		key := canonicalKey(addr, t.width, length)

		h1 := c.primaryHash(key)
		if !c.cbf.QueryWithHash(h1) {
			continue
		}
		if nh, hit := c.ht.FindNextHopWithHash(h1, uint64(key)); hit {
			return nh, true, nil
		}
		// Bloom false positive: no entry for this (key, length); fall
		// through to the next shorter class.
	}

	if t.dla.enabled() {
		if nh, hit := t.dla.lookup(uint64(addr), uint64(t.width)); hit {
			return nh, true, nil
		}
	}

	if t.hasDefault {
		return t.defaultNextHop, true, nil
	}

	return 0, false, nil
}
