package bloomfwd

// LookupBatch resolves every address in addrs the same way
// LookupAddress does, but organizes the work by class instead of by
// address: each populated length is scanned once across every
// still-unresolved address before moving to the next (shorter) length,
// the way a SIMD-friendly implementation would vectorize the hash and
// Bloom-query step across a batch instead of repeating it scalar,
// per-address, per-class.
//
// The two entry points must be bit-identical: flipping the loop nest
// from address-outer to class-outer cannot change which class answers
// a given address, because each address's scan order (classes longest
// to shortest, then the DLA, then default) is unaffected by what
// happens to any other address in the batch.
func (t *Table[K]) LookupBatch(addrs []K) (nextHops []uint64, found []bool, err error) {
	if t.state != stateQueriable {
		return nil, nil, errNotQueriable
	}

	n := len(addrs)
	nextHops = make([]uint64, n)
	found = make([]bool, n)
	resolved := make([]bool, n)
	remaining := n

	for _, length := range t.byLengthDesc {
		if remaining == 0 {
			break
		}
		c := t.classes[length]
		for i, addr := range addrs {
			if resolved[i] {
				continue
			}
			key := canonicalKey(addr, t.width, length)
			h1 := c.primaryHash(key)
			if !c.cbf.QueryWithHash(h1) {
				continue
			}
			if nh, hit := c.ht.FindNextHopWithHash(h1, uint64(key)); hit {
				nextHops[i], found[i], resolved[i] = nh, true, true
				remaining--
			}
		}
	}

	if t.dla.enabled() && remaining > 0 {
		for i, addr := range addrs {
			if resolved[i] {
				continue
			}
			if nh, hit := t.dla.lookup(uint64(addr), uint64(t.width)); hit {
				nextHops[i], found[i], resolved[i] = nh, true, true
				remaining--
			}
		}
	}

	if t.hasDefault && remaining > 0 {
		for i := range addrs {
			if !resolved[i] {
				nextHops[i], found[i] = t.defaultNextHop, true
			}
		}
	}

	return nextHops, found, nil
}
