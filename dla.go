package bloomfwd

// dla is the Direct Lookup Array: a dense index covering every prefix
// whose length does not exceed the stride S. entries[i] == 0 means "no
// DLA entry" (the all-zero next hop is treated as absent; a real
// all-zero next hop can never be stored here — it would be
// indistinguishable from "no entry", matching the source's encoding).
//
// IPv6 has no DLA tier (stride 0): §3 gives IPv6 one class per length
// in [1,64], which already resolves any prefix length in a single
// per-class probe without needing a dense stride array.
type dla struct {
	entries []uint64
	stride  uint8 // 0 means "no DLA for this table"
}

func newDLA(stride uint8) dla {
	if stride == 0 {
		return dla{}
	}
	return dla{entries: make([]uint64, uint64(1)<<stride), stride: stride}
}

func (d *dla) enabled() bool { return d.stride != 0 }

// store writes a canonicalized key (already expanded to length ==
// stride by the offline CPE pass) into its DLA slot. created is true
// iff the slot was previously empty.
func (d *dla) store(canonicalKey, width uint64, nextHop uint64) (created bool) {
	idx := canonicalKey >> (width - uint64(d.stride))
	created = d.entries[idx] == 0
	d.entries[idx] = nextHop
	return created
}

// lookup reads the DLA slot for address addr.
func (d *dla) lookup(addr, width uint64) (nextHop uint64, hit bool) {
	idx := addr >> (width - uint64(d.stride))
	nh := d.entries[idx]
	return nh, nh != 0
}
