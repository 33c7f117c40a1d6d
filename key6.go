package bloomfwd

import "net/netip"

// Key6 reduces a 128-bit IPv6 address to the 64-bit key this package's
// IPv6 tables are keyed by, by taking the address's upper 64 bits (the
// network-relevant half for every prefix length this package supports,
// since IPv6 classes only go up to length 64).
func Key6(addr netip.Addr) uint64 {
	addr = addr.Unmap()
	b := addr.As16()
	var hi uint64
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(b[i])
	}
	return hi
}
