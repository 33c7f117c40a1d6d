// Package ingest parses the three ASCII file grammars the core
// consumes at different points in its lifecycle: the distribution
// file (CBF sizing), the prefix file (build-time population,
// including the offline CPE inputs), and the address file
// (query-time). Parsing does no validation beyond what's needed to
// hand a well-typed record to the core; the core itself still fatals
// on anything it considers invalid (an unsized length, an
// un-finalized table) per its own error handling.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"
)

// DistributionRecord is one (netmask, quantity) row: "at most Quantity
// prefixes of length Length will be inserted".
type DistributionRecord struct {
	Length   uint8
	Quantity uint32
}

// Distribution parses the distribution file: one "<netmask> <quantity>"
// record per line.
func Distribution(r io.Reader) ([]DistributionRecord, error) {
	var out []DistributionRecord
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("ingest: distribution: malformed record %q", line)
		}
		length, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("ingest: distribution: bad length %q: %w", fields[0], err)
		}
		quantity, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("ingest: distribution: bad quantity %q: %w", fields[1], err)
		}
		out = append(out, DistributionRecord{Length: uint8(length), Quantity: uint32(quantity)})
	}
	return out, sc.Err()
}

// PrefixV4 is one parsed IPv4 prefix-file record.
type PrefixV4 struct {
	Key     uint32
	Length  uint8
	NextHop uint32
}

// PrefixV6 is one parsed IPv6 prefix-file record, keyed on the full
// 128-bit address (reduction to the 64-bit core key happens in the
// root package via Key6).
type PrefixV6 struct {
	Addr    netip.Addr
	Length  uint8
	NextHop netip.Addr
}

// PrefixesV4 parses an IPv4 prefix file: "A.B.C.D[/L] E.F.G.H" per
// line. A missing /L is inferred from the first non-zero trailing
// octet, per the family's classful-style convention.
func PrefixesV4(r io.Reader) ([]PrefixV4, error) {
	var out []PrefixV4
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("ingest: prefix(v4): malformed record %q", line)
		}

		addrPart, lengthPart, hasLength := strings.Cut(fields[0], "/")
		addr, err := netip.ParseAddr(addrPart)
		if err != nil || !addr.Is4() {
			return nil, fmt.Errorf("ingest: prefix(v4): bad address %q", fields[0])
		}
		octets := addr.As4()
		key := uint32(octets[0])<<24 | uint32(octets[1])<<16 | uint32(octets[2])<<8 | uint32(octets[3])

		var length uint8
		if hasLength {
			l, err := strconv.ParseUint(lengthPart, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("ingest: prefix(v4): bad length %q: %w", lengthPart, err)
			}
			length = uint8(l)
		} else {
			length = inferIPv4Length(octets)
		}

		nextHop, err := netip.ParseAddr(fields[1])
		if err != nil || !nextHop.Is4() {
			return nil, fmt.Errorf("ingest: prefix(v4): bad next hop %q", fields[1])
		}
		nh := nextHop.As4()
		nhKey := uint32(nh[0])<<24 | uint32(nh[1])<<16 | uint32(nh[2])<<8 | uint32(nh[3])

		out = append(out, PrefixV4{Key: key, Length: length, NextHop: nhKey})
	}
	return out, sc.Err()
}

// inferIPv4Length implements the "/L omitted" rule: the length is
// taken from the first non-zero trailing octet, (/32, /24, /16, /8),
// or /0 for 0.0.0.0.
func inferIPv4Length(octets [4]byte) uint8 {
	switch {
	case octets[3] != 0:
		return 32
	case octets[2] != 0:
		return 24
	case octets[1] != 0:
		return 16
	case octets[0] != 0:
		return 8
	default:
		return 0
	}
}

// PrefixesV6 parses an IPv6 prefix file. Prefixes longer than 64 bits
// are not representable in this core's reduced 64-bit IPv6 key, so
// they're reported via skipped rather than stored.
func PrefixesV6(r io.Reader) (prefixes []PrefixV6, skipped int, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, skipped, fmt.Errorf("ingest: prefix(v6): malformed record %q", line)
		}

		addrPart, lengthPart, hasLength := strings.Cut(fields[0], "/")
		addr, perr := netip.ParseAddr(addrPart)
		if perr != nil || !addr.Is6() {
			return nil, skipped, fmt.Errorf("ingest: prefix(v6): bad address %q", fields[0])
		}
		if !hasLength {
			return nil, skipped, fmt.Errorf("ingest: prefix(v6): missing required /L in %q", fields[0])
		}
		l, perr := strconv.ParseUint(lengthPart, 10, 8)
		if perr != nil {
			return nil, skipped, fmt.Errorf("ingest: prefix(v6): bad length %q: %w", lengthPart, perr)
		}
		length := uint8(l)
		if length > 64 {
			skipped++
			continue
		}

		nextHop, perr := netip.ParseAddr(fields[1])
		if perr != nil || !nextHop.Is6() {
			return nil, skipped, fmt.Errorf("ingest: prefix(v6): bad next hop %q", fields[1])
		}

		prefixes = append(prefixes, PrefixV6{Addr: addr, Length: length, NextHop: nextHop})
	}
	return prefixes, skipped, sc.Err()
}

// AddressesV4 parses an address file whose records are plain IPv4
// addresses: a decimal count N on the first line, then N addresses.
func AddressesV4(r io.Reader) ([]uint32, error) {
	sc := bufio.NewScanner(r)
	n, err := scanCount(sc)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, 0, n)
	for i := uint64(0); i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("ingest: address(v4): expected %d addresses, got %d", n, i)
		}
		line := strings.TrimSpace(sc.Text())
		addr, err := netip.ParseAddr(line)
		if err != nil || !addr.Is4() {
			return nil, fmt.Errorf("ingest: address(v4): bad address %q", line)
		}
		octets := addr.As4()
		out = append(out, uint32(octets[0])<<24|uint32(octets[1])<<16|uint32(octets[2])<<8|uint32(octets[3]))
	}
	return out, sc.Err()
}

// AddressesV6 is AddressesV4 for IPv6 addresses.
func AddressesV6(r io.Reader) ([]netip.Addr, error) {
	sc := bufio.NewScanner(r)
	n, err := scanCount(sc)
	if err != nil {
		return nil, err
	}

	out := make([]netip.Addr, 0, n)
	for i := uint64(0); i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("ingest: address(v6): expected %d addresses, got %d", n, i)
		}
		line := strings.TrimSpace(sc.Text())
		addr, err := netip.ParseAddr(line)
		if err != nil || !addr.Is6() {
			return nil, fmt.Errorf("ingest: address(v6): bad address %q", line)
		}
		out = append(out, addr)
	}
	return out, sc.Err()
}

func scanCount(sc *bufio.Scanner) (uint64, error) {
	if !sc.Scan() {
		return 0, fmt.Errorf("ingest: address: missing count line")
	}
	n, err := strconv.ParseUint(strings.TrimSpace(sc.Text()), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("ingest: address: bad count: %w", err)
	}
	return n, nil
}
