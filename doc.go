// Copyright (c) 2016 Alexandre Lucchesi
// SPDX-License-Identifier: MIT

// Package bloomfwd implements the data-plane of a longest-prefix-match
// (LPM) IP forwarding table.
//
// Given a routing table of network prefixes and their next-hop
// addresses, bloomfwd answers: for this destination address, which
// next hop should a router forward the packet to?
//
// The lookup structure is a composite of three tiers, probed
// longest-prefix-first:
//
//   - a Direct Lookup Array (DLA), a dense array indexed by the top
//     bits of the address, resolving any prefix up to a fixed stride
//     length in a single read;
//   - per-prefix-length-class Counting Bloom Filters, used as
//     negative-lookup oracles in front of;
//   - per-class chained hash tables, storing the exact
//     prefix-key -> next-hop mapping.
//
// Table is generic over the key width: IPv4 keys are 32-bit, IPv6 keys
// are the reduced 64-bit upper half of the address. A Table is built
// once (sized -> populated -> queriable, via Size, StorePrefix and
// Finalize) and is
// then immutable and safe for unlimited concurrent readers; there is
// no dynamic insert/delete on the lookup hot path.
//
// Package cpe implements the offline Controlled Prefix Expansion
// preprocessor that produces the DLA and per-class prefix streams a
// Table ingests. Package hashfunc implements the pluggable
// hash-function family shared by the Bloom filters and hash tables.
package bloomfwd
