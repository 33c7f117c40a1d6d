package bloomfwd

import (
	"net/netip"
	"testing"

	"github.com/lucch/bloomfwd/hashfunc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ip4(s string) uint32 {
	addr := netip.MustParseAddr(s)
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// TestEndToEndScenarios runs the concrete end-to-end scenarios table
// (E1-E7): one subtest per row, each building a fresh table, storing
// its prefixes, and asserting the expected lookup outcome.
func TestEndToEndScenarios(t *testing.T) {
	t.Run("E1_slash8_covers_address", func(t *testing.T) {
		tbl := NewIPv4Table(0, hashfunc.Murmur3{})
		require.NoError(t, tbl.Size([]ClassSize{{Length: 8, N: 4, P: 0.01}}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.0.0.0"), Length: 8, NextHop: 1}))
		require.NoError(t, tbl.Finalize())

		nh, found, err := tbl.LookupAddress(ip4("10.20.30.40"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 1, nh)
	})

	t.Run("E2_longest_of_three_nested_prefixes", func(t *testing.T) {
		tbl := NewIPv4Table(0, hashfunc.Murmur3{})
		require.NoError(t, tbl.Size([]ClassSize{
			{Length: 8, N: 4, P: 0.01},
			{Length: 16, N: 4, P: 0.01},
			{Length: 24, N: 4, P: 0.01},
		}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.0.0.0"), Length: 8, NextHop: 10}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.1.0.0"), Length: 16, NextHop: 20}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.1.2.0"), Length: 24, NextHop: 30}))
		require.NoError(t, tbl.Finalize())

		nh, found, err := tbl.LookupAddress(ip4("10.1.2.3"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 30, nh)
	})

	t.Run("E3_falls_back_to_shorter_covering_prefix", func(t *testing.T) {
		tbl := NewIPv4Table(0, hashfunc.Murmur3{})
		require.NoError(t, tbl.Size([]ClassSize{
			{Length: 8, N: 4, P: 0.01},
			{Length: 16, N: 4, P: 0.01},
			{Length: 24, N: 4, P: 0.01},
		}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.0.0.0"), Length: 8, NextHop: 10}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.1.0.0"), Length: 16, NextHop: 20}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.1.2.0"), Length: 24, NextHop: 30}))
		require.NoError(t, tbl.Finalize())

		nh, found, err := tbl.LookupAddress(ip4("10.1.3.3"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 20, nh)
	})

	t.Run("E4_miss_with_no_default", func(t *testing.T) {
		tbl := NewIPv4Table(0, hashfunc.Murmur3{})
		require.NoError(t, tbl.Size([]ClassSize{
			{Length: 8, N: 4, P: 0.01},
			{Length: 16, N: 4, P: 0.01},
			{Length: 24, N: 4, P: 0.01},
		}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.0.0.0"), Length: 8, NextHop: 10}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.1.0.0"), Length: 16, NextHop: 20}))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: ip4("10.1.2.0"), Length: 24, NextHop: 30}))
		require.NoError(t, tbl.Finalize())

		_, found, err := tbl.LookupAddress(ip4("11.0.0.1"))
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("E5_default_route", func(t *testing.T) {
		tbl := NewIPv4Table(0, hashfunc.Murmur3{})
		require.NoError(t, tbl.Size(nil))
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: 0, Length: 0, NextHop: 99}))
		require.NoError(t, tbl.Finalize())

		nh, found, err := tbl.LookupAddress(ip4("8.8.8.8"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 99, nh)
	})

	t.Run("E6_class0_beats_class1_beats_dla", func(t *testing.T) {
		tbl := NewIPv4Table(20, hashfunc.Murmur3{})
		require.NoError(t, tbl.Size([]ClassSize{
			{Length: 24, N: 4, P: 0.01},
			{Length: 32, N: 4, P: 0.01},
		}))
		addr := ip4("192.168.1.0")
		dlaKey := canonicalKey(addr, 32, 20)
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: dlaKey, Length: 20, NextHop: 300})) // DLA
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: addr, Length: 32, NextHop: 100}))    // X
		require.NoError(t, tbl.StorePrefix(Prefix[uint32]{Key: addr, Length: 24, NextHop: 200}))    // Y
		require.NoError(t, tbl.Finalize())

		nh, found, err := tbl.LookupAddress(addr)
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 100, nh, "class 0 (/32) must win over class 1 (/24) and the DLA")
	})

	t.Run("E7_ipv6_slash32_covers_address", func(t *testing.T) {
		tbl := NewIPv6Table(hashfunc.Murmur3{})
		require.NoError(t, tbl.Size([]ClassSize{{Length: 32, N: 4, P: 0.01}}))

		prefixAddr := netip.MustParseAddr("2001:db8::")
		require.NoError(t, tbl.StorePrefix(Prefix[uint64]{Key: Key6(prefixAddr), Length: 32, NextHop: 1}))
		require.NoError(t, tbl.Finalize())

		queryAddr := netip.MustParseAddr("2001:0db8:0000:0000:0000:0000:0000:0001")
		nh, found, err := tbl.LookupAddress(Key6(queryAddr))
		require.NoError(t, err)
		assert.True(t, found)
		assert.EqualValues(t, 1, nh)
	})
}
