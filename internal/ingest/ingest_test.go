package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistributionParsesRecords(t *testing.T) {
	in := "24 1000\n32 2000\n"
	records, err := Distribution(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, DistributionRecord{Length: 24, Quantity: 1000}, records[0])
	assert.Equal(t, DistributionRecord{Length: 32, Quantity: 2000}, records[1])
}

func TestDistributionRejectsMalformedLine(t *testing.T) {
	_, err := Distribution(strings.NewReader("24\n"))
	assert.Error(t, err)
}

func TestPrefixesV4WithExplicitLength(t *testing.T) {
	in := "192.168.0.0/24 10.0.0.1\n"
	prefixes, err := PrefixesV4(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, prefixes, 1)
	assert.EqualValues(t, 24, prefixes[0].Length)
	assert.EqualValues(t, 0xC0A80000, prefixes[0].Key)
}

func TestPrefixesV4InfersLengthFromTrailingOctet(t *testing.T) {
	cases := []struct {
		addr       string
		wantLength uint8
	}{
		{"192.168.1.5 10.0.0.1", 32},
		{"192.168.1.0 10.0.0.1", 24},
		{"192.0.0.0 10.0.0.1", 8},
		{"0.0.0.0 10.0.0.1", 0},
	}
	for _, c := range cases {
		prefixes, err := PrefixesV4(strings.NewReader(c.addr))
		require.NoError(t, err)
		require.Len(t, prefixes, 1)
		assert.Equalf(t, c.wantLength, prefixes[0].Length, "line %q", c.addr)
	}
}

func TestPrefixesV6SkipsOverlongPrefixes(t *testing.T) {
	in := "2001:db8::/48 2001:db8::1\n2001:db8:1::/96 2001:db8::1\n"
	prefixes, skipped, err := PrefixesV6(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, prefixes, 1)
	assert.EqualValues(t, 48, prefixes[0].Length)
}

func TestAddressesV4ReadsDeclaredCount(t *testing.T) {
	in := "2\n10.0.0.1\n10.0.0.2\n"
	addrs, err := AddressesV4(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.EqualValues(t, 0x0A000001, addrs[0])
}

func TestAddressesV4ErrorsOnShortFile(t *testing.T) {
	in := "3\n10.0.0.1\n"
	_, err := AddressesV4(strings.NewReader(in))
	assert.Error(t, err)
}
