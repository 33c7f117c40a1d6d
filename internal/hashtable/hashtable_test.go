package hashtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucch/bloomfwd/hashfunc"
)

func TestStoreAndFind(t *testing.T) {
	tbl := New(64, hashfunc.Murmur3{}, false)

	created := tbl.StoreNextHop(10, 100)
	assert.True(t, created)

	nh, hit := tbl.FindNextHop(10)
	require.True(t, hit)
	assert.EqualValues(t, 100, nh)

	_, hit = tbl.FindNextHop(11)
	assert.False(t, hit)
}

func TestStoreUpdatesInPlace(t *testing.T) {
	tbl := New(8, hashfunc.Murmur3{}, false)

	assert.True(t, tbl.StoreNextHop(5, 1))
	assert.False(t, tbl.StoreNextHop(5, 2))

	nh, hit := tbl.FindNextHop(5)
	require.True(t, hit)
	assert.EqualValues(t, 2, nh)
	assert.Equal(t, 1, tbl.Len(), "update must not create a second entry")
}

func TestDuplicateInsertIsIdempotent(t *testing.T) {
	tbl := New(8, hashfunc.Murmur3{}, false)
	tbl.StoreNextHop(1, 9)
	tbl.StoreNextHop(1, 9)
	assert.Equal(t, 1, tbl.Len())
}

func TestFindWithHashSkipsRecomputation(t *testing.T) {
	tbl := New(32, hashfunc.Murmur3{}, true)
	h := hashfunc.Murmur3{}.Hash64(0xfeed)
	tbl.StoreNextHopWithHash(h, 0xfeed, 77)

	nh, hit := tbl.FindNextHopWithHash(h, 0xfeed)
	require.True(t, hit)
	assert.EqualValues(t, 77, nh)
}

func TestCollisionCount(t *testing.T) {
	tbl := New(1, hashfunc.Murmur3{}, false) // a single bucket forces every key into one chain
	assert.Zero(t, tbl.CollisionCount())

	tbl.StoreNextHop(1, 1)
	assert.Zero(t, tbl.CollisionCount())

	tbl.StoreNextHop(2, 2)
	tbl.StoreNextHop(3, 3)
	assert.EqualValues(t, 3, tbl.CollisionCount())
}
