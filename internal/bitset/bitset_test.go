// Copyright (c) 2024 Karl Gaissmaier
// SPDX-License-Identifier: MIT

//
// Some tests are taken and modified from:
//
//  github.com/bits-and-blooms/bitset
//
// All introduced bugs belong to me!
//
// original license:
// ---------------------------------------------------
// Copyright 2014 Will Fitzgerald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// ---------------------------------------------------

package bitset

import "testing"

func TestNil(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Error("A nil bitset must not panic")
		}
	}()

	b := BitSet(nil)
	b.Set(0)

	b = BitSet(nil)
	b.Clear(1000)

	b = BitSet(nil)
	b.Test(42)
}

func TestSetTest(t *testing.T) {
	var b BitSet
	if b.Test(0) {
		t.Error("empty bitset reports bit 0 as set")
	}

	b.Set(0)
	if !b.Test(0) {
		t.Error("bit 0 not set after Set(0)")
	}

	b.Set(64)
	if !b.Test(64) {
		t.Error("bit 64 not set after Set(64)")
	}
	if !b.Test(0) {
		t.Error("Set(64) clobbered bit 0")
	}
}

func TestTestBeyondCapacityIsFalse(t *testing.T) {
	var b BitSet
	b.Set(10)
	if b.Test(1000) {
		t.Error("Test beyond the bitset's word capacity must report false, not panic or read garbage")
	}
}

func TestClear(t *testing.T) {
	var b BitSet
	b.Set(5)
	b.Set(6)
	b.Clear(5)

	if b.Test(5) {
		t.Error("bit 5 still set after Clear(5)")
	}
	if !b.Test(6) {
		t.Error("Clear(5) clobbered bit 6")
	}
}

func TestClearBeyondCapacityIsNoop(t *testing.T) {
	var b BitSet
	defer func() {
		if r := recover(); r != nil {
			t.Error("Clear beyond capacity must not panic")
		}
	}()
	b.Clear(1000)
}

func TestSetClearRoundTrip(t *testing.T) {
	var b BitSet
	const n = 300
	for i := uint(0); i < n; i += 7 {
		b.Set(i)
	}
	for i := uint(0); i < n; i += 7 {
		if !b.Test(i) {
			t.Fatalf("bit %d not set", i)
		}
	}
	for i := uint(0); i < n; i += 7 {
		b.Clear(i)
		if b.Test(i) {
			t.Fatalf("bit %d still set after Clear", i)
		}
	}
}
