// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

import (
	"math"
	"testing"
)

func TestPoolDedup(t *testing.T) {
	p := NewPool()
	a := p.Store(MakeInt(1))
	b := p.Store(MakeInt(1))
	if a != b {
		t.Errorf("equal ints stored at %s and %s, want one slot", a, b)
	}
	if got := p.Count(a); got != 2 {
		t.Errorf("Count = %d, want 2", got)
	}
	for _, o := range []*Object{MakeInt(2), MakeFloat(1), MakeBool(true), MakeString("1")} {
		if id := p.Store(o); id == a {
			t.Errorf("Store(%v) shares the slot of int(1)", o)
		}
	}
	if got := p.Len(); got != 5 {
		t.Errorf("Len = %d, want 5", got)
	}

	// -0.0 == 0.0, so they share a slot; NaN is equal to nothing.
	if z, nz := p.Store(MakeFloat(0)), p.Store(MakeFloat(math.Copysign(0, -1))); z != nz {
		t.Errorf("0.0 and -0.0 stored at different slots")
	}
	if x, y := p.Store(MakeFloat(math.NaN())), p.Store(MakeFloat(math.NaN())); x == y {
		t.Errorf("two NaNs share a slot")
	}
}

func TestPoolRelease(t *testing.T) {
	p := NewPool()
	id := p.Store(MakeString("x"))
	p.Retain(id)
	p.Release(id)
	if _, ok := p.Get(id); !ok {
		t.Fatalf("slot removed while count > 0")
	}
	p.Release(id)
	if _, ok := p.Get(id); ok {
		t.Errorf("slot survives release of its last reference")
	}
	p.Release(id) // no-op
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
}

func TestPoolListCascade(t *testing.T) {
	p := NewPool()
	l := MakeList(p, []*Object{MakeInt(1), MakeString("x")})
	ids := l.Data().([]PoolID)
	id := p.Store(l)

	// An equal list reuses the slot and gives back its element references.
	l2 := MakeList(p, []*Object{MakeInt(1), MakeString("x")})
	if id2 := p.Store(l2); id2 != id {
		t.Errorf("equal lists stored at different slots")
	}
	for _, elem := range ids {
		if got := p.Count(elem); got != 1 {
			t.Errorf("element count = %d, want 1", got)
		}
	}
	if got := p.Len(); got != 3 {
		t.Errorf("Len = %d, want 3", got)
	}

	p.Release(id)
	p.Release(id)
	if got := p.Len(); got != 0 {
		t.Errorf("after release, Len = %d, want 0 (elements should be released)", got)
	}
}

func TestPoolUpdate(t *testing.T) {
	p := NewPool()

	// Sole owner: the slot is reused in place.
	id := p.Store(MakeInt(1))
	if got := p.Update(id, MakeInt(5)); got != id {
		t.Errorf("Update of a sole reference moved the slot")
	}
	if v, _ := p.Get(id); v.Data() != int64(5) {
		t.Errorf("after Update, slot holds %v, want 5", v)
	}

	// Equal to another slot: the reference moves there.
	other := p.Store(MakeInt(7))
	if got := p.Update(id, MakeInt(7)); got != other {
		t.Errorf("Update to an existing value returned %s, want %s", got, other)
	}
	if p.Count(other) != 2 {
		t.Errorf("Count = %d, want 2", p.Count(other))
	}
	if _, ok := p.Get(id); ok {
		t.Errorf("old slot survives Update")
	}

	// Shared slot: the other owners keep the old value.
	shared := p.Store(MakeString("s"))
	p.Retain(shared)
	moved := p.Update(shared, MakeString("t"))
	if moved == shared {
		t.Errorf("Update of a shared slot modified it in place")
	}
	if v, _ := p.Get(shared); v.Data() != "s" || p.Count(shared) != 1 {
		t.Errorf("shared slot = %v (count %d), want str(s) (count 1)", v, p.Count(shared))
	}
}

func TestCloneRetains(t *testing.T) {
	p := NewPool()
	o := NewObject("P")
	o.SetAttr(p, "x", MakeInt(1))
	id := p.Store(o)
	xid, _ := o.Attr("x")

	c := o.Clone(p)
	if got := p.Count(xid); got != 2 {
		t.Errorf("attribute count after Clone = %d, want 2", got)
	}
	c.SetAttr(p, "x", MakeInt(2))
	if got := p.Count(xid); got != 1 {
		t.Errorf("attribute count after SetAttr on clone = %d, want 1", got)
	}
	if c.Equal(o) {
		t.Errorf("modified clone is equal to the original")
	}
	p.drop(c)
	p.Release(id)
	if got := p.Len(); got != 0 {
		t.Errorf("Len = %d, want 0", got)
	}
}
