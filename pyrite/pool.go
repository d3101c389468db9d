// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pyrite

// This file defines the variable pool, the arena that owns every
// value bound to a name.
//
// A slot holds one Object and a reference count. Storing a value equal
// to one already pooled returns the existing id, so two variables
// holding equal values share a slot. A slot is removed when its count
// drops to zero, and the ids its object refers to are released in turn.
//
// Ownership: an object that has not been handed to the pool owns one
// reference to each id in its attribute table and list payload. Store
// transfers those references to the slot, or gives them back when the
// value is deduplicated.

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// A PoolID is the opaque handle of a pool slot.
type PoolID string

type slot struct {
	obj   *Object
	count int
	hash  uint64
}

// A Pool is a deduplicating, reference-counted store of objects.
// It is not safe for concurrent use.
type Pool struct {
	slots   map[PoolID]*slot
	buckets map[uint64][]PoolID // fingerprint -> ids
	newID   func() PoolID
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		slots:   make(map[PoolID]*slot),
		buckets: make(map[uint64][]PoolID),
		newID:   func() PoolID { return PoolID(uuid.NewString()) },
	}
}

// Store adds o to the pool and returns its id.
// If an equal object is already pooled, its count is incremented and
// its id returned; otherwise o occupies a new slot with count 1.
// After Store, o must not be modified.
func (p *Pool) Store(o *Object) PoolID {
	h := fingerprint(o)
	if id, ok := p.find(h, o); ok {
		p.slots[id].count++
		if !o.pooled {
			p.releaseRefs(o)
			o.pooled = true
		}
		return id
	}
	if o.pooled {
		o = o.Clone(p)
	}
	o.pooled = true
	id := p.newID()
	p.slots[id] = &slot{obj: o, count: 1, hash: h}
	p.buckets[h] = append(p.buckets[h], id)
	return id
}

func (p *Pool) find(h uint64, o *Object) (PoolID, bool) {
	for _, id := range p.buckets[h] {
		if p.slots[id].obj.Equal(o) {
			return id, true
		}
	}
	return "", false
}

// Get returns the object in slot id.
func (p *Pool) Get(id PoolID) (*Object, bool) {
	s, ok := p.slots[id]
	if !ok {
		return nil, false
	}
	return s.obj, true
}

// Update moves one reference from slot id to the value o and returns
// the id now holding it. When id holds the only reference and o is
// not equal to another pooled value, the slot is reused in place.
func (p *Pool) Update(id PoolID, o *Object) PoolID {
	s, ok := p.slots[id]
	if !ok {
		panic(fmt.Sprintf("pool: Update of unknown id %s", id))
	}
	if s.obj == o {
		return id
	}
	h := fingerprint(o)
	if other, found := p.find(h, o); found || s.count > 1 {
		if other == id {
			// Equal to the current value: keep the slot, drop o.
			if !o.pooled {
				p.releaseRefs(o)
				o.pooled = true
			}
			return id
		}
		newID := p.Store(o)
		p.Release(id)
		return newID
	}
	if o.pooled {
		o = o.Clone(p)
	}
	o.pooled = true
	old := s.obj
	p.unbucket(s.hash, id)
	s.obj, s.hash = o, h
	p.buckets[h] = append(p.buckets[h], id)
	p.releaseRefs(old)
	return id
}

// Retain increments the count of slot id.
func (p *Pool) Retain(id PoolID) {
	s, ok := p.slots[id]
	if !ok {
		panic(fmt.Sprintf("pool: Retain of unknown id %s", id))
	}
	s.count++
}

// Release decrements the count of slot id, removing the slot when the
// count reaches zero. Releasing an unknown id is a no-op.
func (p *Pool) Release(id PoolID) {
	s, ok := p.slots[id]
	if !ok {
		return
	}
	s.count--
	if s.count > 0 {
		return
	}
	delete(p.slots, id)
	p.unbucket(s.hash, id)
	p.releaseRefs(s.obj)
}

func (p *Pool) releaseRefs(o *Object) {
	for _, ref := range o.refs() {
		p.Release(ref)
	}
}

// Drop releases the references held by a temporary value, such as
// the result of Eval or ExecStmts, once the client is done with it.
// Pooled values are unaffected. o must not be used afterwards.
func (p *Pool) Drop(o *Object) { p.drop(o) }

// drop releases the references held by a temporary value.
// Pooled values are unaffected.
func (p *Pool) drop(o *Object) {
	if o != nil && !o.pooled {
		p.releaseRefs(o)
		o.pooled = true
	}
}

func (p *Pool) unbucket(h uint64, id PoolID) {
	ids := p.buckets[h]
	for i, x := range ids {
		if x == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(p.buckets, h)
	} else {
		p.buckets[h] = ids
	}
}

// Count returns the reference count of slot id, or zero if there is none.
func (p *Pool) Count(id PoolID) int {
	if s, ok := p.slots[id]; ok {
		return s.count
	}
	return 0
}

// Len returns the number of slots.
func (p *Pool) Len() int { return len(p.slots) }

// fingerprint hashes the parts of o that Equal compares.
// Equal objects have equal fingerprints.
func fingerprint(o *Object) uint64 {
	d := xxhash.New()
	d.WriteString(o.identity)
	d.WriteString("\x00")
	var buf [8]byte
	switch x := o.data.(type) {
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(x))
		d.Write(buf[:])
	case float64:
		if x == 0 {
			x = 0 // -0.0 == 0.0
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		d.Write(buf[:])
	case bool:
		if x {
			d.WriteString("T")
		} else {
			d.WriteString("F")
		}
	case string:
		d.WriteString(x)
	case []PoolID:
		for _, id := range x {
			d.WriteString(string(id))
			d.WriteString(",")
		}
	case *Function:
		d.WriteString(x.Name)
	case *Class:
		d.WriteString(x.Name)
	case *Builtin:
		d.WriteString(x.Name)
	case *BoundMethod:
		d.WriteString(x.Name)
	}
	d.WriteString("\x00")
	for _, name := range o.AttrNames() {
		d.WriteString(name)
		d.WriteString("=")
		d.WriteString(string(o.attrs[name]))
		d.WriteString(";")
	}
	d.WriteString("\x00")
	names := make([]string, 0, len(o.methods))
	for name := range o.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d.WriteString(name)
		d.WriteString("=")
		fmt.Fprint(d, o.methods[name])
		d.WriteString(";")
	}
	return d.Sum64()
}
