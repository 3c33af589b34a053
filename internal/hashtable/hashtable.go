// Package hashtable implements the open-addressed, power-of-two-capacity
// name table behind the DTD store's entity, notation and element-type maps.
//
// Keys are the name bytes each entry reports through Key(); entries store
// whatever payload the owner needs behind the key. The table never shrinks
// and never removes entries one at a time — the DTD model resets it wholesale
// by discarding the table and allocating a fresh one.
package hashtable

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Seed is the per-parser keying material mixed into every hash computed by
// a Table. Two Tables with different Seeds produce different bucket orders
// for the same keys, which is the whole point: it makes bucket-collision
// attacks (the Go analogue of expat's SipHash reseeding) useless against a
// caller that can't observe the seed.
type Seed struct {
	lo, hi uint64
}

// NewSeed draws 128 bits of entropy from crypto/rand. Tests that need
// reproducible bucket order should use NewSeedFrom instead.
func NewSeed() Seed {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand.Read never fails on supported platforms; fall back to
		// a fixed seed rather than panic so parser construction never errors
		// out because the entropy source hiccuped.
		return Seed{lo: 0x9e3779b97f4a7c15, hi: 0xbf58476d1ce4e5b9}
	}
	return Seed{
		lo: binary.LittleEndian.Uint64(buf[0:8]),
		hi: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

// NewSeedFrom builds a deterministic Seed, for fuzzers and tests that need
// stable bucket ordering across runs.
func NewSeedFrom(lo, hi uint64) Seed {
	return Seed{lo: lo, hi: hi}
}

func (s Seed) hash(key []byte) uint64 {
	d := xxhash.New()
	var prefix [16]byte
	binary.LittleEndian.PutUint64(prefix[0:8], s.lo)
	binary.LittleEndian.PutUint64(prefix[8:16], s.hi)
	_, _ = d.Write(prefix[:])
	_, _ = d.Write(key)
	return d.Sum64()
}

// Entry is anything storable in the table; Key must return the same bytes
// (the interned name) for the lifetime of the entry.
type Entry interface {
	Key() []byte
}

// Table is an open-addressed hash table with linear probing, capacity
// always a power of two, and load factor capped at one half.
type Table struct {
	seed    Seed
	buckets []Entry
	count   int
}

// New creates an empty table with the given seed and an initial capacity of
// at least minCap (rounded up to a power of two, minimum 8).
func New(seed Seed, minCap int) *Table {
	cap := 8
	for cap < minCap {
		cap *= 2
	}
	return &Table{seed: seed, buckets: make([]Entry, cap)}
}

// Len returns the number of entries stored.
func (t *Table) Len() int { return t.count }

func (t *Table) index(key []byte) int {
	mask := uint64(len(t.buckets) - 1)
	return int(t.seed.hash(key) & mask)
}

// Lookup returns the entry for key, or nil if absent.
func (t *Table) Lookup(key []byte) Entry {
	if len(t.buckets) == 0 {
		return nil
	}
	mask := len(t.buckets) - 1
	i := t.index(key)
	for probe := 0; probe < len(t.buckets); probe++ {
		slot := t.buckets[(i+probe)&mask]
		if slot == nil {
			return nil
		}
		if string(slot.Key()) == string(key) {
			return slot
		}
	}
	return nil
}

// Insert adds entry under its own Key(), growing the table first if the
// load factor would exceed one half. Returns the previous entry with the
// same key, if any (callers that want "insert if absent" semantics should
// Lookup first).
func (t *Table) Insert(entry Entry) Entry {
	if (t.count+1)*2 > len(t.buckets) {
		t.grow()
	}
	return t.insertNoGrow(entry)
}

func (t *Table) insertNoGrow(entry Entry) Entry {
	mask := len(t.buckets) - 1
	key := entry.Key()
	i := t.index(key)
	for probe := 0; probe < len(t.buckets); probe++ {
		slot := (i + probe) & mask
		existing := t.buckets[slot]
		if existing == nil {
			t.buckets[slot] = entry
			t.count++
			return nil
		}
		if string(existing.Key()) == string(key) {
			t.buckets[slot] = entry
			return existing
		}
	}
	// unreachable: grow() keeps load factor <= 1/2
	panic("hashtable: table full")
}

func (t *Table) grow() {
	old := t.buckets
	t.buckets = make([]Entry, len(old)*2)
	t.count = 0
	for _, e := range old {
		if e != nil {
			t.insertNoGrow(e)
		}
	}
}

// Each calls fn for every stored entry, in bucket order (undefined relative
// to insertion order; the table keeps no record of declaration order).
func (t *Table) Each(fn func(Entry)) {
	for _, e := range t.buckets {
		if e != nil {
			fn(e)
		}
	}
}
