package lockmap

import "math"

// entry is one link of a bucket chain.
type entry[K comparable, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

// table is a fixed-size array of chain heads. It is never accessed without
// the owning Map's mutex held.
type table[K comparable, V any] struct {
	buckets []*entry[K, V]
}

func newTable[K comparable, V any](capacity int) *table[K, V] {
	return &table[K, V]{buckets: make([]*entry[K, V], capacity)}
}

func (t *table[K, V]) capacity() int {
	return len(t.buckets)
}

// find returns the entry holding key in bucket idx, or nil.
func (t *table[K, V]) find(idx int, key K) *entry[K, V] {
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

// prepend links a new entry at the head of bucket idx.
func (t *table[K, V]) prepend(idx int, key K, value V) {
	t.buckets[idx] = &entry[K, V]{key: key, value: value, next: t.buckets[idx]}
}

// unlink removes the entry holding key from bucket idx and returns it.
func (t *table[K, V]) unlink(idx int, key K) *entry[K, V] {
	var prev *entry[K, V]
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.key != key {
			prev = e
			continue
		}
		if prev == nil {
			t.buckets[idx] = e.next
		} else {
			prev.next = e.next
		}
		e.next = nil
		return e
	}
	return nil
}

// grown returns a table of twice the capacity holding every entry of t.
// Entries are moved, not copied: each one is relinked at the head of its
// new bucket and t is left empty. ok is false when doubling would overflow.
func (t *table[K, V]) grown(indexOf func(K, int) int) (next *table[K, V], ok bool) {
	if t.capacity() > math.MaxInt/2 {
		return t, false
	}
	next = newTable[K, V](t.capacity() * 2)
	for i, e := range t.buckets {
		for e != nil {
			following := e.next
			idx := indexOf(e.key, next.capacity())
			e.next = next.buckets[idx]
			next.buckets[idx] = e
			e = following
		}
		t.buckets[i] = nil
	}
	return next, true
}

// chainLen returns the number of entries in bucket idx.
func (t *table[K, V]) chainLen(idx int) int {
	n := 0
	for e := t.buckets[idx]; e != nil; e = e.next {
		n++
	}
	return n
}
