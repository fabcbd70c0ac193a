package lockmap

import (
	"fmt"
	"math"
	"sync"
)

// Default construction parameters.
const (
	DefaultCapacity   = 16
	DefaultLoadFactor = 0.75
)

// Map is a concurrent-safe chained hash map.
//
// A single mutex guards the table reference, every bucket chain and the
// element counter. The zero value is not usable; create maps with New.
type Map[K comparable, V any] struct {
	mu         sync.Mutex
	table      *table[K, V]
	size       int
	loadFactor float64
	resizes    uint64

	hash     Hasher[K]
	nilable  bool
	onResize func(ResizeEvent)
}

// ResizeEvent describes one growth of the table.
type ResizeEvent struct {
	OldCapacity int
	NewCapacity int
	// Size is the number of entries at the time of the resize, before
	// the insertion that triggered it.
	Size int
}

// Option configures a Map.
type Option func(*options)

type options struct {
	capacity   int
	loadFactor float64
	hasher     any
	onResize   func(ResizeEvent)
}

// WithCapacity sets the initial number of buckets.
func WithCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithLoadFactor sets the occupancy ratio at which the table doubles.
func WithLoadFactor(loadFactor float64) Option {
	return func(o *options) {
		o.loadFactor = loadFactor
	}
}

// WithHasher sets the hash function used to place keys in buckets.
// The hasher's key type must match the map's key type.
func WithHasher[K comparable](h Hasher[K]) Option {
	return func(o *options) {
		o.hasher = h
	}
}

// WithResizeHook registers fn to be called after each table growth.
// fn runs after the map's lock has been released, on the goroutine whose
// Put triggered the growth.
func WithResizeHook(fn func(ResizeEvent)) Option {
	return func(o *options) {
		o.onResize = fn
	}
}

// New creates a map. Without options it starts with DefaultCapacity buckets
// and DefaultLoadFactor.
func New[K comparable, V any](opts ...Option) (*Map[K, V], error) {
	o := options{
		capacity:   DefaultCapacity,
		loadFactor: DefaultLoadFactor,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.capacity <= 0 {
		return nil, &ConfigError{Field: "capacity", Value: o.capacity, Reason: "must be positive"}
	}
	if !(o.loadFactor > 0) || math.IsInf(o.loadFactor, 1) {
		return nil, &ConfigError{Field: "load factor", Value: o.loadFactor, Reason: "must be a finite positive number"}
	}

	hash := MaphashHasher[K]()
	if o.hasher != nil {
		h, ok := o.hasher.(Hasher[K])
		if !ok {
			return nil, &ConfigError{Field: "hasher", Value: fmt.Sprintf("%T", o.hasher), Reason: "does not match the key type"}
		}
		hash = h
	}

	return &Map[K, V]{
		table:      newTable[K, V](o.capacity),
		loadFactor: o.loadFactor,
		hash:       hash,
		nilable:    nilableKey[K](),
		onResize:   o.onResize,
	}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[K comparable, V any](opts ...Option) *Map[K, V] {
	m, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// indexOf maps a key to a bucket of a table with the given capacity.
// A nil key always lives in bucket 0.
func (m *Map[K, V]) indexOf(key K, capacity int) int {
	if m.nilable {
		var zero K
		if key == zero {
			return 0
		}
	}
	return int(nonNegative(m.hash(key)) % uint64(capacity))
}

// Put stores value under key and returns the value it replaced.
// replaced is false when key was not present before the call.
func (m *Map[K, V]) Put(key K, value V) (prev V, replaced bool) {
	prev, replaced, ev := m.put(key, value)
	if ev != nil && m.onResize != nil {
		m.onResize(*ev)
	}
	return prev, replaced
}

func (m *Map[K, V]) put(key K, value V) (prev V, replaced bool, ev *ResizeEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev = m.growIfNeeded()

	idx := m.indexOf(key, m.table.capacity())
	if e := m.table.find(idx, key); e != nil {
		prev, e.value = e.value, value
		return prev, true, ev
	}

	m.table.prepend(idx, key, value)
	m.size++
	return prev, false, ev
}

// growIfNeeded doubles the table when the current occupancy has reached the
// load factor. The decision uses the size before the pending insertion.
// Must be called with m.mu held.
func (m *Map[K, V]) growIfNeeded() *ResizeEvent {
	old := m.table.capacity()
	if float64(m.size) < float64(old)*m.loadFactor {
		return nil
	}
	next, ok := m.table.grown(m.indexOf)
	if !ok {
		return nil
	}
	m.table = next
	m.resizes++
	return &ResizeEvent{OldCapacity: old, NewCapacity: next.capacity(), Size: m.size}
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.table.find(m.indexOf(key, m.table.capacity()), key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held.
// Removing an absent key leaves the map unchanged and returns false.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.table.unlink(m.indexOf(key, m.table.capacity()), key); e != nil {
		m.size--
		return e.value, true
	}
	var zero V
	return zero, false
}

// Size returns the number of entries.
func (m *Map[K, V]) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size == 0
}

// Capacity returns the current number of buckets.
func (m *Map[K, V]) Capacity() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table.capacity()
}

// LoadFactor returns the configured load factor.
func (m *Map[K, V]) LoadFactor() float64 {
	return m.loadFactor
}
