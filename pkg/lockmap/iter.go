package lockmap

// Range calls fn for every entry until fn returns false.
//
// Entries are visited in bucket order, which carries no meaning. The whole
// walk holds the map's lock, so the view is consistent, but fn must not call
// any method of the same map.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.table.buckets {
		for ; e != nil; e = e.next {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

// Stats is a point-in-time description of the table.
type Stats struct {
	Size         int
	Capacity     int
	LoadFactor   float64
	Resizes      uint64
	UsedBuckets  int
	LongestChain int
}

// Threshold returns the size at which the next Put grows the table.
func (s Stats) Threshold() float64 {
	return float64(s.Capacity) * s.LoadFactor
}

// Stats returns statistics about the table. It walks every bucket.
func (m *Map[K, V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		Size:       m.size,
		Capacity:   m.table.capacity(),
		LoadFactor: m.loadFactor,
		Resizes:    m.resizes,
	}
	for i := range m.table.buckets {
		n := m.table.chainLen(i)
		if n == 0 {
			continue
		}
		s.UsedBuckets++
		if n > s.LongestChain {
			s.LongestChain = n
		}
	}
	return s
}
