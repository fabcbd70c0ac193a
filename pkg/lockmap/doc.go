// Package lockmap provides a chained hash map guarded by a single mutex.
//
// The map is meant to be shared by many goroutines that interleave writes
// and reads over the same key space:
//
//   - Chaining: each bucket is a singly linked list of entries
//   - Coarse Locking: one sync.Mutex covers the table, every chain and the size
//   - Growth: capacity doubles once size reaches capacity*loadFactor
//   - Linearizable: every operation holds the lock for its whole body
//
// Usage:
//
//	m, err := lockmap.New[int, string](lockmap.WithCapacity(32))
//	if err != nil {
//		return err
//	}
//	m.Put(1, "User-1")
//	val, ok := m.Get(1)
//
// Thread Safety:
//
// All operations are thread-safe. There is no read-only fast path: Get and
// Size take the same exclusive lock as Put and Remove, so no caller ever
// observes a table that is being resized or a chain that is being relinked.
package lockmap
