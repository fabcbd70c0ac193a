package lockmap

import (
	"encoding/binary"
	"hash/maphash"
	"math"
	"reflect"

	"github.com/spaolacci/murmur3"
)

// Hasher computes the hash code of a key.
//
// Equal keys must produce equal hash codes. The sign bit of the result is
// ignored when the code is turned into a bucket index.
type Hasher[K comparable] func(key K) uint64

// Integer is the set of key types accepted by the integer hashers.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// MaphashHasher returns a hasher backed by hash/maphash with a fresh seed.
// It is the default for maps created without WithHasher.
func MaphashHasher[K comparable]() Hasher[K] {
	seed := maphash.MakeSeed()
	return func(key K) uint64 {
		return maphash.Comparable(seed, key)
	}
}

// Murmur3String returns a seedless MurmurHash3 hasher for string keys.
// The same key hashes to the same bucket across processes.
func Murmur3String() Hasher[string] {
	return func(key string) uint64 {
		return murmur3.Sum64([]byte(key))
	}
}

// Murmur3Int returns a MurmurHash3 hasher for integer keys, hashing the
// little-endian 8-byte encoding of the key.
func Murmur3Int[K Integer]() Hasher[K] {
	return func(key K) uint64 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(key))
		return murmur3.Sum64(buf[:])
	}
}

// IdentityInt returns a hasher that uses the integer value itself as the
// hash code. Consecutive keys land in consecutive buckets.
func IdentityInt[K Integer]() Hasher[K] {
	return func(key K) uint64 {
		return uint64(key)
	}
}

// nonNegative clears the sign bit of a hash code.
func nonNegative(h uint64) uint64 {
	return h & math.MaxInt64
}

// nilableKey reports whether values of K can be nil.
func nilableKey[K comparable]() bool {
	switch reflect.TypeFor[K]().Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
