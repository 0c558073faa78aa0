// Package util contains internal helpers (hashing, sharding, padding).
package util

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// Hash64 maps common key types to a 64-bit routing hash. String and byte
// keys go through murmur3; integer keys use a cheap avalanche mix instead
// of serializing through a hasher. Unsupported key types panic so that a
// silently degenerate shard distribution cannot ship: convert the key to a
// string or supply a custom hasher in Options.
func Hash64[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return murmur3.Sum64([]byte(v))
	case []byte:
		return murmur3.Sum64(v)
	case [16]byte:
		return murmur3.Sum64(v[:])
	case [32]byte:
		return murmur3.Sum64(v[:])

	case uint8:
		return mix64(uint64(v))
	case uint16:
		return mix64(uint64(v))
	case uint32:
		return mix64(uint64(v))
	case uint64:
		return mix64(v)
	case uint:
		return mix64(uint64(v))
	case uintptr:
		return mix64(uint64(v))
	case int8:
		return mix64(uint64(uint8(v)))
	case int16:
		return mix64(uint64(uint16(v)))
	case int32:
		return mix64(uint64(uint32(v)))
	case int64:
		return mix64(uint64(v))
	case int:
		return mix64(uint64(v))

	case fmt.Stringer:
		return murmur3.Sum64([]byte(v.String()))
	default:
		panic(fmt.Sprintf("util.Hash64: unsupported key type %T; convert the key to string or provide a custom hasher", k))
	}
}

// mix64 is the splitmix64 finalizer: enough avalanche that sequential
// integer keys spread across shards instead of clustering.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
