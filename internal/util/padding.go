package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize matches common x86/ARM cache line geometry.
const CacheLineSize = 64

// CacheLinePad separates groups of hot fields into distinct cache lines
// to avoid false sharing between them.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicUint64 is an atomic uint64 occupying exactly one cache line.
// Use for counters bumped from many goroutines at once.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

// Compile-time check: exactly one cache line.
var _ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte
var _ [int(unsafe.Sizeof(PaddedAtomicUint64{})) - CacheLineSize]byte
