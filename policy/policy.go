// Package policy defines the contract shared by every replacement engine:
// the Engine interface, the Factory used by the sharded wrapper to stamp
// out per-shard instances, the Metrics sink, and the sentinel errors.
package policy

import "errors"

// Sentinel errors returned by engine constructors and Remove.
var (
	// ErrInvalidArgument reports an invalid construction parameter
	// (non-positive capacity or K, negative shard count, …). A shard count
	// of zero is not rejected: the sharded wrapper picks a count itself.
	// Constructors return it wrapped before any state is allocated.
	ErrInvalidArgument = errors.New("policy: invalid argument")

	// ErrNotFound reports a Remove of an absent key. Only the engines that
	// surface removal errors (LRU, LRU-K) return it; LFU and ARC ignore
	// absent keys.
	ErrNotFound = errors.New("policy: key not found")
)

// Engine is a bounded key→value cache with a fixed replacement policy.
// All methods are safe for concurrent use; each engine guards its state
// with internal locks (ARC locks each of its two halves separately).
//
// Typical complexity is amortized O(1): a map lookup plus constant-time
// list adjustments under the engine lock.
type Engine[K comparable, V any] interface {
	// Put inserts or updates k→v. At capacity, inserting a new key evicts
	// exactly one entry chosen by the policy; updates never evict.
	Put(k K, v V)

	// Get returns the value for k and a presence flag. On hit, the entry
	// is promoted according to the policy. A miss leaves resident state
	// unchanged, except for the auxiliary bookkeeping LRU-K and ARC
	// document (history counters, ghost consumption).
	Get(k K) (V, bool)

	// Remove deletes k. LRU and LRU-K return ErrNotFound for an absent
	// key; LFU and ARC return nil regardless.
	Remove(k K) error

	// Purge drops every entry while preserving capacity configuration.
	Purge()

	// Len returns the number of resident entries.
	Len() int
}

// Factory creates engine instances of a given capacity. It binds the
// policy-specific parameters (K, maxAvg, transform threshold, …) so the
// sharded wrapper only has to supply the per-shard capacity.
type Factory[K comparable, V any] interface {
	New(capacity int) (Engine[K, V], error)
}
