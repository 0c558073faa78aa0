//go:build go1.18

package cache

import (
	"errors"
	"strings"
	"testing"

	"github.com/ivmalkov/polycache/policy"
)

// Fuzz basic Put/Get/Remove semantics under arbitrary string inputs.
// Guards against panics and ensures the core invariants hold.
// NOTE: key/value lengths are capped to avoid pathological memory usage
// during fuzzing (this does not weaken the invariants we check).
func FuzzCache_PutGetRemove(f *testing.F) {
	// Seed corpus: empty, ASCII, Unicode, long strings.
	f.Add("", "")
	f.Add("a", "1")
	f.Add("b", "2")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12 // 4096
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c, err := New[string, string](Options[string, string]{Capacity: 16})
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = c.Close() })

		// Put → Get must return the same value.
		c.Put(k, v)
		got, ok := c.Get(k)
		if !ok || got != v {
			t.Fatalf("after Put/Get: want %q, got %q ok=%v", v, got, ok)
		}

		// Overwrite must win.
		c.Put(k, v+"!")
		if got, ok := c.Get(k); !ok || got != v+"!" {
			t.Fatalf("after overwrite: want %q, got %q ok=%v", v+"!", got, ok)
		}

		// Remove must delete and succeed exactly once.
		if err := c.Remove(k); err != nil {
			t.Fatalf("Remove: %v", err)
		}
		if _, ok := c.Get(k); ok {
			t.Fatal("key must be absent after Remove")
		}
		if err := c.Remove(k); !errors.Is(err, policy.ErrNotFound) {
			t.Fatalf("second Remove: err = %v", err)
		}

		// The key is insertable again after removal.
		c.Put(k, v)
		if got, ok := c.Get(k); !ok || got != v {
			t.Fatalf("after re-Put: want %q, got %q ok=%v", v, got, ok)
		}
	})
}
