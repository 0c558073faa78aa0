package cache

import (
	"context"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivmalkov/polycache/policy"
	"github.com/ivmalkov/polycache/policy/arc"
	"github.com/ivmalkov/polycache/policy/lfu"
	"github.com/ivmalkov/polycache/policy/lruk"
)

// A mixed workload of concurrent Put/Get/Remove on random keys, repeated
// for each engine. Should pass under `-race` without detector reports.
func TestRace_MixedWorkload(t *testing.T) {
	engines := map[string]policy.Factory[string, []byte]{
		"lru":  nil, // default
		"lfu":  lfu.Factory[string, []byte](),
		"lruk": lruk.Factory[string, []byte](4096, 2),
		"arc":  arc.Factory[string, []byte](2),
	}

	for name, factory := range engines {
		t.Run(name, func(t *testing.T) {
			c, err := New[string, []byte](Options[string, []byte]{
				Capacity: 8_192,
				Shards:   32,
				Engine:   factory,
			})
			if err != nil {
				t.Fatal(err)
			}
			t.Cleanup(func() { _ = c.Close() })

			workers := 4 * runtime.GOMAXPROCS(0)
			keyspace := 50_000
			deadline := time.Now().Add(500 * time.Millisecond)

			var wg sync.WaitGroup
			wg.Add(workers)
			for w := 0; w < workers; w++ {
				go func(id int) {
					defer wg.Done()
					r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
					for time.Now().Before(deadline) {
						k := "k:" + strconv.Itoa(r.Intn(keyspace))
						switch r.Intn(100) {
						case 0, 1, 2, 3, 4: // ~5% — Remove
							_ = c.Remove(k)
						case 5: // ~1% — Purge
							c.Purge()
						case 6, 7, 8, 9, 10, 11, 12, 13, 14, 15: // ~10% — Put
							c.Put(k, []byte("x"))
						default: // ~84% — Get
							c.Get(k)
						}
					}
				}(w)
			}
			wg.Wait()
		})
	}
}

// One hundred goroutines call GetOrLoad on the same key concurrently.
// The Loader should run at most once (flight coalescing).
func TestRace_GetOrLoad(t *testing.T) {
	var calls int64

	c, err := New[string, string](Options[string, string]{
		Capacity: 1024,
		Loader: func(_ context.Context, k string) (string, error) {
			atomic.AddInt64(&calls, 1)
			time.Sleep(2 * time.Millisecond) // simulate I/O
			return "v:" + k, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = c.Close() })

	const goroutines = 100
	key := "same-key"

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := c.GetOrLoad(context.Background(), key)
			if err != nil {
				t.Errorf("GetOrLoad error: %v", err)
				return
			}
			if v != "v:"+key {
				t.Errorf("unexpected value: %q", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got > 1 {
		t.Fatalf("loader should run at most once, got %d", got)
	}
}
