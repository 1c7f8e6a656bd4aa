package resample

import (
	"fmt"
	"math"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Core-building is relatively expensive (Kaiser window + polyphase bank
// reorder), and the same (fs,fd,a,q) combination is commonly requested by
// many independent graphs in the same process, so a process-wide cache
// shares Core instances (spec.md §4.6 "Core cache"). go-cache expires each
// entry 30 minutes after it is stored (a Get does not extend that) and its
// janitor removes expired entries every 10 minutes; singleflight collapses
// concurrent first-build requests for the same key into one NewCore call.
var (
	cacheMu    sync.Mutex
	coreCache  = gocache.New(30*time.Minute, 10*time.Minute)
	buildGroup singleflight.Group
)

// toleranceKey quantizes Params into a cache key. Exact fs/fd must match;
// a and q are rounded to buckets as wide as the tolerances spec.md §4.6
// names (|Δa| < 0.1 dB, |q/q'-1| < 0.001), so requests landing in the same
// bucket share one Core. Two requests within tolerance that fall on either
// side of a bucket edge get separate Cores.
func toleranceKey(p Params) string {
	aBucket := math.Round(p.A * 10)                          // 0.1 dB buckets
	qBucket := math.Round(math.Log(p.Q) / math.Log1p(0.001)) // 0.001 relative buckets
	return fmt.Sprintf("%d:%d:%d:%d", p.Fs, p.Fd, int(aBucket), int(qBucket))
}

// GetCore returns a shared Core for p, building and caching one if no
// matching entry exists yet. Concurrent callers requesting the same key
// block on a single underlying NewCore call.
func GetCore(p Params) (*Core, error) {
	key := toleranceKey(p)

	cacheMu.Lock()
	if v, ok := coreCache.Get(key); ok {
		cacheMu.Unlock()
		return v.(*Core), nil
	}
	cacheMu.Unlock()

	v, err, _ := buildGroup.Do(key, func() (any, error) {
		cacheMu.Lock()
		if v, ok := coreCache.Get(key); ok {
			cacheMu.Unlock()
			return v, nil
		}
		cacheMu.Unlock()

		core, err := NewCore(p)
		if err != nil {
			return nil, err
		}
		cacheMu.Lock()
		coreCache.SetDefault(key, core)
		cacheMu.Unlock()
		return core, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Core), nil
}

// ResetCache clears every cached Core — used by tests and by process
// teardown paths that want a clean process-wide cache state.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	coreCache.Flush()
}
