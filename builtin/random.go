package builtin

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Random is the seedable state behind random() and unique-id(). Each
// compilation owns one instance, created at compilation start, so
// concurrent compilations never share sequences; a fixed seed makes
// output reproducible.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
	seq uint64
}

// NewRandom returns state seeded with seed; seed 0 draws from the
// clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a uniform float in [0, 1).
func (r *Random) Float() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// IntN returns a uniform int in [0, n).
func (r *Random) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// UniqueID returns an identifier unique within this compilation,
// stable under a fixed seed.
func (r *Random) UniqueID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("u%x%04x", r.rng.Uint32(), r.seq)
}
