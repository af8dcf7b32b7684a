package training

import (
	"math/rand"
	"sync"
	"time"
)

// Sampler draws random permutations and samples from a single random source.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSampler creates a sampler over src. A nil src is seeded from the clock.
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Sampler{rnd: rand.New(src)}
}

// NewSeededSampler creates a sampler with a fixed seed
func NewSeededSampler(seed int64) *Sampler {
	return NewSampler(rand.NewSource(seed))
}

func (s *Sampler) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

// Shuffle returns a uniformly random permutation of items.
// The input slice is not modified.
func Shuffle[T any](s *Sampler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := s.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Sample returns n distinct elements of items in random order.
// When items holds n or fewer elements the whole slice is shuffled.
func Sample[T any](s *Sampler, items []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	shuffled := Shuffle(s, items)
	if len(shuffled) <= n {
		return shuffled
	}
	return shuffled[:n]
}

// Pick returns one random element of items
func Pick[T any](s *Sampler, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[s.intn(len(items))], true
}
