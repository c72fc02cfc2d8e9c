package service

import "math/rand"

// Shuffler produces a uniform random permutation of n items. Team draws go
// through this so tests can inject a deterministic permutation and assert
// exact partitions.
type Shuffler interface {
	Perm(n int) []int
}

type mathRandShuffler struct{}

// NewShuffler returns the default shuffler backed by math/rand
// (auto-seeded, safe for concurrent use).
func NewShuffler() Shuffler {
	return mathRandShuffler{}
}

func (mathRandShuffler) Perm(n int) []int {
	return rand.Perm(n)
}
