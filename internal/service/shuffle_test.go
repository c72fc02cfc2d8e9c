package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShufflerProducesPermutation(t *testing.T) {
	s := NewShuffler()
	for i := 0; i < 20; i++ {
		perm := s.Perm(10)
		assert.Len(t, perm, 10)
		seen := make(map[int]bool, 10)
		for _, v := range perm {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, 10)
			seen[v] = true
		}
		assert.Len(t, seen, 10)
	}
}
