// Package gen produces the pseudo-random inputs fed to the benchmarks:
// block contents, intervals and visiting orders.
package gen

import (
	"math/rand"
	"time"

	"github.com/runningwild/microbench/pkg/diet"
)

// Source wraps a seeded generator so a run can be replayed from its seed.
type Source struct {
	r    *rand.Rand
	seed int64

	// Interval shape.
	Domain  int
	MaxSpan int
}

// New returns a Source seeded with seed, or with the current time if seed is 0.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{
		r:       rand.New(rand.NewSource(seed)),
		seed:    seed,
		Domain:  1 << 30,
		MaxSpan: 8,
	}
}

func (s *Source) Seed() int64 { return s.seed }

func (s *Source) Rand() *rand.Rand { return s.r }

// Bytes returns n random bytes.
func (s *Source) Bytes(n int) []byte {
	buf := make([]byte, n)
	s.Fill(buf)
	return buf
}

// Fill overwrites buf with random bytes.
func (s *Source) Fill(buf []byte) {
	// (*rand.Rand).Read never fails.
	_, _ = s.r.Read(buf)
}

// Interval draws the lower bound uniformly from [0, Domain) and the width
// uniformly from [0, MaxSpan].
func (s *Source) Interval() diet.Interval {
	lo := s.r.Intn(s.Domain)
	return diet.Interval{Lo: lo, Hi: lo + s.r.Intn(s.MaxSpan+1)}
}

// Offsets returns the block-aligned offsets {0, bs, ..., (n-1)*bs} in a
// uniformly random order.
func (s *Source) Offsets(n, blockSize int) []int64 {
	offs := make([]int64, n)
	for i := range offs {
		offs[i] = int64(i) * int64(blockSize)
	}
	Shuffle(s.r, offs)
	return offs
}
