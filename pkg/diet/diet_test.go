package diet

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// check verifies ordering, disjointness, non-adjacency, AVL balance and the
// cached heights and cardinalities.
func check(t *testing.T, s Set) {
	t.Helper()
	var walk func(n *node) (h, c int)
	walk = func(n *node) (int, int) {
		if n == nil {
			return 0, 0
		}
		require.LessOrEqual(t, n.iv.Lo, n.iv.Hi)
		hl, cl := walk(n.left)
		hr, cr := walk(n.right)
		require.LessOrEqual(t, hl-hr, 2, "left heavy at %v", n.iv)
		require.LessOrEqual(t, hr-hl, 2, "right heavy at %v", n.iv)
		require.Equal(t, max(hl, hr)+1, n.height)
		require.Equal(t, cl+cr+n.iv.Len(), n.card)
		return n.height, n.card
	}
	walk(s.root)

	ivs := s.Intervals()
	for i := 1; i < len(ivs); i++ {
		require.Greater(t, ivs[i].Lo, ivs[i-1].Hi+1, "intervals %v and %v touch", ivs[i-1], ivs[i])
	}
}

// model is the reference implementation the tree is compared against.
type model map[int]bool

func (m model) add(iv Interval) {
	for x := iv.Lo; x <= iv.Hi; x++ {
		m[x] = true
	}
}

func (m model) remove(iv Interval) {
	for x := iv.Lo; x <= iv.Hi; x++ {
		delete(m, x)
	}
}

func (m model) sorted() []int {
	out := make([]int, 0, len(m))
	for x := range m {
		out = append(out, x)
	}
	sort.Ints(out)
	return out
}

func elements(s Set) []int {
	out := []int{}
	s.Each(func(iv Interval) bool {
		for x := iv.Lo; x <= iv.Hi; x++ {
			out = append(out, x)
		}
		return true
	})
	return out
}

func TestAddMergesAdjacentAndOverlapping(t *testing.T) {
	var s Set
	s = s.Add(Interval{10, 12})
	s = s.Add(Interval{20, 25})
	s = s.Add(Interval{13, 14}) // adjacent to [10,12]
	assert.Equal(t, []Interval{{10, 14}, {20, 25}}, s.Intervals())

	s = s.Add(Interval{14, 21}) // bridges both
	assert.Equal(t, []Interval{{10, 25}}, s.Intervals())
	assert.Equal(t, 16, s.Cardinal())
	check(t, s)
}

func TestRemoveShrinksAndSplits(t *testing.T) {
	s := Set{}.Add(Interval{0, 9}).Add(Interval{20, 29})

	split := s.Remove(Interval{3, 5})
	assert.Equal(t, []Interval{{0, 2}, {6, 9}, {20, 29}}, split.Intervals())

	span := s.Remove(Interval{8, 21})
	assert.Equal(t, []Interval{{0, 7}, {22, 29}}, span.Intervals())

	all := s.Remove(Interval{-5, 100})
	assert.True(t, all.IsEmpty())

	// Persistence: the receiver is untouched.
	assert.Equal(t, []Interval{{0, 9}, {20, 29}}, s.Intervals())
}

func TestTake(t *testing.T) {
	s := Set{}.Add(Interval{0, 4}).Add(Interval{10, 14}).Add(Interval{20, 24})

	taken, rest, ok := s.Take(7)
	require.True(t, ok)
	assert.Equal(t, []Interval{{0, 4}, {10, 11}}, taken.Intervals())
	assert.Equal(t, []Interval{{12, 14}, {20, 24}}, rest.Intervals())
	assert.Equal(t, 7, taken.Cardinal())
	assert.Equal(t, s.Cardinal()-7, rest.Cardinal())

	_, rest, ok = s.Take(16)
	assert.False(t, ok)
	assert.Equal(t, s.Intervals(), rest.Intervals())

	taken, rest, ok = s.Take(0)
	assert.True(t, ok)
	assert.True(t, taken.IsEmpty())
	assert.Equal(t, s.Intervals(), rest.Intervals())
}

func TestChooseRemoveThenAbsent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	var s Set
	for i := 0; i < 50; i++ {
		lo := r.Intn(1 << 20)
		s = s.Add(Interval{lo, lo + r.Intn(9)})
	}

	chosen, ok := s.Choose()
	require.True(t, ok)
	require.True(t, s.Covers(chosen))

	s = s.Remove(chosen)
	assert.False(t, s.Covers(chosen))
	for x := chosen.Lo; x <= chosen.Hi; x++ {
		assert.False(t, s.Mem(x))
	}
	check(t, s)
}

func TestEmpty(t *testing.T) {
	var s Set
	_, ok := s.Choose()
	assert.False(t, ok)
	_, ok = s.Min()
	assert.False(t, ok)
	assert.False(t, s.Mem(0))
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Remove(Interval{0, 10}).IsEmpty())
}

type op struct {
	Remove bool
	Iv     Interval
}

func genOp() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.IntRange(0, 300),
		gen.IntRange(0, 12),
	).Map(func(v []interface{}) op {
		lo := v[1].(int)
		return op{Remove: v[0].(bool), Iv: Interval{lo, lo + v[2].(int)}}
	})
}

func TestProperty_MatchesModel(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("set operations agree with a reference model", prop.ForAll(
		func(ops []op) bool {
			var s Set
			m := model{}
			for _, o := range ops {
				if o.Remove {
					s = s.Remove(o.Iv)
					m.remove(o.Iv)
				} else {
					s = s.Add(o.Iv)
					m.add(o.Iv)
				}
			}
			check(t, s)
			want := m.sorted()
			got := elements(s)
			if len(want) != len(got) || s.Cardinal() != len(want) {
				return false
			}
			for i := range want {
				if want[i] != got[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genOp()),
	))

	properties.Property("take splits off the smallest k integers", prop.ForAll(
		func(ops []op, k int) bool {
			var s Set
			for _, o := range ops {
				s = s.Add(o.Iv)
			}
			taken, rest, ok := s.Take(k)
			if k > s.Cardinal() {
				return !ok
			}
			all := elements(s)
			check(t, taken)
			check(t, rest)
			return ok &&
				equalInts(elements(taken), all[:k]) &&
				equalInts(elements(rest), all[k:])
		},
		gen.SliceOf(genOp()),
		gen.IntRange(0, 400),
	))

	properties.TestingRun(t)
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLargeBalanced(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	var s Set
	for i := 0; i < 20000; i++ {
		lo := r.Intn(1 << 30)
		s = s.Add(Interval{lo, lo + r.Intn(9)})
	}
	check(t, s)
	// With a balance tolerance of 2 the height stays under ~1.8 log2(n).
	assert.LessOrEqual(t, s.root.height, 30)
}
