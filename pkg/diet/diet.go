// Package diet implements a discrete interval encoding tree: a set of
// integers stored as a balanced tree of disjoint, non-adjacent closed
// intervals.
//
// Sets are persistent. Every operation returns a new Set and leaves the
// receiver untouched, so a fixture can be shared by value without copying.
package diet

import "fmt"

// Interval is the closed range [Lo, Hi]. Lo <= Hi.
type Interval struct {
	Lo, Hi int
}

// Len is the number of integers in the interval.
func (iv Interval) Len() int { return iv.Hi - iv.Lo + 1 }

func (iv Interval) String() string { return fmt.Sprintf("[%d, %d]", iv.Lo, iv.Hi) }

type node struct {
	iv          Interval
	left, right *node
	height      int
	card        int // Integers covered by the subtree
}

// Set is a persistent set of integers. The zero value is the empty set.
type Set struct {
	root *node
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func card(n *node) int {
	if n == nil {
		return 0
	}
	return n.card
}

func mk(l *node, iv Interval, r *node) *node {
	return &node{
		iv:     iv,
		left:   l,
		right:  r,
		height: max(height(l), height(r)) + 1,
		card:   card(l) + card(r) + iv.Len(),
	}
}

// bal rebuilds a node whose subtrees differ in height by at most 3.
func bal(l *node, iv Interval, r *node) *node {
	hl, hr := height(l), height(r)
	if hl > hr+2 {
		if height(l.left) >= height(l.right) {
			return mk(l.left, l.iv, mk(l.right, iv, r))
		}
		lr := l.right
		return mk(mk(l.left, l.iv, lr.left), lr.iv, mk(lr.right, iv, r))
	}
	if hr > hl+2 {
		if height(r.right) >= height(r.left) {
			return mk(mk(l, iv, r.left), r.iv, r.right)
		}
		rl := r.left
		return mk(mk(l, iv, rl.left), rl.iv, mk(rl.right, r.iv, r.right))
	}
	return mk(l, iv, r)
}

// join builds a balanced tree from l < iv < r for subtrees of any heights.
func join(l *node, iv Interval, r *node) *node {
	switch {
	case l == nil:
		return addMin(iv, r)
	case r == nil:
		return addMax(iv, l)
	case l.height > r.height+2:
		return bal(l.left, l.iv, join(l.right, iv, r))
	case r.height > l.height+2:
		return bal(join(l, iv, r.left), r.iv, r.right)
	}
	return mk(l, iv, r)
}

func addMin(iv Interval, n *node) *node {
	if n == nil {
		return mk(nil, iv, nil)
	}
	return bal(addMin(iv, n.left), n.iv, n.right)
}

func addMax(iv Interval, n *node) *node {
	if n == nil {
		return mk(nil, iv, nil)
	}
	return bal(n.left, n.iv, addMax(iv, n.right))
}

func minInterval(n *node) Interval {
	for n.left != nil {
		n = n.left
	}
	return n.iv
}

func removeMin(n *node) *node {
	if n.left == nil {
		return n.right
	}
	return bal(removeMin(n.left), n.iv, n.right)
}

// concat joins two trees where every element of l is below every element of r.
func concat(l, r *node) *node {
	if l == nil {
		return r
	}
	if r == nil {
		return l
	}
	return join(l, minInterval(r), removeMin(r))
}

// Add returns s with every integer of iv inserted. Overlapping and adjacent
// members are merged into a single interval.
func (s Set) Add(iv Interval) Set {
	return Set{root: add(s.root, iv.Lo, iv.Hi)}
}

func add(n *node, x, y int) *node {
	if n == nil {
		return mk(nil, Interval{x, y}, nil)
	}
	if y < n.iv.Lo-1 {
		return join(add(n.left, x, y), n.iv, n.right)
	}
	if x > n.iv.Hi+1 {
		return join(n.left, n.iv, add(n.right, x, y))
	}
	l, lo := absorbLeft(n.left, min(x, n.iv.Lo))
	r, hi := absorbRight(n.right, max(y, n.iv.Hi))
	return join(l, Interval{lo, hi}, r)
}

// absorbLeft drops from n every interval touching [lo, +inf) and returns the
// lowest bound among them.
func absorbLeft(n *node, lo int) (*node, int) {
	if n == nil {
		return nil, lo
	}
	if lo > n.iv.Hi+1 {
		r, lo := absorbLeft(n.right, lo)
		return join(n.left, n.iv, r), lo
	}
	if lo < n.iv.Lo {
		return absorbLeft(n.left, lo)
	}
	return n.left, n.iv.Lo
}

// absorbRight is the mirror of absorbLeft.
func absorbRight(n *node, hi int) (*node, int) {
	if n == nil {
		return nil, hi
	}
	if hi < n.iv.Lo-1 {
		l, hi := absorbRight(n.left, hi)
		return join(l, n.iv, n.right), hi
	}
	if hi > n.iv.Hi {
		return absorbRight(n.right, hi)
	}
	return n.right, n.iv.Hi
}

// Remove returns s without any integer of iv. Members partially covered by iv
// are shrunk or split.
func (s Set) Remove(iv Interval) Set {
	return Set{root: remove(s.root, iv.Lo, iv.Hi)}
}

func remove(n *node, x, y int) *node {
	if n == nil {
		return nil
	}
	if y < n.iv.Lo {
		return join(remove(n.left, x, y), n.iv, n.right)
	}
	if x > n.iv.Hi {
		return join(n.left, n.iv, remove(n.right, x, y))
	}

	l, r := n.left, n.right
	if x < n.iv.Lo {
		l = remove(l, x, y)
	}
	if y > n.iv.Hi {
		r = remove(r, x, y)
	}
	keepLo := n.iv.Lo < x
	keepHi := y < n.iv.Hi
	switch {
	case keepLo && keepHi:
		return join(l, Interval{n.iv.Lo, x - 1}, join(nil, Interval{y + 1, n.iv.Hi}, r))
	case keepLo:
		return join(l, Interval{n.iv.Lo, x - 1}, r)
	case keepHi:
		return join(l, Interval{y + 1, n.iv.Hi}, r)
	}
	return concat(l, r)
}

// Mem reports whether x is in s.
func (s Set) Mem(x int) bool {
	n := s.root
	for n != nil {
		switch {
		case x < n.iv.Lo:
			n = n.left
		case x > n.iv.Hi:
			n = n.right
		default:
			return true
		}
	}
	return false
}

// Covers reports whether every integer of iv is in s.
func (s Set) Covers(iv Interval) bool {
	n := s.root
	for n != nil {
		switch {
		case iv.Lo < n.iv.Lo:
			n = n.left
		case iv.Lo > n.iv.Hi:
			n = n.right
		default:
			return iv.Hi <= n.iv.Hi
		}
	}
	return false
}

// Choose returns a member interval. It is the interval stored at the root,
// so the choice is deterministic for a given tree but otherwise arbitrary.
func (s Set) Choose() (Interval, bool) {
	if s.root == nil {
		return Interval{}, false
	}
	return s.root.iv, true
}

// Min returns the lowest member interval.
func (s Set) Min() (Interval, bool) {
	if s.root == nil {
		return Interval{}, false
	}
	return minInterval(s.root), true
}

// Take splits off the k smallest integers of s. taken holds them and rest
// holds everything else. ok is false, and s is returned as rest, when s has
// fewer than k integers.
func (s Set) Take(k int) (taken, rest Set, ok bool) {
	if k < 0 || k > s.Cardinal() {
		return Set{}, s, false
	}
	if k == 0 {
		return Set{}, s, true
	}
	var pieces []Interval
	need := k
	s.Each(func(iv Interval) bool {
		if iv.Len() >= need {
			pieces = append(pieces, Interval{iv.Lo, iv.Lo + need - 1})
			return false
		}
		pieces = append(pieces, iv)
		need -= iv.Len()
		return true
	})
	taken = Set{root: fromSorted(pieces)}
	rest = s.Remove(Interval{pieces[0].Lo, pieces[len(pieces)-1].Hi})
	return taken, rest, true
}

func fromSorted(ivs []Interval) *node {
	if len(ivs) == 0 {
		return nil
	}
	mid := len(ivs) / 2
	return mk(fromSorted(ivs[:mid]), ivs[mid], fromSorted(ivs[mid+1:]))
}

// Cardinal is the number of integers in s.
func (s Set) Cardinal() int { return card(s.root) }

// Len is the number of intervals in s.
func (s Set) Len() int {
	n := 0
	s.Each(func(Interval) bool {
		n++
		return true
	})
	return n
}

func (s Set) IsEmpty() bool { return s.root == nil }

// Each calls fn on every interval in ascending order until fn returns false.
func (s Set) Each(fn func(Interval) bool) {
	each(s.root, fn)
}

func each(n *node, fn func(Interval) bool) bool {
	if n == nil {
		return true
	}
	return each(n.left, fn) && fn(n.iv) && each(n.right, fn)
}

// Intervals returns the members in ascending order.
func (s Set) Intervals() []Interval {
	var out []Interval
	s.Each(func(iv Interval) bool {
		out = append(out, iv)
		return true
	})
	return out
}
