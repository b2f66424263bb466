package gen

import "math/rand"

// Shuffle permutes s in place with Fisher-Yates: for i from len(s)-1 down to
// 1, swap s[i] with s[j] for j uniform in [0, i].
func Shuffle[T any](r *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
