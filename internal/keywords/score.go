// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

// Score returns the number of keywords a and b have in common. The count is
// not normalized by text length: callers rank by it, nothing more.
func Score(a, b string) int {
	return Overlap(Extract(a), Extract(b))
}

// Overlap returns the size of the intersection of a and b.
func Overlap(a, b Set) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if b.Has(k) {
			n++
		}
	}
	return n
}
