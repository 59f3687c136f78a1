package nlu

// Ratio computes a Ratcliff/Obershelp similarity ratio between two strings,
// in [0, 1]. It mirrors the classic sequence-matcher ratio: twice the number
// of matching characters divided by the total length. Callers are expected
// to lowercase their inputs; the comparison itself is byte-exact.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchTotal(a, b)) / float64(total)
}

// matchTotal sums matching characters by finding the longest common
// substring and recursing on the unmatched pieces to its left and right.
func matchTotal(a, b string) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	n := size
	n += matchTotal(a[:ai], b[:bi])
	n += matchTotal(a[ai+size:], b[bi+size:])
	return n
}

// longestMatch returns the start offsets and length of the longest common
// substring of a and b. Earlier matches win ties, matching the reference
// sequence-matcher behavior.
func longestMatch(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// lengths[j] holds the match length ending at a[i-1], b[j-1] for the
	// previous row of the DP table.
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
