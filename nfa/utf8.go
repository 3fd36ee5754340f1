package nfa

import "unicode/utf8"

// utf8Range is an inclusive byte range at one position of an encoded sequence.
type utf8Range struct {
	lo, hi byte
}

// utf8Sequence matches exactly the encodings of a contiguous block of scalar
// values: one byte range per encoded byte, 1 to 4 ranges long.
type utf8Sequence []utf8Range

// scalarRange is an inclusive range of code points still to be split.
type scalarRange struct {
	lo, hi rune
}

const (
	surrogateLo = 0xD800
	surrogateHi = 0xDFFF
)

// maxScalar[i] is the largest code point encoded in i+1 bytes.
var maxScalar = [3]rune{0x7F, 0x7FF, 0xFFFF}

// utf8Sequences splits the code point range [lo, hi] into byte range
// sequences whose union matches exactly the UTF-8 encodings of the range.
// Surrogates are skipped since they have no UTF-8 encoding.
// Sequences are returned in increasing code point order.
//
// The split works on a stack: a range is cut at encoding length boundaries
// and then at continuation byte boundaries until the encodings of its two
// ends differ only in a way that per-byte ranges can express.
func utf8Sequences(lo, hi rune) []utf8Sequence {
	if hi > utf8.MaxRune {
		hi = utf8.MaxRune
	}
	if lo < 0 {
		lo = 0
	}
	if lo > hi {
		return nil
	}

	var out []utf8Sequence
	stack := []scalarRange{{lo, hi}}

outer:
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for {
			// Cut the surrogate block out.
			if r.lo < surrogateLo && r.hi > surrogateHi {
				stack = append(stack, scalarRange{surrogateHi + 1, r.hi})
				r.hi = surrogateLo - 1
				continue
			}
			if r.lo >= surrogateLo && r.lo <= surrogateHi {
				r.lo = surrogateHi + 1
			}
			if r.hi >= surrogateLo && r.hi <= surrogateHi {
				r.hi = surrogateLo - 1
			}
			if r.lo > r.hi {
				continue outer
			}

			// Cut at encoding length boundaries.
			split := false
			for _, m := range maxScalar {
				if r.lo <= m && m < r.hi {
					stack = append(stack, scalarRange{m + 1, r.hi})
					r.hi = m
					split = true
					break
				}
			}
			if split {
				continue
			}

			if r.hi <= 0x7F {
				out = append(out, utf8Sequence{{byte(r.lo), byte(r.hi)}})
				continue outer
			}

			// Cut until the ends share every byte above the last varying one.
			for i := 1; i < utf8.UTFMax; i++ {
				m := rune(1)<<(6*i) - 1
				if r.lo&^m != r.hi&^m {
					if r.lo&m != 0 {
						stack = append(stack, scalarRange{(r.lo | m) + 1, r.hi})
						r.hi = r.lo | m
						split = true
						break
					}
					if r.hi&m != m {
						stack = append(stack, scalarRange{r.hi &^ m, r.hi})
						r.hi = (r.hi &^ m) - 1
						split = true
						break
					}
				}
			}
			if split {
				continue
			}

			var a, b [utf8.UTFMax]byte
			n := utf8.EncodeRune(a[:], r.lo)
			utf8.EncodeRune(b[:], r.hi)
			seq := make(utf8Sequence, n)
			for i := 0; i < n; i++ {
				seq[i] = utf8Range{a[i], b[i]}
			}
			out = append(out, seq)
			continue outer
		}
	}

	return out
}
