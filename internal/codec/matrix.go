package codec

import "sync"

// convBaseRows are the three 45-bit base rows of the inverse generator
// matrix. They capture how the two generator polynomials interact with the
// interleave/puncture/basis-selection pattern; all 45 matrix rows are
// cyclic shifts of these.
var convBaseRows = [3][]int{
	append([]int{0, 1, 0, 1, 1, 1, 1, 0, 1, 1, 0, 0, 0, 1}, make([]int, 31)...),
	append([]int{1, 0, 1, 0, 1, 0, 1, 0, 0, 0, 1, 1, 1}, make([]int, 32)...),
	append([]int{0, 0, 1, 0, 1, 1, 1, 1, 1, 1, 0, 0, 1}, make([]int, 32)...),
}

// inverseMatrix builds the constant 45x45 GF(2) matrix that inverts the
// convolutional encoding restricted to the retained 45-column basis.
// Row s (for s = 27..71) is base row (s-27) mod 3 rotated right by s.
// Built once; read-only afterwards.
var inverseMatrix = sync.OnceValue(func() [][]int {
	m := make([][]int, 0, 45)
	for s := 27; s < 72; s++ {
		m = append(m, rotateRight(convBaseRows[(s-27)%3], s))
	}
	return m
})

// rotateRight cyclically shifts a bit row to the right.
func rotateRight(row []int, shift int) []int {
	n := len(row)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = row[((i-shift)%n+n)%n]
	}
	return out
}

// mulGF2 multiplies a row vector by a matrix over GF(2): out[j] is the
// dot product of vec with column j, mod 2.
func mulGF2(vec []int, m [][]int) []int {
	out := make([]int, len(m[0]))
	for j := range out {
		sum := 0
		for i, v := range vec {
			sum ^= v & m[i][j]
		}
		out[j] = sum
	}
	return out
}
