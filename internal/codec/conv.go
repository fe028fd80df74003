package codec

// Generator polynomials of the rate-1/2 convolutional code, MSB-first.
var (
	genG0 = []int{1, 1, 0, 1, 1, 0, 1}
	genG1 = []int{1, 0, 0, 1, 1, 1, 1}
)

// convolve runs the tail-biting convolution of bits with one generator
// polynomial. Instead of zero padding, the last len(poly)-1 bits are
// prepended as wrap-around context, so the output has exactly len(bits)
// parity bits and no framing overhead.
func convolve(bits, poly []int) []int {
	memory := len(poly) - 1
	full := make([]int, 0, memory+len(bits))
	full = append(full, bits[len(bits)-memory:]...)
	full = append(full, bits...)

	parity := make([]int, len(bits))
	for i := range bits {
		p := 0
		for j, g := range poly {
			p ^= full[i+j] * g
		}
		parity[i] = p
	}
	return parity
}
