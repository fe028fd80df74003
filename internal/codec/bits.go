package codec

// intToBits expands value into an MSB-first bit slice of the given length.
// Bits above the requested length are truncated; range validation is the
// caller's responsibility.
func intToBits(value uint64, length int) []int {
	bits := make([]int, length)
	for i := 0; i < length; i++ {
		bits[i] = int((value >> (length - 1 - i)) & 1)
	}
	return bits
}

// bitsToInt folds an MSB-first bit slice back into an integer.
func bitsToInt(bits []int) uint64 {
	var value uint64
	for _, b := range bits {
		value = (value << 1) | uint64(b)
	}
	return value
}

// reverseBits returns a copy of bits in reverse order.
func reverseBits(bits []int) []int {
	out := make([]int, len(bits))
	for i, b := range bits {
		out[len(bits)-1-i] = b
	}
	return out
}

// permute spreads bits by selecting every step-th element mod the length:
// out[i] = bits[(i*step) % len].
func permute(bits []int, step int) []int {
	n := len(bits)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = bits[(i*step)%n]
	}
	return out
}

// unpermute reverses permute. It is only a true inverse when
// step * step' == 1 (mod len); for the 60-bit stage the encoder uses
// step 7 and the decoder step 43 (7*43 = 301 = 1 mod 60).
func unpermute(bits []int, step int) []int {
	n := len(bits)
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = bits[(i*step)%n]
	}
	return out
}

// puncture drops every third bit (1-based), raising the code rate from
// 1/2 to 3/4. The 90 interleaved parity bits become 60.
func puncture(bits []int) []int {
	out := make([]int, 0, len(bits)-len(bits)/3)
	for i, b := range bits {
		if (i+1)%3 != 0 {
			out = append(out, b)
		}
	}
	return out
}

// selectBasis45 keeps the 45 positions of a 60-bit vector whose index is
// not 2 mod 4. This is not an inverse of puncture (which acts on 90 bits);
// it picks the column basis on which the inverse generator matrix is
// defined.
func selectBasis45(bits []int) []int {
	out := make([]int, 0, 45)
	for i := 0; i < 60; i++ {
		if i%4 != 2 {
			out = append(out, bits[i])
		}
	}
	return out
}

// interleave alternates two equal-length parity streams: a0,b0,a1,b1,...
func interleave(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	for i := range a {
		out = append(out, a[i], b[i])
	}
	return out
}
