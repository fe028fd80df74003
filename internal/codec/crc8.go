package codec

// crcPolynomial is x^8 + x^2 + x + 1 as an MSB-first bit pattern.
var crcPolynomial = []int{1, 0, 0, 0, 0, 0, 1, 1, 1}

// crc8 computes the 8-bit checksum over a 37-bit payload in natural
// MSB-first order.
//
// The format prescribes an unusual buffer layout before the division:
// the payload is left-padded with 3 zero bits to a whole 5 bytes, then the
// 8-bit chunks are reordered back-to-front (byte order reversed, bit order
// within each byte kept). The decoder stores media bits reversed, so its
// verification path reverses them back to natural order before calling
// this.
func crc8(bits []int) []int {
	padded := make([]int, 0, 3+len(bits))
	padded = append(padded, 0, 0, 0)
	padded = append(padded, bits...)

	reordered := make([]int, 0, len(padded))
	for i := len(padded) - 8; i >= 0; i -= 8 {
		reordered = append(reordered, padded[i:i+8]...)
	}

	degree := len(crcPolynomial) - 1
	remainder := make([]int, len(reordered)+degree)
	copy(remainder, reordered)

	// Binary polynomial long division: XOR the polynomial into the window
	// at every set bit.
	for i := range reordered {
		if remainder[i] == 1 {
			for j, p := range crcPolynomial {
				remainder[i+j] ^= p
			}
		}
	}

	return remainder[len(reordered):]
}
