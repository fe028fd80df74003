package codec

// grayTable maps a 3-bit group value to its bar height. Adjacent heights
// differ in exactly one bit, so a bar misread by one level corrupts a
// single bit.
var grayTable = [8]int{0, 1, 3, 2, 7, 6, 4, 5}

// grayInverse maps a bar height back to its 3-bit group value.
var grayInverse = func() [8]int {
	var inv [8]int
	for i, h := range grayTable {
		inv[h] = i
	}
	return inv
}()

// heightsFromBits groups a bit vector into triplets and maps each through
// the Gray table. A trailing partial triplet is zero-padded.
func heightsFromBits(bits []int) []int {
	heights := make([]int, 0, (len(bits)+2)/3)
	for i := 0; i < len(bits); i += 3 {
		triplet := [3]int{}
		copy(triplet[:], bits[i:min(i+3, len(bits))])
		heights = append(heights, grayTable[bitsToInt(triplet[:])])
	}
	return heights
}

// bitsFromHeights expands bar heights back into concatenated 3-bit groups.
// Heights must already be validated to [0,7].
func bitsFromHeights(heights []int) []int {
	bits := make([]int, 0, 3*len(heights))
	for _, h := range heights {
		bits = append(bits, intToBits(uint64(grayInverse[h]), 3)...)
	}
	return bits
}
