package codec

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestIntToBits(t *testing.T) {
	assert.Equal(t, []int{0, 1, 0, 1}, intToBits(5, 4))
	assert.Equal(t, []int{1, 1, 1, 1}, intToBits(15, 4))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 1, 0, 1}, intToBits(5, 10))
	// High bits beyond the requested length are truncated.
	assert.Equal(t, []int{1, 1, 1, 1}, intToBits(0xff, 4))
}

func TestBitsToInt(t *testing.T) {
	assert.Equal(t, uint64(5), bitsToInt([]int{0, 1, 0, 1}))
	assert.Equal(t, uint64(15), bitsToInt([]int{1, 1, 1, 1}))
	assert.Equal(t, uint64(0), bitsToInt(nil))
}

func TestIntToBits_RoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("bitsToInt inverts intToBits for 37-bit values", prop.ForAll(
		func(v uint64) bool {
			return bitsToInt(intToBits(v, 37)) == v
		},
		gen.UInt64Range(0, MaxMediaRef),
	))

	properties.TestingRun(t)
}

func TestPermute_Inverse(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unpermute with step 43 inverts permute with step 7", prop.ForAll(
		func(bits []int) bool {
			return assert.ObjectsAreEqual(bits, unpermute(permute(bits, 7), 43))
		},
		gen.SliceOfN(60, gen.IntRange(0, 1)),
	))

	properties.TestingRun(t)
}

func TestPuncture(t *testing.T) {
	in := make([]int, 90)
	for i := range in {
		in[i] = i % 2
	}
	out := puncture(in)
	assert.Len(t, out, 60)
	// Indices 2, 5, 8, ... (0-based) are dropped.
	assert.Equal(t, in[0], out[0])
	assert.Equal(t, in[1], out[1])
	assert.Equal(t, in[3], out[2])
	assert.Equal(t, in[4], out[3])
	assert.Equal(t, in[6], out[4])
}

func TestSelectBasis45(t *testing.T) {
	in := make([]int, 60)
	for i := range in {
		if i%4 == 2 {
			in[i] = 1
		}
	}
	out := selectBasis45(in)
	assert.Len(t, out, 45)
	for i, b := range out {
		assert.Zero(t, b, "basis position %d should skip columns 2 mod 4", i)
	}
}

func TestInterleave(t *testing.T) {
	a := []int{1, 1, 1}
	b := []int{0, 0, 0}
	assert.Equal(t, []int{1, 0, 1, 0, 1, 0}, interleave(a, b))
}

func TestReverseBits(t *testing.T) {
	assert.Equal(t, []int{1, 0, 0}, reverseBits([]int{0, 0, 1}))
	assert.Equal(t, []int{}, reverseBits([]int{}))
}
