package codec

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverseMatrix_Shape(t *testing.T) {
	m := inverseMatrix()
	require.Len(t, m, 45)
	for _, row := range m {
		require.Len(t, row, 45)
		for _, b := range row {
			assert.True(t, b == 0 || b == 1)
		}
	}
}

func TestRotateRight(t *testing.T) {
	row := []int{1, 0, 0, 0}
	assert.Equal(t, []int{0, 1, 0, 0}, rotateRight(row, 1))
	assert.Equal(t, []int{0, 0, 0, 1}, rotateRight(row, 3))
	assert.Equal(t, row, rotateRight(row, 4))
	assert.Equal(t, row, rotateRight(row, 0))
}

// The matrix must invert the encoder's effective linear map on the
// retained 45-column basis for every payload, not just valid CRC-carrying
// ones.
func TestInverseMatrix_InvertsEncoderMap(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("matrix recovers any 45-bit payload", prop.ForAll(
		func(payload []int) bool {
			parity0 := convolve(payload, genG0)
			parity1 := convolve(payload, genG1)
			bits := permute(puncture(interleave(parity0, parity1)), 7)
			basis := selectBasis45(unpermute(bits, 43))
			recovered := mulGF2(basis, inverseMatrix())
			return assert.ObjectsAreEqual(payload, recovered)
		},
		gen.SliceOfN(45, gen.IntRange(0, 1)),
	))

	properties.TestingRun(t)
}
