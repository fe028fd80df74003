// Package codec implements the forward-error-correcting bit codec behind
// the 23-bar media barcode: a 37-bit media reference is checksummed,
// convolutionally encoded, punctured, permuted and Gray-mapped into 23
// bar heights in [0,7], and recovered from them on the way back.
//
// Every operation is a pure function over small fixed-size bit vectors;
// the only shared state is the constant inverse generator matrix, built
// once and read-only thereafter. Calls are safe to run concurrently.
package codec

import (
	"errors"
	"fmt"
)

const (
	// MediaRefBits is the payload width; references must fit in 37 bits.
	MediaRefBits = 37

	// MaxMediaRef is the largest encodable media reference.
	MaxMediaRef = 1<<MediaRefBits - 1

	// SymbolCount is the length of the public bar-height sequence,
	// 20 data bars plus 3 reference bars.
	SymbolCount = 23

	// MaxBarHeight is the largest bar height a symbol may carry.
	MaxBarHeight = 7
)

// Reference bar positions and their fixed heights. The parser and
// detector use these to calibrate scale; the codec treats them as
// constants framing the 20 data bars.
const (
	refPosStart  = 0
	refPosMiddle = 11
	refPosEnd    = 22

	refHeightOuter  = 0
	refHeightMiddle = 7
)

var (
	// ErrRange reports an out-of-range media reference or bar height.
	ErrRange = errors.New("value out of range")

	// ErrLength reports a symbol sequence that is not exactly 23 bars.
	ErrLength = errors.New("invalid symbol count")

	// ErrReference reports tampered or misread reference bars.
	ErrReference = errors.New("reference bars invalid")

	// ErrChecksum reports a structurally valid sequence whose recomputed
	// CRC-8 disagrees with the embedded check bits. It signals corrupted
	// or misread symbols upstream of the codec; no partial result is
	// available.
	ErrChecksum = errors.New("checksum mismatch")
)

// Encode turns a media reference into the 23-bar public symbol sequence.
// References outside [0, 2^37) are rejected.
func Encode(mediaRef uint64) ([]int, error) {
	if mediaRef > MaxMediaRef {
		return nil, fmt.Errorf("media reference %d exceeds %d bits: %w", mediaRef, MediaRefBits, ErrRange)
	}

	mediaBits := intToBits(mediaRef, MediaRefBits)
	check := crc8(mediaBits)

	// The 45-bit payload stores the media bits reversed; the checksum is
	// computed over the natural order. A historical serialization quirk
	// of the format, load-bearing for round trips.
	payload := append(reverseBits(mediaBits), check...)

	parity0 := convolve(payload, genG0)
	parity1 := convolve(payload, genG1)

	bits := permute(puncture(interleave(parity0, parity1)), 7)
	heights := heightsFromBits(bits)

	symbols := make([]int, 0, SymbolCount)
	symbols = append(symbols, refHeightOuter)
	symbols = append(symbols, heights[:10]...)
	symbols = append(symbols, refHeightMiddle)
	symbols = append(symbols, heights[10:]...)
	symbols = append(symbols, refHeightOuter)
	return symbols, nil
}

// Decode recovers the media reference from a 23-bar symbol sequence.
// The sequence must be noiseless: single misread bars are detected via
// the checksum (ErrChecksum), not corrected.
func Decode(symbols []int) (uint64, error) {
	if len(symbols) != SymbolCount {
		return 0, fmt.Errorf("got %d symbols, want %d: %w", len(symbols), SymbolCount, ErrLength)
	}
	for i, s := range symbols {
		if s < 0 || s > MaxBarHeight {
			return 0, fmt.Errorf("symbol %d at position %d: %w", s, i, ErrRange)
		}
	}
	if symbols[refPosStart] != refHeightOuter ||
		symbols[refPosMiddle] != refHeightMiddle ||
		symbols[refPosEnd] != refHeightOuter {
		return 0, fmt.Errorf("positions 0/11/22 carry %d/%d/%d, want 0/7/0: %w",
			symbols[refPosStart], symbols[refPosMiddle], symbols[refPosEnd], ErrReference)
	}

	heights := make([]int, 0, 20)
	heights = append(heights, symbols[refPosStart+1:refPosMiddle]...)
	heights = append(heights, symbols[refPosMiddle+1:refPosEnd]...)

	bits := unpermute(bitsFromHeights(heights), 43)
	payload := mulGF2(selectBasis45(bits), inverseMatrix())

	storedMedia := payload[:MediaRefBits]
	check := payload[MediaRefBits:]

	// Media bits sit in the payload reversed; restore natural order for
	// the checksum and the final integer.
	mediaBits := reverseBits(storedMedia)
	for i, b := range crc8(mediaBits) {
		if b != check[i] {
			return 0, ErrChecksum
		}
	}

	return bitsToInt(mediaBits), nil
}
