package telepen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// elementsFor flattens glyph patterns into one element stream.
func elementsFor(glyphs ...int) []byte {
	var out []byte
	for _, g := range glyphs {
		out = append(out, telePatterns[g]...)
	}
	return out
}

func TestDecodeElements_RoundTrip(t *testing.T) {
	// "1234567890" packs to pair glyphs 39 61 83 105 117; their sum is 405,
	// so the checksum glyph is 103.
	elements := elementsFor(95, 39, 61, 83, 105, 117, 103, 122)

	d, err := DecodeElements(elements)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", d.Text)
	assert.True(t, d.ChecksumValid)
	assert.True(t, d.HasStopChar)
}

func TestDecodeElements_SingleDigitGlyphs(t *testing.T) {
	// Digit 7 as the single-digit glyph 24; checksum (127-24)%127 = 103.
	elements := elementsFor(95, 24, 103, 122)

	d, err := DecodeElements(elements)
	require.NoError(t, err)
	assert.Equal(t, "7", d.Text)
}

func TestDecodeElements_LeadingNoise(t *testing.T) {
	elements := append([]byte{3, 1, 1}, elementsFor(95, 39, 61, 83, 105, 117, 103, 122)...)

	d, err := DecodeElements(elements)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", d.Text)
}

func TestDecodeElements_StartBeyondWindow(t *testing.T) {
	noise := make([]byte, 30)
	for i := range noise {
		noise[i] = byte(1 + 2*(i%2)) // 1,3,1,3,... never matches the start glyph
	}
	elements := append(noise, elementsFor(95, 39, 61, 83, 105, 117, 103, 122)...)

	_, err := DecodeElements(elements)
	assert.ErrorIs(t, err, errStartNotFound)
}

func TestDecodeElements_StopGate(t *testing.T) {
	// Valid data and checksum but no stop glyph: the stream just ends.
	elements := elementsFor(95, 39, 61, 83, 105, 117, 103)

	d, err := DecodeElements(elements)
	assert.ErrorIs(t, err, errStopNotFound)
	assert.False(t, d.HasStopChar)
}

func TestDecodeElements_ChecksumGate(t *testing.T) {
	// Checksum glyph swapped for pair glyph 27 ("00"): stop still matches,
	// checksum does not.
	elements := elementsFor(95, 39, 61, 83, 105, 117, 27, 122)

	d, err := DecodeElements(elements)
	assert.ErrorIs(t, err, errChecksumMismatch)
	assert.True(t, d.HasStopChar)
	assert.False(t, d.ChecksumValid)
	assert.Empty(t, d.Text)
}

func TestDecodeElements_TooFewGlyphs(t *testing.T) {
	elements := elementsFor(95, 50, 122)

	_, err := DecodeElements(elements)
	assert.ErrorIs(t, err, errTooFewGlyphs)
}

func TestDecodeElements_EmptyDigits(t *testing.T) {
	// Glyph 1 is neither a pair nor a single-digit glyph; with its matching
	// checksum the symbol verifies but decodes to no digits.
	elements := elementsFor(95, 1, 126, 122)

	d, err := DecodeElements(elements)
	assert.ErrorIs(t, err, errEmptyDigits)
	assert.True(t, d.ChecksumValid)
	assert.True(t, d.HasStopChar)
}

func TestDecodeElements_MutationGate(t *testing.T) {
	// Flipping any single element inside the data region must sink the
	// attempt: either no glyph matches any more or the checksum breaks.
	sym, err := Encode("42")
	require.NoError(t, err)
	elements := sym.Elements()

	dataStart := teleLens[startCode]
	dataEnd := len(elements) - teleLens[stopCode]
	for i := dataStart; i < dataEnd; i++ {
		mutated := make([]byte, len(elements))
		copy(mutated, elements)
		if mutated[i] == 1 {
			mutated[i] = 3
		} else {
			mutated[i] = 1
		}

		d, err := DecodeElements(mutated)
		require.Errorf(t, err, "mutation at element %d decoded to %q", i, d.Text)
	}
}

func TestDecodeElements_GarbageStreams(t *testing.T) {
	tests := []struct {
		name     string
		elements []byte
	}{
		{"Empty", nil},
		{"AllNarrow", make([]byte, 40)},
		{"Alternating", elementsFor(0, 0, 0)},
	}
	for i := range tests[1].elements {
		tests[1].elements[i] = 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeElements(tt.elements)
			assert.Error(t, err)
		})
	}
}
