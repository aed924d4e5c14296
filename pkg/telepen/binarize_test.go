package telepen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgbaRow(values ...byte) []byte {
	row := make([]byte, 0, len(values)*4)
	for _, v := range values {
		row = append(row, v, v, v, 0xFF)
	}
	return row
}

func TestBinarize_Grayscale(t *testing.T) {
	row := []byte{
		255, 0, 0, 255, // pure red
		0, 255, 0, 255, // pure green
		0, 0, 255, 255, // pure blue
		255, 255, 255, 255, // white
	}

	gray, _, err := Binarize(row)
	require.NoError(t, err)
	require.Len(t, gray, 4)

	assert.InDelta(t, 0.299*255, gray[0], 1e-9)
	assert.InDelta(t, 0.587*255, gray[1], 1e-9)
	assert.InDelta(t, 0.114*255, gray[2], 1e-9)
	assert.InDelta(t, 255.0, gray[3], 1e-9)
}

func TestBinarize_ConstantRowDegenerates(t *testing.T) {
	// Otsu has nothing to separate in a constant row; the fallback
	// threshold takes over.
	for _, v := range []byte{0, 77, 200, 255} {
		values := make([]byte, 64)
		for i := range values {
			values[i] = v
		}
		_, threshold, err := Binarize(rgbaRow(values...))
		require.NoError(t, err)
		assert.Equal(t, 128, threshold, "constant value %d", v)
	}
}

func TestBinarize_PureBinaryRowDegenerates(t *testing.T) {
	// A two-level 0/255 row puts the whole dark class in bin zero, so the
	// best Otsu split is threshold 0 and the fallback applies.
	values := make([]byte, 64)
	for i := range values {
		if i%3 == 0 {
			values[i] = 255
		}
	}
	_, threshold, err := Binarize(rgbaRow(values...))
	require.NoError(t, err)
	assert.Equal(t, 128, threshold)
}

func TestBinarize_BimodalRow(t *testing.T) {
	// Two well-separated populations away from the extremes: the threshold
	// must land between them.
	values := make([]byte, 128)
	for i := range values {
		if i < 64 {
			values[i] = 40
		} else {
			values[i] = 210
		}
	}
	_, threshold, err := Binarize(rgbaRow(values...))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, threshold, 40)
	assert.Less(t, threshold, 210)
}

func TestBinarize_EmptyRow(t *testing.T) {
	_, _, err := Binarize(nil)
	assert.ErrorIs(t, err, errEmptyInput)

	_, _, err = Binarize([]byte{1, 2})
	assert.ErrorIs(t, err, errEmptyInput)
}
