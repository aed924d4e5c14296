package telepen

import "errors"

var errEmptyInput = errors.New("telepen: empty input row")

// Binarize reduces an RGBA pixel row to grayscale and selects a per-row
// threshold with Otsu's method. The row is 4 bytes per sample in R,G,B,A
// order; alpha is ignored. The grayscale values are Rec. 601 luma and are
// left unrounded so downstream width math keeps full precision.
func Binarize(row []byte) ([]float64, int, error) {
	if len(row) < 4 {
		return nil, 0, errEmptyInput
	}

	gray := make([]float64, len(row)/4)
	for i := range gray {
		r := float64(row[i*4])
		g := float64(row[i*4+1])
		b := float64(row[i*4+2])
		gray[i] = 0.299*r + 0.587*g + 0.114*b
	}

	return gray, otsuThreshold(gray), nil
}

// otsuThreshold picks the threshold maximizing between-class variance over
// the 256-bin histogram of the row. Ties resolve to the lowest threshold.
// A result of 0 or 255 means the histogram collapsed to one side (constant
// or pure two-level input); 128 is substituted so bar/space separation
// still works on synthetic bitmaps.
func otsuThreshold(gray []float64) int {
	var hist [256]int
	for _, v := range gray {
		bin := int(v)
		if bin < 0 {
			bin = 0
		} else if bin > 255 {
			bin = 255
		}
		hist[bin]++
	}

	total := len(gray)
	var sumAll float64
	for v, n := range hist {
		sumAll += float64(v) * float64(n)
	}

	best, bestVar := 0, -1.0
	var sumB, wB float64
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sumAll - sumB) / wF
		v := wB * wF * (mB - mF) * (mB - mF)
		if v > bestVar {
			bestVar = v
			best = t
		}
	}

	if best == 0 || best == 255 {
		return 128
	}
	return best
}
