// Package telepen decodes Telepen Numeric one-dimensional barcodes from
// raster images.
//
// The pipeline per scan row: grayscale reduction, Otsu thresholding,
// run-length extraction, two-cluster narrow-width estimation, narrow/wide
// element classification, start/stop framing with glyph matching, and
// modulo-127 checksum verification. Rows are probed at fixed vertical
// fractions, center first, in both scan directions; the first attempt whose
// checksum and stop glyph both verify wins.
//
// Basic usage:
//
//	img, _, err := image.Decode(f)
//	if err != nil {
//		log.Fatal(err)
//	}
//	text, err := telepen.Decode(telepen.FromImage(img))
//	if errors.Is(err, telepen.ErrNotFound) {
//		// no symbol in this frame
//	}
package telepen

import (
	"errors"
	"image"
	"log/slog"
)

// ErrNotFound is returned when no row yields a fully verified symbol. Every
// internal failure (noisy row, bad width estimate, checksum mismatch) folds
// into this one answer: the decoder runs per camera frame, where a false
// positive is strictly worse than a missed frame.
var ErrNotFound = errors.New("telepen: no barcode found")

// Image is the raster surface the decoder reads. RowPixels returns the row's
// samples as 4 bytes per pixel in R,G,B,A order, length 4*Width.
type Image interface {
	Width() int
	Height() int
	RowPixels(y int) []byte
}

// rowFractions are the vertical positions probed, center rows first so a
// clean center scan returns without touching the rest.
var rowFractions = []float64{0.50, 0.45, 0.55, 0.40, 0.60, 0.35, 0.65, 0.30, 0.70}

// tolerances drives the retry loop per direction. Classification is
// nearest-center and ignores the value itself; the loop is kept as the
// retry envelope for width-estimate variants.
var tolerances = []float64{0.30, 0.35, 0.40, 0.45, 0.50, 0.25}

// SampleRows returns the scan row indices for an image height, de-duplicated
// with first occurrence preserved (small heights collapse several fractions
// onto the same row).
func SampleRows(height int) []int {
	rows := make([]int, 0, len(rowFractions))
	seen := make(map[int]bool, len(rowFractions))
	for _, f := range rowFractions {
		y := int(float64(height) * f)
		if y >= height {
			y = height - 1
		}
		if !seen[y] {
			seen[y] = true
			rows = append(rows, y)
		}
	}
	return rows
}

// Decode scans the image for a Telepen Numeric symbol and returns its digit
// string, or ErrNotFound. The scan is deterministic: row order, direction
// order, and glyph search order are all fixed.
func Decode(img Image) (string, error) {
	w, h := img.Width(), img.Height()
	if w <= 0 || h <= 0 {
		return "", ErrNotFound
	}

	for _, y := range SampleRows(h) {
		gray, threshold, err := Binarize(img.RowPixels(y))
		if err != nil {
			continue
		}
		runs := ExtractRuns(gray, threshold)
		if len(runs) < MinRuns {
			continue
		}

		for _, reversed := range []bool{false, true} {
			attempt := runs
			if reversed {
				attempt = reverseRuns(runs)
			}

			startIdx := 0
			for startIdx < len(attempt) && !attempt[startIdx].IsBar {
				startIdx++
			}
			if startIdx >= len(attempt) {
				continue
			}

			narrow, err := EstimateNarrow(attempt, startIdx)
			if err != nil || narrow <= 0 {
				continue
			}

			for _, tol := range tolerances {
				elements := Classify(attempt, startIdx, narrow, tol)
				d, err := DecodeElements(elements)
				if err != nil {
					continue
				}
				if d.ChecksumValid && d.HasStopChar && d.Text != "" {
					slog.Debug("telepen: symbol decoded",
						slog.Int("row", y),
						slog.Bool("reversed", reversed),
						slog.Int("threshold", threshold),
						slog.Float64("narrow", narrow))
					return d.Text, nil
				}
			}
		}
	}
	return "", ErrNotFound
}

// FromImage adapts a decoded stdlib image to the decoder's raster interface.
func FromImage(img image.Image) Image {
	if rgba, ok := img.(*image.RGBA); ok {
		return &rgbaRaster{img: rgba}
	}
	return &genericRaster{img: img}
}

// rgbaRaster serves rows straight out of the RGBA pixel buffer.
type rgbaRaster struct {
	img *image.RGBA
}

func (r *rgbaRaster) Width() int  { return r.img.Rect.Dx() }
func (r *rgbaRaster) Height() int { return r.img.Rect.Dy() }

func (r *rgbaRaster) RowPixels(y int) []byte {
	off := r.img.PixOffset(r.img.Rect.Min.X, r.img.Rect.Min.Y+y)
	return r.img.Pix[off : off+4*r.img.Rect.Dx()]
}

// genericRaster converts rows on demand for any other image type.
type genericRaster struct {
	img image.Image
}

func (r *genericRaster) Width() int  { return r.img.Bounds().Dx() }
func (r *genericRaster) Height() int { return r.img.Bounds().Dy() }

func (r *genericRaster) RowPixels(y int) []byte {
	b := r.img.Bounds()
	row := make([]byte, 4*b.Dx())
	for x := 0; x < b.Dx(); x++ {
		c := r.img.At(b.Min.X+x, b.Min.Y+y)
		cr, cg, cb, ca := c.RGBA()
		row[x*4] = byte(cr >> 8)
		row[x*4+1] = byte(cg >> 8)
		row[x*4+2] = byte(cb >> 8)
		row[x*4+3] = byte(ca >> 8)
	}
	return row
}
