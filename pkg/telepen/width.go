package telepen

import (
	"errors"
	"sort"
)

var errTooFewSamples = errors.New("telepen: too few runs to estimate element width")

const (
	maxWidthSamples  = 100
	minWidthSamples  = 10
	kmeansIterations = 10
	minWideRatio     = 2.5
	maxWideRatio     = 3.5
)

// EstimateNarrow estimates the narrow element width in pixels from the run
// lengths beginning at startIdx, the first bar run after the leading quiet
// zone. The trailing run is excluded since it is normally the trailing quiet
// zone.
//
// The estimate is a two-center k-means over the sampled lengths: narrow and
// wide elements cluster tightly in a clean scan, and the symbology fixes
// their ratio at 1:3. When the clusters do not land near that ratio (heavy
// blur, partial symbol) the estimate falls back to the median of the lower
// 30% of the sorted lengths, which tracks the narrow population even with
// the wide elements misclustered.
func EstimateNarrow(runs []Run, startIdx int) (float64, error) {
	end := len(runs) - 1
	if end > startIdx+maxWidthSamples {
		end = startIdx + maxWidthSamples
	}
	if end-startIdx < minWidthSamples {
		return 0, errTooFewSamples
	}

	samples := make([]float64, 0, end-startIdx)
	for _, r := range runs[startIdx:end] {
		samples = append(samples, float64(r.Length))
	}

	narrow, wide := samples[0], samples[0]
	for _, s := range samples[1:] {
		if s < narrow {
			narrow = s
		}
		if s > wide {
			wide = s
		}
	}

	for iter := 0; iter < kmeansIterations; iter++ {
		var sumN, sumW float64
		var nN, nW int
		for _, s := range samples {
			if abs(s-narrow) <= abs(s-wide) {
				sumN += s
				nN++
			} else {
				sumW += s
				nW++
			}
		}
		if nN > 0 {
			narrow = sumN / float64(nN)
		}
		if nW > 0 {
			wide = sumW / float64(nW)
		}
	}

	if narrow > 0 {
		ratio := wide / narrow
		if ratio >= minWideRatio && ratio <= maxWideRatio {
			return narrow, nil
		}
	}

	return lowerPercentileMedian(samples), nil
}

// lowerPercentileMedian sorts the samples and returns the median of the
// bottom 30%.
func lowerPercentileMedian(samples []float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	n := len(sorted) * 30 / 100
	if n == 0 {
		n = 1
	}
	return sorted[n/2]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
