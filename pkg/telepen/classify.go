package telepen

// Classify maps each run in [startIdx, endIdx] to a narrow (1) or wide (3)
// element by nearest-center comparison against the estimated widths. The
// tolerance parameter is accepted for parity with the retry loop but does
// not alter the nearest-center rule.
//
// The trailing quiet zone needs care: the final element of every glyph is a
// space, so in a rendered symbol it merges with the quiet zone into one long
// space run. When the dropped trailing run turns out to have hidden the last
// narrow space that way, a synthetic narrow element is appended.
func Classify(runs []Run, startIdx int, narrow, tolerance float64) []byte {
	wide := 3 * narrow
	endIdx := len(runs) - 1
	repair := false
	if endIdx >= startIdx {
		last := runs[endIdx]
		if !last.IsBar && float64(last.Length) > 2*narrow {
			endIdx--
			repair = endIdx >= startIdx && runs[endIdx].IsBar
		}
	}

	elements := make([]byte, 0, endIdx-startIdx+2)
	for _, r := range runs[startIdx : endIdx+1] {
		l := float64(r.Length)
		if abs(l-narrow) < abs(l-wide) {
			elements = append(elements, 1)
		} else {
			elements = append(elements, 3)
		}
	}
	if repair {
		elements = append(elements, 1)
	}
	return elements
}
