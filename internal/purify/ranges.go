package purify

// ByteRange is a half-open interval [Start, End) over the original buffer.
type ByteRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int { return r.End - r.Start }

// RemovedRange is a range that was stripped, tagged with its segment or
// chunk label (APP1, COM, tEXt, ...).
type RemovedRange struct {
	ByteRange
	Label string
}

// Assemble concatenates the referenced slices of data in order. The ranges
// must be ordered and non-overlapping; contents are copied unchanged.
func Assemble(data []byte, ranges []ByteRange) []byte {
	total := 0
	for _, r := range ranges {
		total += r.Len()
	}
	out := make([]byte, 0, total)
	for _, r := range ranges {
		out = append(out, data[r.Start:r.End]...)
	}
	return out
}

// layout collects the kept and removed ranges produced by a walk.
type layout struct {
	kept    []ByteRange
	removed []RemovedRange
}

func newLayout() *layout {
	return &layout{removed: []RemovedRange{}}
}

func (l *layout) keep(start, end int) {
	if end <= start {
		return
	}
	l.kept = append(l.kept, ByteRange{Start: start, End: end})
}

func (l *layout) remove(start, end int, label string) {
	l.removed = append(l.removed, RemovedRange{ByteRange: ByteRange{Start: start, End: end}, Label: label})
}
