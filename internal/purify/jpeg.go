package purify

// walkJPEG classifies the marker segments of a JPEG whose SOI signature has
// already been validated. APPn and COM segments are removed; everything else
// is kept verbatim. The walk ends at EOI, or after the scan data that follows
// the first SOS. Later scans of a progressive file are carried along inside
// that first scan range, not walked.
func walkJPEG(data []byte, progress ProgressFunc) (*layout, error) {
	l := newLayout()
	l.keep(0, 2)

	c := NewCursor(data)
	c.SetOffset(2)
	for c.InBounds() {
		report(progress, c.Progress())
		pos := c.Offset()

		if c.CurByte() != markerPrefix {
			// Entropy-coded data without a preceding SOS.
			l.keep(pos, scanEnd(c))
			return l, nil
		}

		b, ok := c.ByteAt(1)
		if !ok {
			return nil, malformed("jpeg: truncated marker at offset %d", pos)
		}
		marker := Marker(b)

		if b == markerEOI {
			l.keep(pos, pos+2)
			return l, nil
		}
		if marker.IsStandalone() {
			l.keep(pos, pos+2)
			c.AddOffset(2)
			continue
		}

		if c.BytesLeft() < jpegSegmentHeaderSize {
			return nil, malformed("jpeg: truncated length field for marker 0x%02X at offset %d", b, pos)
		}
		length, err := c.Uint16At(2)
		if err != nil {
			return nil, malformed("jpeg: %v", err)
		}
		end := pos + 2 + int(length)
		if end > c.Len() {
			return nil, malformed("jpeg: segment %s at offset %d ends at %d past buffer end %d",
				marker.Label(), pos, end, c.Len())
		}

		if marker.IsMetadata() {
			l.remove(pos, end, marker.Label())
		} else {
			l.keep(pos, end)
		}
		c.SetOffset(end)

		if b == markerSOS {
			l.keep(end, scanEnd(c))
			return l, nil
		}
	}
	return l, nil
}

// scanEnd returns the offset just past the first EOI at or after the cursor,
// or the buffer length when there is none.
func scanEnd(c *Cursor) int {
	if eoi := c.Index(jpegEOI); eoi >= 0 {
		return eoi + len(jpegEOI)
	}
	return c.Len()
}
