package purify

// walkPNG classifies the chunks of a PNG whose signature has already been
// validated. Every chunk's CRC is verified; tEXt, zTXt and iTXt chunks are
// removed and all others kept verbatim.
//
// The walk stops after IEND. Bytes following IEND, or a tail shorter than a
// chunk header, are neither kept nor reported as removed: they are silently
// truncated from the output.
func walkPNG(data []byte, progress ProgressFunc) (*layout, error) {
	l := newLayout()
	l.keep(0, len(pngSignature))

	c := NewCursor(data)
	c.SetOffset(len(pngSignature))
	for c.BytesLeft() >= pngChunkOverhead {
		report(progress, c.Progress())
		pos := c.Offset()

		length, err := c.Uint32At(0)
		if err != nil {
			return nil, malformed("png: %v", err)
		}
		var typ ChunkType
		copy(typ[:], c.Slice(pos+4, pos+8))

		if uint64(length) > uint64(c.BytesLeft()-pngChunkOverhead) {
			return nil, malformed("png: chunk %s at offset %d declares %d data bytes, %d available",
				typ, pos, length, c.BytesLeft()-pngChunkOverhead)
		}
		end := pos + pngChunkOverhead + int(length)

		stored, err := c.Uint32At(end - 4 - pos)
		if err != nil {
			return nil, malformed("png: %v", err)
		}
		if computed := CRC32(data, pos+4, int(length)+4); computed != stored {
			return nil, malformed("png: chunk %s at offset %d has CRC %08x, computed %08x",
				typ, pos, stored, computed)
		}

		if typ.IsText() {
			l.remove(pos, end, typ.String())
		} else {
			l.keep(pos, end)
		}
		c.SetOffset(end)

		if typ.IsEnd() {
			break
		}
	}
	return l, nil
}
