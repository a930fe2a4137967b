package purify

import (
	"bytes"

	"github.com/pkg/errors"
)

// Cursor is a byte-granular, big-endian reader over an immutable buffer. Both
// walkers use it to track their position; reads never move the cursor, only
// SetOffset and AddOffset do.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor constructs a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{buf: data}
}

// Offset returns the current byte index.
func (c *Cursor) Offset() int { return c.off }

// SetOffset moves the cursor to offset, clamped to [0, len(buf)].
func (c *Cursor) SetOffset(offset int) {
	switch {
	case offset < 0:
		offset = 0
	case offset > len(c.buf):
		offset = len(c.buf)
	}
	c.off = offset
}

// AddOffset advances the cursor by delta bytes, clamping at the buffer end.
func (c *Cursor) AddOffset(delta int) {
	if delta > len(c.buf)-c.off {
		delta = len(c.buf) - c.off
	}
	c.SetOffset(c.off + delta)
}

// Len returns the size of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// BytesLeft returns the number of bytes between the cursor and the end.
func (c *Cursor) BytesLeft() int { return len(c.buf) - c.off }

// InBounds reports whether the cursor points at a readable byte.
func (c *Cursor) InBounds() bool { return c.off < len(c.buf) }

// CurByte returns the byte under the cursor, or zero when out of bounds.
func (c *Cursor) CurByte() byte {
	if c.InBounds() {
		return c.buf[c.off]
	}
	return 0
}

// ByteAt returns the byte rel positions past the cursor.
func (c *Cursor) ByteAt(rel int) (byte, bool) {
	i := c.off + rel
	if rel < 0 || i >= len(c.buf) {
		return 0, false
	}
	return c.buf[i], true
}

// Uint16At reads a big-endian 16-bit value rel bytes past the cursor.
func (c *Cursor) Uint16At(rel int) (uint16, error) {
	i := c.off + rel
	if rel < 0 || i+2 > len(c.buf) {
		return 0, errors.Errorf("cursor: underflow reading uint16 at %d", i)
	}
	return uint16(c.buf[i])<<8 | uint16(c.buf[i+1]), nil
}

// Uint32At reads a big-endian 32-bit value rel bytes past the cursor.
func (c *Cursor) Uint32At(rel int) (uint32, error) {
	i := c.off + rel
	if rel < 0 || i+4 > len(c.buf) {
		return 0, errors.Errorf("cursor: underflow reading uint32 at %d", i)
	}
	return uint32(c.buf[i])<<24 |
		uint32(c.buf[i+1])<<16 |
		uint32(c.buf[i+2])<<8 |
		uint32(c.buf[i+3]), nil
}

// Slice returns buf[start:end] without bounds adjustment.
func (c *Cursor) Slice(start, end int) []byte { return c.buf[start:end] }

// Index returns the absolute offset of the first occurrence of pattern at or
// after the cursor, or -1.
func (c *Cursor) Index(pattern []byte) int {
	if !c.InBounds() {
		return -1
	}
	i := bytes.Index(c.buf[c.off:], pattern)
	if i < 0 {
		return -1
	}
	return c.off + i
}

// Progress reports the cursor position as a fraction of the buffer in [0,1].
func (c *Cursor) Progress() float64 {
	if len(c.buf) == 0 {
		return 1
	}
	p := float64(c.off) / float64(len(c.buf))
	if p > 1 {
		return 1
	}
	return p
}
