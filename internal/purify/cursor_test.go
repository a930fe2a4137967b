package purify

import "testing"

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte{0xff, 0xe1, 0x00, 0x10, 0xde, 0xad, 0xbe, 0xef})

	v16, err := c.Uint16At(2)
	if err != nil {
		t.Fatalf("Uint16At(2) failed: %v", err)
	}
	if v16 != 0x0010 {
		t.Errorf("Expected 0x0010, got 0x%04x", v16)
	}

	v32, err := c.Uint32At(4)
	if err != nil {
		t.Fatalf("Uint32At(4) failed: %v", err)
	}
	if v32 != 0xdeadbeef {
		t.Errorf("Expected 0xdeadbeef, got 0x%08x", v32)
	}

	if c.Offset() != 0 {
		t.Errorf("reads must not move the cursor, offset is %d", c.Offset())
	}
}

func TestCursorUnderflow(t *testing.T) {
	c := NewCursor([]byte{0x01, 0x02, 0x03})
	if _, err := c.Uint32At(0); err == nil {
		t.Error("Expected underflow error reading uint32 from 3 bytes")
	}
	c.SetOffset(2)
	if _, err := c.Uint16At(0); err == nil {
		t.Error("Expected underflow error reading uint16 from 1 byte")
	}
	if _, ok := c.ByteAt(1); ok {
		t.Error("ByteAt past end should report false")
	}
}

func TestCursorOffsetClamping(t *testing.T) {
	c := NewCursor(make([]byte, 10))

	c.SetOffset(100)
	if c.Offset() != 10 {
		t.Errorf("SetOffset should clamp to length, got %d", c.Offset())
	}
	if c.InBounds() {
		t.Error("cursor at end should not be in bounds")
	}
	if c.CurByte() != 0 {
		t.Error("CurByte out of bounds should be zero")
	}

	c.SetOffset(4)
	c.AddOffset(1 << 30)
	if c.Offset() != 10 {
		t.Errorf("AddOffset should clamp to length, got %d", c.Offset())
	}
	if c.BytesLeft() != 0 {
		t.Errorf("Expected 0 bytes left, got %d", c.BytesLeft())
	}
}

func TestCursorIndexAndProgress(t *testing.T) {
	data := []byte{0x00, 0xff, 0xd9, 0x00, 0xff, 0xd9}
	c := NewCursor(data)
	if got := c.Index(jpegEOI); got != 1 {
		t.Errorf("Index = %d, want 1", got)
	}
	c.SetOffset(2)
	if got := c.Index(jpegEOI); got != 4 {
		t.Errorf("Index from 2 = %d, want 4", got)
	}
	if got := c.Progress(); got != 2.0/6.0 {
		t.Errorf("Progress = %v, want %v", got, 2.0/6.0)
	}
	c.SetOffset(6)
	if got := c.Index(jpegEOI); got != -1 {
		t.Errorf("Index at end = %d, want -1", got)
	}
	if NewCursor(nil).Progress() != 1 {
		t.Error("empty cursor progress should be 1")
	}
}
