package purify

// crcTable is the CRC-32 lookup table for the reflected polynomial
// 0xEDB88320 (zlib / PNG). Built once at package init and never written.
var crcTable = makeCRCTable()

func makeCRCTable() *[256]uint32 {
	var t [256]uint32
	for n := range t {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = 0xEDB88320 ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[n] = c
	}
	return &t
}

// CRC32 computes the PNG CRC over buf[offset:offset+length].
func CRC32(buf []byte, offset, length int) uint32 {
	return updateCRC(0xFFFFFFFF, buf[offset:offset+length]) ^ 0xFFFFFFFF
}

func updateCRC(crc uint32, p []byte) uint32 {
	for _, b := range p {
		crc = crcTable[byte(crc)^b] ^ (crc >> 8)
	}
	return crc
}
