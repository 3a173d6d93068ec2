package zipstore

import "sync"

// crcPoly is the reversed IEEE polynomial used by ZIP.
const crcPoly = 0xEDB88320

var crcTable = sync.OnceValue(func() *[256]uint32 {
	var t [256]uint32
	for i := range t {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = crcPoly ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return &t
})

// Checksum returns the CRC32 (IEEE) of b.
func Checksum(b []byte) uint32 {
	t := crcTable()
	crc := ^uint32(0)
	for _, v := range b {
		crc = t[byte(crc)^v] ^ (crc >> 8)
	}
	return ^crc
}
