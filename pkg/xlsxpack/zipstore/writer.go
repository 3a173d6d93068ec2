// Package zipstore encodes uncompressed ("stored") ZIP archives.
package zipstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	localHeaderSig   = 0x04034b50
	centralHeaderSig = 0x02014b50
	endSig           = 0x06054b50

	localHeaderLen   = 30
	centralHeaderLen = 46
	endLen           = 22

	zipVersion   = 20
	methodStore  = 0
	dosEpochTime = 0
	// 1980-01-01: (year-1980)<<9 | month<<5 | day
	dosEpochDate = 1<<5 | 1
)

// ErrTooLarge indicates the entries do not fit the 32-bit ZIP layout.
var ErrTooLarge = errors.New("zipstore: archive exceeds zip32 limits")

// Entry is a single file inside the archive.
type Entry struct {
	Path string
	Data []byte
}

type centralEntry struct {
	name   []byte
	crc    uint32
	size   uint32
	offset uint32
}

// Size returns the number of bytes Encode produces for entries.
func Size(entries []Entry) int64 {
	var n int64 = endLen
	for _, e := range entries {
		n += int64(localHeaderLen+centralHeaderLen+2*len(e.Path)) + int64(len(e.Data))
	}
	return n
}

// Encode returns the stored ZIP archive for entries, in order.
func Encode(entries []Entry) ([]byte, error) {
	if err := check(entries); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(int(Size(entries)))
	if _, err := Write(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the stored ZIP archive for entries to w and returns the number
// of bytes written.
func Write(w io.Writer, entries []Entry) (int64, error) {
	if err := check(entries); err != nil {
		return 0, err
	}

	cw := &countWriter{w: w}
	central := make([]centralEntry, 0, len(entries))

	for _, e := range entries {
		ce := centralEntry{
			name:   []byte(e.Path),
			crc:    Checksum(e.Data),
			size:   uint32(len(e.Data)),
			offset: uint32(cw.n),
		}

		var h [localHeaderLen]byte
		binary.LittleEndian.PutUint32(h[0:4], localHeaderSig)
		binary.LittleEndian.PutUint16(h[4:6], zipVersion)
		binary.LittleEndian.PutUint16(h[6:8], 0)
		binary.LittleEndian.PutUint16(h[8:10], methodStore)
		binary.LittleEndian.PutUint16(h[10:12], dosEpochTime)
		binary.LittleEndian.PutUint16(h[12:14], dosEpochDate)
		binary.LittleEndian.PutUint32(h[14:18], ce.crc)
		binary.LittleEndian.PutUint32(h[18:22], ce.size)
		binary.LittleEndian.PutUint32(h[22:26], ce.size)
		binary.LittleEndian.PutUint16(h[26:28], uint16(len(ce.name)))
		binary.LittleEndian.PutUint16(h[28:30], 0)

		if err := cw.write(h[:], ce.name, e.Data); err != nil {
			return cw.n, err
		}
		central = append(central, ce)
	}

	cdOffset := cw.n
	for _, ce := range central {
		var h [centralHeaderLen]byte
		binary.LittleEndian.PutUint32(h[0:4], centralHeaderSig)
		binary.LittleEndian.PutUint16(h[4:6], zipVersion)
		binary.LittleEndian.PutUint16(h[6:8], zipVersion)
		binary.LittleEndian.PutUint16(h[8:10], 0)
		binary.LittleEndian.PutUint16(h[10:12], methodStore)
		binary.LittleEndian.PutUint16(h[12:14], dosEpochTime)
		binary.LittleEndian.PutUint16(h[14:16], dosEpochDate)
		binary.LittleEndian.PutUint32(h[16:20], ce.crc)
		binary.LittleEndian.PutUint32(h[20:24], ce.size)
		binary.LittleEndian.PutUint32(h[24:28], ce.size)
		binary.LittleEndian.PutUint16(h[28:30], uint16(len(ce.name)))
		// extra, comment, disk start, internal attrs: zero
		binary.LittleEndian.PutUint32(h[38:42], 0)
		binary.LittleEndian.PutUint32(h[42:46], ce.offset)

		if err := cw.write(h[:], ce.name); err != nil {
			return cw.n, err
		}
	}
	cdSize := cw.n - cdOffset

	var end [endLen]byte
	binary.LittleEndian.PutUint32(end[0:4], endSig)
	binary.LittleEndian.PutUint16(end[8:10], uint16(len(central)))
	binary.LittleEndian.PutUint16(end[10:12], uint16(len(central)))
	binary.LittleEndian.PutUint32(end[12:16], uint32(cdSize))
	binary.LittleEndian.PutUint32(end[16:20], uint32(cdOffset))
	if err := cw.write(end[:]); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func check(entries []Entry) error {
	if len(entries) > math.MaxUint16 {
		return fmt.Errorf("%w: %d entries", ErrTooLarge, len(entries))
	}
	for _, e := range entries {
		if len(e.Path) > math.MaxUint16 {
			return fmt.Errorf("%w: name of %d bytes", ErrTooLarge, len(e.Path))
		}
	}
	if Size(entries) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, Size(entries))
	}
	return nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) write(chunks ...[]byte) error {
	for _, p := range chunks {
		if len(p) == 0 {
			continue
		}
		n, err := c.w.Write(p)
		c.n += int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}
