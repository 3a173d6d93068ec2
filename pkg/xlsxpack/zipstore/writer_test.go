package zipstore

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"testing"
)

func sampleEntries() []Entry {
	return []Entry{
		{Path: "[Content_Types].xml", Data: []byte(`<?xml version="1.0"?><Types/>`)},
		{Path: "_rels/.rels", Data: []byte("<Relationships/>")},
		{Path: "empty.txt", Data: nil},
		{Path: "xl/worksheets/sheet1.xml", Data: bytes.Repeat([]byte("métrica;"), 500)},
	}
}

func TestChecksum(t *testing.T) {
	tests := [][]byte{
		nil,
		[]byte("a"),
		[]byte("123456789"),
		bytes.Repeat([]byte{0xff, 0x00, 0x7f}, 1000),
	}
	for _, in := range tests {
		if got, want := Checksum(in), crc32.ChecksumIEEE(in); got != want {
			t.Errorf("Checksum(%d bytes) = %08x, expected %08x", len(in), got, want)
		}
	}
	if got := Checksum([]byte("123456789")); got != 0xCBF43926 {
		t.Errorf("Checksum(check string) = %08x, expected cbf43926", got)
	}
}

func TestEncodeStructure(t *testing.T) {
	entries := sampleEntries()
	data, err := Encode(entries)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if int64(len(data)) != Size(entries) {
		t.Errorf("len(data) = %d, Size = %d", len(data), Size(entries))
	}

	le := binary.LittleEndian
	end := data[len(data)-endLen:]
	if le.Uint32(end[0:4]) != endSig {
		t.Fatalf("missing end of central directory signature")
	}
	if n := le.Uint16(end[8:10]); int(n) != len(entries) {
		t.Errorf("EOCD entries on disk = %d, expected %d", n, len(entries))
	}
	if n := le.Uint16(end[10:12]); int(n) != len(entries) {
		t.Errorf("EOCD total entries = %d, expected %d", n, len(entries))
	}
	cdSize := le.Uint32(end[12:16])
	cdOffset := le.Uint32(end[16:20])
	if int(cdOffset)+int(cdSize)+endLen != len(data) {
		t.Errorf("central directory bounds %d+%d do not meet EOCD", cdOffset, cdSize)
	}

	// Walk local headers and compare with the central directory.
	var localOffset uint32
	cd := data[cdOffset : cdOffset+cdSize]
	for i, e := range entries {
		want := crc32.ChecksumIEEE(e.Data)

		lh := data[localOffset:]
		if le.Uint32(lh[0:4]) != localHeaderSig {
			t.Fatalf("entry %d: bad local signature at %d", i, localOffset)
		}
		if m := le.Uint16(lh[8:10]); m != 0 {
			t.Errorf("entry %d: method = %d, expected stored", i, m)
		}
		if crc := le.Uint32(lh[14:18]); crc != want {
			t.Errorf("entry %d: local crc = %08x, expected %08x", i, crc, want)
		}
		if cs, us := le.Uint32(lh[18:22]), le.Uint32(lh[22:26]); cs != us || int(us) != len(e.Data) {
			t.Errorf("entry %d: sizes %d/%d, expected %d", i, cs, us, len(e.Data))
		}
		nameLen := le.Uint16(lh[26:28])
		if name := string(lh[localHeaderLen : localHeaderLen+int(nameLen)]); name != e.Path {
			t.Errorf("entry %d: local name %q, expected %q", i, name, e.Path)
		}
		if !bytes.Equal(lh[localHeaderLen+int(nameLen):localHeaderLen+int(nameLen)+len(e.Data)], e.Data) {
			t.Errorf("entry %d: content mismatch", i)
		}

		if le.Uint32(cd[0:4]) != centralHeaderSig {
			t.Fatalf("entry %d: bad central signature", i)
		}
		if crc := le.Uint32(cd[16:20]); crc != want {
			t.Errorf("entry %d: central crc = %08x, expected %08x", i, crc, want)
		}
		if off := le.Uint32(cd[42:46]); off != localOffset {
			t.Errorf("entry %d: central offset = %d, expected %d", i, off, localOffset)
		}
		cdNameLen := le.Uint16(cd[28:30])
		cd = cd[centralHeaderLen+int(cdNameLen):]

		localOffset += uint32(localHeaderLen + int(nameLen) + len(e.Data))
	}
	if localOffset != cdOffset {
		t.Errorf("local entries end at %d, central directory starts at %d", localOffset, cdOffset)
	}
	if len(cd) != 0 {
		t.Errorf("%d trailing central directory bytes", len(cd))
	}
}

func TestEncodeReadableByArchiveZip(t *testing.T) {
	entries := sampleEntries()
	data, err := Encode(entries)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader failed: %v", err)
	}
	if len(r.File) != len(entries) {
		t.Fatalf("Expected %d files, got %d", len(entries), len(r.File))
	}
	for i, f := range r.File {
		if f.Name != entries[i].Path {
			t.Errorf("file %d name = %q, expected %q", i, f.Name, entries[i].Path)
		}
		if f.Method != zip.Store {
			t.Errorf("file %d method = %d, expected Store", i, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if !bytes.Equal(got, entries[i].Data) {
			t.Errorf("file %s content mismatch", f.Name)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode(sampleEntries())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	b, err := Encode(sampleEntries())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Encode is not deterministic")
	}
}

func TestEncodeNoEntries(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != endLen {
		t.Errorf("Expected bare EOCD of %d bytes, got %d", endLen, len(data))
	}
}

func TestEncodeTooManyEntries(t *testing.T) {
	entries := make([]Entry, 1<<16)
	for i := range entries {
		entries[i].Path = "f"
	}
	if _, err := Encode(entries); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Encode(65536 entries) err = %v, expected ErrTooLarge", err)
	}
}

type failWriter struct{ after int }

func (f *failWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, io.ErrShortWrite
	}
	f.after--
	return len(p), nil
}

func TestWritePropagatesErrors(t *testing.T) {
	if _, err := Write(&failWriter{after: 2}, sampleEntries()); !errors.Is(err, io.ErrShortWrite) {
		t.Errorf("Write err = %v, expected io.ErrShortWrite", err)
	}
}
