// Package ihex reads and writes Intel HEX images (record types 00 and 01).
package ihex

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

const (
	recData = 0x00
	recEOF  = 0x01

	// RecordSize is the data length Encode puts in each record.
	RecordSize = 16
)

// Segment is a run of bytes loaded at Addr.
type Segment struct {
	Addr uint16
	Data []byte
}

// Decode reads records until the EOF record. Adjacent data records are
// merged into one segment.
func Decode(r io.Reader) ([]Segment, error) {
	var segs []Segment
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rec, err := parseRecord(text)
		if err != nil {
			return nil, &RecordError{Line: line, Err: err}
		}
		switch rec.kind {
		case recEOF:
			return segs, nil
		case recData:
			if n := len(segs); n > 0 && int(segs[n-1].Addr)+len(segs[n-1].Data) == int(rec.addr) {
				segs[n-1].Data = append(segs[n-1].Data, rec.data...)
			} else {
				segs = append(segs, Segment{Addr: rec.addr, Data: rec.data})
			}
		default:
			return nil, &RecordError{Line: line, Err: ErrRecordType}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoEOF
}

type record struct {
	kind uint8
	addr uint16
	data []byte
}

func parseRecord(text string) (record, error) {
	if text[0] != ':' {
		return record{}, ErrStartCode
	}
	raw, err := hex.DecodeString(text[1:])
	if err != nil || len(raw) < 5 {
		return record{}, ErrSyntax
	}
	n := int(raw[0])
	if len(raw) != n+5 {
		return record{}, ErrLength
	}
	var sum uint8
	for _, b := range raw {
		sum += b
	}
	if sum != 0 {
		return record{}, ErrChecksum
	}
	return record{
		kind: raw[3],
		addr: uint16(raw[1])<<8 | uint16(raw[2]),
		data: raw[4 : 4+n],
	}, nil
}

// Encode writes data loaded at addr as data records followed by EOF.
// Records wrap at 0xFFFF like the address space.
func Encode(w io.Writer, addr uint16, data []byte) error {
	bw := bufio.NewWriter(w)
	for off := 0; off < len(data); off += RecordSize {
		end := min(off+RecordSize, len(data))
		if err := writeRecord(bw, recData, addr+uint16(off), data[off:end]); err != nil {
			return err
		}
	}
	if err := writeRecord(bw, recEOF, 0, nil); err != nil {
		return err
	}
	return bw.Flush()
}

func writeRecord(w io.Writer, kind uint8, addr uint16, data []byte) error {
	raw := make([]byte, 0, len(data)+5)
	raw = append(raw, uint8(len(data)), uint8(addr>>8), uint8(addr), kind)
	raw = append(raw, data...)
	var sum uint8
	for _, b := range raw {
		sum += b
	}
	raw = append(raw, -sum)
	_, err := fmt.Fprintf(w, ":%s\n", strings.ToUpper(hex.EncodeToString(raw)))
	return err
}

// Flatten lays segments out into one image starting at the lowest address.
func Flatten(segs []Segment) (uint16, []byte) {
	if len(segs) == 0 {
		return 0, nil
	}
	lo, hi := int(segs[0].Addr), 0
	for _, s := range segs {
		lo = min(lo, int(s.Addr))
		hi = max(hi, int(s.Addr)+len(s.Data))
	}
	img := make([]byte, hi-lo)
	for _, s := range segs {
		copy(img[int(s.Addr)-lo:], s.Data)
	}
	return uint16(lo), img
}
