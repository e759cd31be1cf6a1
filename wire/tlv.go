/*
Package wire implements the TLV (Type-Length-Value) framing used by
transducer checkpoints.

A record is a one-letter type, a length, and a body. Three header forms are
used, picked by body size:

 1. Tiny (1 byte): [('0' + body_length)], bodies of 0-9 bytes. The type is
    normalized to '0'. Only produced for lowercase type arguments.
 2. Short (2 bytes): [lowercase_type, body_length], bodies up to 255 bytes.
 3. Long (5 bytes): [uppercase_type, 4-byte little-endian length], bodies
    up to 2GB.

Record types are uppercase letters A-Z. Passing a lowercase type to the
append functions permits the tiny form for small bodies; checkpoint encoders
pass uppercase types so the record type always survives the round trip and
shape mismatches stay detectable.

Take and friends come in two flavors: trusting (nil returns on error, for
bytes this process produced) and wary (explicit errors, for bytes read back
from storage).
*/
package wire

import (
	"encoding/binary"
	"errors"
)

const CaseBit uint8 = 'a' - 'A'

var (
	ErrIncomplete = errors.New("wire: incomplete record")
	ErrBadRecord  = errors.New("wire: bad record format")
)

// ProbeHeader reads a record header.
//
// Returns:
//   - lit: record type ('A'-'Z', '0' for tiny, '-' for garbage, 0 for
//     insufficient data)
//   - hdrlen: header length (1, 2 or 5 bytes)
//   - bodylen: body length
func ProbeHeader(data []byte) (lit byte, hdrlen, bodylen int) {
	if len(data) == 0 {
		return 0, 0, 0
	}
	b := data[0]
	switch {
	case b >= '0' && b <= '9': // tiny
		lit = '0'
		hdrlen = 1
		bodylen = int(b - '0')
	case b >= 'a' && b <= 'z': // short
		if len(data) < 2 {
			return 0, 0, 0
		}
		lit = b - CaseBit
		hdrlen = 2
		bodylen = int(data[1])
	case b >= 'A' && b <= 'Z': // long
		if len(data) < 5 {
			return 0, 0, 0
		}
		bl := binary.LittleEndian.Uint32(data[1:5])
		if bl > 0x7fffffff {
			return '-', 0, 0
		}
		lit = b
		hdrlen = 5
		bodylen = int(bl)
	default:
		lit = '-'
	}
	return
}

// AppendHeader appends a record header, picking the shortest form that
// fits. A lowercase lit enables the tiny form for bodies under 10 bytes.
func AppendHeader(into []byte, lit byte, bodylen int) []byte {
	biglit := lit &^ CaseBit
	if biglit < 'A' || biglit > 'Z' {
		panic("wire: record types are A..Z")
	}
	if bodylen < 10 && (lit&CaseBit) != 0 {
		return append(into, byte('0'+bodylen))
	}
	if bodylen > 0xff {
		if bodylen > 0x7fffffff {
			panic("wire: oversized record")
		}
		into = append(into, biglit)
		return binary.LittleEndian.AppendUint32(into, uint32(bodylen))
	}
	return append(into, lit|CaseBit, byte(bodylen))
}

// Take extracts a record of the given type from trusted data.
// body is nil on a type mismatch; rest is the original data when the
// record is incomplete.
func Take(lit byte, data []byte) (body, rest []byte) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data
	}
	if flit != lit && flit != '0' {
		return nil, nil
	}
	return data[hdrlen : hdrlen+bodylen], data[hdrlen+bodylen:]
}

// TakeWary extracts a record of the given type from untrusted data.
func TakeWary(lit byte, data []byte) (body, rest []byte, err error) {
	flit, hdrlen, bodylen := ProbeHeader(data)
	if flit == 0 || hdrlen+bodylen > len(data) {
		return nil, data, ErrIncomplete
	}
	if flit != lit && flit != '0' {
		return nil, nil, ErrBadRecord
	}
	return data[hdrlen : hdrlen+bodylen], data[hdrlen+bodylen:], nil
}

// TakeAnyWary extracts a record of any type from untrusted data.
func TakeAnyWary(data []byte) (lit byte, body, rest []byte, err error) {
	if len(data) == 0 {
		return 0, nil, nil, ErrIncomplete
	}
	lit = data[0] &^ CaseBit
	body, rest, err = TakeWary(lit, data)
	return
}

// Lit returns the canonical record type of the record's first byte.
func Lit(rec []byte) byte {
	if len(rec) == 0 {
		return 0
	}
	b := rec[0]
	switch {
	case b >= 'a' && b <= 'z':
		return b - CaseBit
	case b >= 'A' && b <= 'Z':
		return b
	case b >= '0' && b <= '9':
		return '0'
	}
	return '-'
}

// TotalLen sums the lengths of the given slices.
func TotalLen(inputs [][]byte) (sum int) {
	for _, in := range inputs {
		sum += len(in)
	}
	return
}

// Append appends a complete record to the buffer.
func Append(into []byte, lit byte, body ...[]byte) []byte {
	into = AppendHeader(into, lit, TotalLen(body))
	for _, b := range body {
		into = append(into, b...)
	}
	return into
}

// Record makes a complete record with pre-allocated capacity.
func Record(lit byte, body ...[]byte) []byte {
	total := TotalLen(body)
	ret := make([]byte, 0, total+5)
	ret = AppendHeader(ret, lit, total)
	for _, b := range body {
		ret = append(ret, b...)
	}
	return ret
}

// Concat concatenates byte slices with pre-allocation.
func Concat(chunks ...[]byte) []byte {
	ret := make([]byte, 0, TotalLen(chunks))
	for _, b := range chunks {
		ret = append(ret, b...)
	}
	return ret
}

// OpenHeader starts a streamed record: the header is written with a blank
// length that CloseHeader fills in once the body is complete. Always uses
// the long form.
func OpenHeader(buf []byte, lit byte) (bookmark int, res []byte) {
	lit &= ^CaseBit
	if lit < 'A' || lit > 'Z' {
		panic("wire: record types are A..Z")
	}
	res = append(buf, lit, 0, 0, 0, 0)
	return len(res), res
}

// CloseHeader finalizes a streamed record started by OpenHeader.
func CloseHeader(buf []byte, bookmark int) {
	if bookmark < 5 || len(buf) < bookmark {
		panic("wire: bad bookmark")
	}
	binary.LittleEndian.PutUint32(buf[bookmark-4:bookmark], uint32(len(buf)-bookmark))
}
