package wire

import "encoding/binary"

const (
	Bytes1 = 0xff
	Bytes2 = 0xffff
	Bytes4 = 0xffffffff
)

func byteLen(n uint64) int {
	switch {
	case n == 0:
		return 0
	case n <= Bytes1:
		return 1
	case n <= Bytes2:
		return 2
	case n <= Bytes4:
		return 4
	}
	return 8
}

// ZipUint64 packs an uint64 into 0, 1, 2, 4 or 8 little-endian bytes,
// whichever is the shortest that fits.
func ZipUint64(v uint64) []byte {
	var buf [8]byte
	switch byteLen(v) {
	case 0:
		return buf[0:0]
	case 1:
		buf[0] = byte(v)
		return buf[0:1]
	case 2:
		binary.LittleEndian.PutUint16(buf[0:2], uint16(v))
		return buf[0:2]
	case 4:
		binary.LittleEndian.PutUint32(buf[0:4], uint32(v))
		return buf[0:4]
	}
	binary.LittleEndian.PutUint64(buf[0:8], v)
	return buf[0:8]
}

// UnzipUint64 unpacks a ZipUint64 buffer. Trusting: odd lengths read as
// much as fits. Use UnzipUint64Wary for stored bytes.
func UnzipUint64(buf []byte) (v uint64) {
	switch len(buf) {
	case 0:
		return 0
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf))
	case 8:
		return binary.LittleEndian.Uint64(buf)
	}
	for i := len(buf) - 1; i >= 0; i-- {
		v = (v << 8) | uint64(buf[i])
	}
	return
}

// UnzipUint64Wary unpacks a ZipUint64 buffer, rejecting lengths ZipUint64
// never produces.
func UnzipUint64Wary(buf []byte) (uint64, error) {
	switch len(buf) {
	case 0, 1, 2, 4, 8:
		return UnzipUint64(buf), nil
	}
	return 0, ErrBadRecord
}

// ZigZagInt64 maps int64 to uint64 keeping small absolute values small.
func ZigZagInt64(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

func ZagZigUint64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// ZipInt64 packs an int64, zigzagged.
func ZipInt64(v int64) []byte {
	return ZipUint64(ZigZagInt64(v))
}

func UnzipInt64(buf []byte) int64 {
	return ZagZigUint64(UnzipUint64(buf))
}

func UnzipInt64Wary(buf []byte) (int64, error) {
	u, err := UnzipUint64Wary(buf)
	return ZagZigUint64(u), err
}
