package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZipUint64(t *testing.T) {
	nums := map[uint64]int{
		0:                  0,
		0xca:               1,
		0xbeff:             2,
		0x12345678:         4,
		0x7777777788888888: 8,
	}
	for n, l := range nums {
		bin := ZipUint64(n)
		assert.Equal(t, l, len(bin))
		back, err := UnzipUint64Wary(bin)
		assert.Nil(t, err)
		assert.Equal(t, n, back)
	}

	_, err := UnzipUint64Wary([]byte{1, 2, 3})
	assert.Equal(t, ErrBadRecord, err)
}

func TestZigZagInt64(t *testing.T) {
	test := map[int64]uint64{
		0:   0,
		-14: 27,
		-10: 19,
		7:   14,
		20:  40,
	}
	for i, u := range test {
		u2 := ZigZagInt64(i)
		assert.Equal(t, u, u2)
		assert.Equal(t, i, ZagZigUint64(u2))
	}
}

func TestZipInt64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 127, -128, 1 << 40, -(1 << 40)} {
		got, err := UnzipInt64Wary(ZipInt64(v))
		assert.Nil(t, err)
		assert.Equal(t, v, got)
	}
}
