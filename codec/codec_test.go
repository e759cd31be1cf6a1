package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockCodecs(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 1 << 33} {
		got, err := Uint64.Dec(Uint64.Enc(v))
		assert.Nil(t, err)
		assert.Equal(t, v, got)
	}
	for _, v := range []int64{0, -1, 1, -100000} {
		got, err := Int64.Dec(Int64.Enc(v))
		assert.Nil(t, err)
		assert.Equal(t, v, got)
	}
	for _, v := range []bool{true, false} {
		got, err := Bool.Dec(Bool.Enc(v))
		assert.Nil(t, err)
		assert.Equal(t, v, got)
	}
	_, err := Bool.Dec([]byte{7})
	assert.Equal(t, ErrBadState, err)

	s, err := String.Dec(String.Enc("blimey"))
	assert.Nil(t, err)
	assert.Equal(t, "blimey", s)

	c := Unsigned[uint16]()
	u, err := c.Dec(c.Enc(uint16(777)))
	assert.Nil(t, err)
	assert.Equal(t, uint16(777), u)
}

func TestPair(t *testing.T) {
	c := Pair(Uint64, String)
	p := P2[uint64, string]{A: 42, B: "hi"}
	got, err := c.Dec(c.Enc(p))
	assert.Nil(t, err)
	assert.Equal(t, p, got)

	_, err = c.Dec([]byte("garbage"))
	assert.NotNil(t, err)
}

func TestOption(t *testing.T) {
	type opt struct {
		ok bool
		v  int64
	}
	c := Option(Int64,
		func(v int64) opt { return opt{ok: true, v: v} },
		opt{},
		func(o opt) (int64, bool) { return o.v, o.ok })

	for _, o := range []opt{{}, {ok: true, v: -3}} {
		got, err := c.Dec(c.Enc(o))
		assert.Nil(t, err)
		assert.Equal(t, o, got)
	}
	_, err := c.Dec([]byte{})
	assert.NotNil(t, err)
}
