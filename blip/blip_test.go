package blip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drpcorg/mealy/codec"
)

func TestMergeLaw(t *testing.T) {
	add := func(x, y int64) int64 { return x + y }

	b := On[int64](7)
	assert.Equal(t, b, Merge(add, None[int64](), b))
	assert.Equal(t, b, Merge(add, b, None[int64]()))
	assert.Equal(t, On[int64](10), Merge(add, On[int64](3), On[int64](7)))
	assert.Equal(t, None[int64](), Merge(add, None[int64](), None[int64]()))
}

func TestFromMap(t *testing.T) {
	dbl := func(v int64) int64 { return v * 2 }
	assert.Equal(t, int64(8), From(int64(-1), dbl, On[int64](4)))
	assert.Equal(t, int64(-1), From(int64(-1), dbl, None[int64]()))

	assert.Equal(t, On[int64](6), Map(dbl, On[int64](3)))
	assert.False(t, Map(dbl, None[int64]()).Ok())
}

func TestCodec(t *testing.T) {
	c := C(codec.Int64)
	for _, b := range []Blip[int64]{None[int64](), On[int64](-42)} {
		got, err := c.Dec(c.Enc(b))
		assert.Nil(t, err)
		assert.Equal(t, b, got)
	}
}
