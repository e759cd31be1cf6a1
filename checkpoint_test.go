package mealy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drpcorg/mealy/codec"
	"github.com/drpcorg/mealy/wire"
)

func TestRoundTrip(t *testing.T) {
	xs := []int64{5, -2, 7}
	ys := []int64{1, 1, 100}

	// never-checkpointed reference
	want, _ := feed(t, summer(), append(append([]int64{}, xs...), ys...))

	_, stepped := feed(t, summer(), xs)
	resumed, err := Decode(summer(), stepped.Encode())
	assert.Nil(t, err)

	head, _ := feed(t, summer(), xs)
	tail, _ := feed(t, resumed, ys)
	assert.Equal(t, want, append(head, tail...))
}

func TestStatelessEncodesToNothing(t *testing.T) {
	assert.Nil(t, Func(func(a int) int { return a }).Encode())

	// resuming a stateless transducer is a no-op: any bytes succeed
	tmpl := Func(func(a int) int { return a * 3 })
	for _, junk := range [][]byte{nil, {}, []byte("whatever")} {
		got, err := Decode(tmpl, junk)
		assert.Nil(t, err)
		outs, _ := feed(t, got, []int{2})
		assert.Equal(t, []int{6}, outs)
	}
}

func TestNonResuming(t *testing.T) {
	nr := NonResuming(summer())
	_, stepped := feed(t, nr, []int64{10, 20})

	bin := stepped.Encode()
	assert.Equal(t, wire.Record('N'), bin)

	// decodes to the wrap-time state, not the current one
	resumed, err := Decode(nr, bin)
	assert.Nil(t, err)
	outs, _ := feed(t, resumed, []int64{1})
	assert.Equal(t, []int64{1}, outs)
}

func TestScanNR(t *testing.T) {
	nr := ScanNR(func(a, s int64) (int64, int64) {
		return s + a, s + a
	}, int64(0))
	_, stepped := feed(t, nr, []int64{10, 20})
	resumed, err := Decode(nr, stepped.Encode())
	assert.Nil(t, err)
	outs, _ := feed(t, resumed, []int64{5})
	assert.Equal(t, []int64{5}, outs)
}

func TestDecodeErrors(t *testing.T) {
	// truncated
	_, err := Decode(summer(), []byte{'s'})
	assert.True(t, errors.Is(err, ErrBadCheckpoint))

	// record of the wrong shape
	_, err = Decode(summer(), wire.Record('G', []byte{1}))
	assert.True(t, errors.Is(err, ErrBadCheckpoint))

	// trailing garbage
	bin := append(summer().Encode(), 'x')
	_, err = Decode(summer(), bin)
	assert.True(t, errors.Is(err, ErrBadCheckpoint))

	// a failed decode must leave the template usable
	tmpl := summer()
	got, err := Decode(tmpl, []byte{'s'})
	assert.NotNil(t, err)
	outs, _ := feed(t, got, []int64{2})
	assert.Equal(t, []int64{2}, outs)
}

func TestShape(t *testing.T) {
	assert.Equal(t, "F", Func(func(a int) int { return a }).Shape())
	assert.Equal(t, "S:i64", summer().Shape())
	assert.Equal(t, "(S:i64>S:i64)", Pipe(summer(), summer()).Shape())
	assert.Equal(t, "N", NonResuming(summer()).Shape())
}

func TestRouteRoundTrip(t *testing.T) {
	mk := func() Transducer[Either[int64, string], int64] {
		return Route(summer(), Scan(func(s string, n uint64) (int64, uint64) {
			return int64(n) + int64(len(s)), n + 1
		}, 0, codec.Uint64))
	}
	ins := []Either[int64, string]{
		ToLeft[int64, string](4),
		ToRight[int64]("ab"),
		ToLeft[int64, string](6),
	}
	_, stepped := feed(t, mk(), ins)
	resumed, err := Decode(mk(), stepped.Encode())
	assert.Nil(t, err)

	more := []Either[int64, string]{ToRight[int64]("xyz"), ToLeft[int64, string](1)}
	a, _ := feed(t, stepped, more)
	b, _ := feed(t, resumed, more)
	assert.Equal(t, a, b)
}
