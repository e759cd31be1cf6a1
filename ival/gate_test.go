package ival

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/codec"
)

func summer() mealy.Transducer[int64, int64] {
	return mealy.Scan(func(a, s int64) (int64, int64) {
		return s + a, s + a
	}, 0, codec.Int64)
}

func TestGateFreezesInner(t *testing.T) {
	tr := Gate(summer())
	ins := []Interval[int64]{
		On[int64](1), Off[int64](), On[int64](2), Off[int64](), On[int64](3),
	}
	outs, _ := feed(t, tr, ins)
	// the accumulator advances only on the "on" steps
	assert.Equal(t, []Interval[int64]{
		On[int64](1), Off[int64](), On[int64](3), Off[int64](), On[int64](6),
	}, outs)
}

func TestGateResume(t *testing.T) {
	ins := []Interval[int64]{On[int64](1), Off[int64](), On[int64](2), Off[int64]()}
	_, stepped := feed(t, Gate(summer()), ins)

	// the frozen inner state must round-trip through the blueprint decode
	resumed, err := mealy.Decode(Gate(summer()), stepped.Encode())
	assert.Nil(t, err)

	// reference: the inner transducer stepped by hand on the "on" inputs only
	_, inner := feed(t, summer(), []int64{1, 2})
	refOut, _ := feed(t, inner, []int64{5})

	outs, _ := feed(t, resumed, []Interval[int64]{On[int64](5)})
	assert.Equal(t, []Interval[int64]{On[int64](refOut[0])}, outs)
}

func TestGateShapeMismatch(t *testing.T) {
	_, stepped := feed(t, Gate(summer()), []Interval[int64]{On[int64](1)})

	// a template with a two-record state cannot consume a one-record
	// checkpoint
	wrong := Gate(mealy.Pipe(summer(), summer()))
	_, err := mealy.Decode(wrong, stepped.Encode())
	assert.NotNil(t, err)
}

func TestGateFlat(t *testing.T) {
	tr := GateFlat(OnFor[int64](1))
	ins := []Interval[int64]{On[int64](7), Off[int64](), On[int64](8)}
	outs, _ := feed(t, tr, ins)
	assert.Equal(t, []Interval[int64]{On[int64](7), Off[int64](), Off[int64]()}, outs)
}
