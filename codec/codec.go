// Package codec provides encode/decode pairs for transducer state values.
//
// A Codec is attached to a stateful transducer at construction time and
// turns its opaque state into bytes for checkpointing. The Name feeds the
// transducer's shape descriptor, so two transducers built over different
// codecs never decode each other's checkpoints silently.
package codec

import (
	"errors"

	"golang.org/x/exp/constraints"

	"github.com/drpcorg/mealy/wire"
)

var ErrBadState = errors.New("codec: bad state bytes")

type Codec[S any] struct {
	Name string
	Enc  func(S) []byte
	Dec  func([]byte) (S, error)
}

var Uint64 = Codec[uint64]{
	Name: "u64",
	Enc:  wire.ZipUint64,
	Dec:  wire.UnzipUint64Wary,
}

var Int64 = Codec[int64]{
	Name: "i64",
	Enc:  wire.ZipInt64,
	Dec:  wire.UnzipInt64Wary,
}

var Bool = Codec[bool]{
	Name: "b",
	Enc: func(b bool) []byte {
		if b {
			return []byte{1}
		}
		return nil
	},
	Dec: func(data []byte) (bool, error) {
		switch {
		case len(data) == 0:
			return false, nil
		case len(data) == 1 && data[0] == 1:
			return true, nil
		}
		return false, ErrBadState
	},
}

var String = Codec[string]{
	Name: "s",
	Enc:  func(s string) []byte { return []byte(s) },
	Dec:  func(data []byte) (string, error) { return string(data), nil },
}

var Bytes = Codec[[]byte]{
	Name: "x",
	Enc: func(b []byte) []byte {
		return append([]byte(nil), b...)
	},
	Dec: func(data []byte) ([]byte, error) {
		return append([]byte(nil), data...), nil
	},
}

// Unsigned adapts the uint64 codec to any unsigned integer type.
func Unsigned[T constraints.Unsigned]() Codec[T] {
	return Codec[T]{
		Name: "u",
		Enc:  func(v T) []byte { return wire.ZipUint64(uint64(v)) },
		Dec: func(data []byte) (T, error) {
			u, err := wire.UnzipUint64Wary(data)
			return T(u), err
		},
	}
}

// Signed adapts the zigzagged int64 codec to any signed integer type.
func Signed[T constraints.Signed]() Codec[T] {
	return Codec[T]{
		Name: "i",
		Enc:  func(v T) []byte { return wire.ZipInt64(int64(v)) },
		Dec: func(data []byte) (T, error) {
			i, err := wire.UnzipInt64Wary(data)
			return T(i), err
		},
	}
}
