// Package ival provides interval semantics over transducers: a value
// stream that is on or off at every step. An Interval output of present(x)
// means "on with x this step"; absent suppresses the value entirely.
//
// Every state-carrying primitive here resumes exactly from its checkpoint;
// wrap one in mealy.NonResuming for the restart-from-initial variant.
package ival

import "github.com/drpcorg/mealy/codec"

// Interval is a per-step on/off value.
type Interval[T any] struct {
	on bool
	v  T
}

// On makes an "on" interval value.
func On[T any](v T) Interval[T] {
	return Interval[T]{on: true, v: v}
}

// Off makes an "off" interval value.
func Off[T any]() Interval[T] {
	return Interval[T]{}
}

func (iv Interval[T]) IsOn() bool {
	return iv.on
}

func (iv Interval[T]) Val() (T, bool) {
	return iv.v, iv.on
}

// Or returns the payload when on, def otherwise.
func (iv Interval[T]) Or(def T) T {
	if iv.on {
		return iv.v
	}
	return def
}

// C makes a checkpoint codec for interval-valued state.
func C[T any](c codec.Codec[T]) codec.Codec[Interval[T]] {
	return codec.Option(c, On[T], Off[T](), Interval[T].Val)
}
