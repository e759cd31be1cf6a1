// Package blip models discrete events: a Blip is an at-most-once-per-step
// occurrence of a payload, flowing through ordinary transducers as a plain
// value. The package is purely value-level; it carries no stepping logic of
// its own.
package blip

import "github.com/drpcorg/mealy/codec"

// Blip is either absent or present with a payload.
type Blip[T any] struct {
	ok bool
	v  T
}

// On makes a present Blip.
func On[T any](v T) Blip[T] {
	return Blip[T]{ok: true, v: v}
}

// None makes an absent Blip.
func None[T any]() Blip[T] {
	return Blip[T]{}
}

func (b Blip[T]) Ok() bool {
	return b.ok
}

func (b Blip[T]) Val() (T, bool) {
	return b.v, b.ok
}

// Merge combines two blips: both present combine payloads with f, one
// present wins as is, neither stays absent.
func Merge[T any](f func(T, T) T, a, b Blip[T]) Blip[T] {
	switch {
	case a.ok && b.ok:
		return On(f(a.v, b.v))
	case a.ok:
		return a
	}
	return b
}

// From destructures a blip: f over the payload when present, def otherwise.
func From[T, R any](def R, f func(T) R, b Blip[T]) R {
	if b.ok {
		return f(b.v)
	}
	return def
}

// Map transforms the payload of a present blip.
func Map[T, R any](f func(T) R, b Blip[T]) Blip[R] {
	if b.ok {
		return On(f(b.v))
	}
	return None[R]()
}

// C makes a checkpoint codec for blip-valued state.
func C[T any](c codec.Codec[T]) codec.Codec[Blip[T]] {
	return codec.Option(c, On[T], None[T](), Blip[T].Val)
}
