package ival

import (
	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/codec"
)

// OnFor is on for the first n steps, then off forever. State is the
// remaining count.
func OnFor[A any](n uint64) mealy.Transducer[A, Interval[A]] {
	return mealy.Scan(func(a A, left uint64) (Interval[A], uint64) {
		if left == 0 {
			return Off[A](), 0
		}
		return On(a), left - 1
	}, n, codec.Uint64)
}

// OffFor is off for the first n steps, then on forever.
func OffFor[A any](n uint64) mealy.Transducer[A, Interval[A]] {
	return mealy.Scan(func(a A, left uint64) (Interval[A], uint64) {
		if left == 0 {
			return On(a), 0
		}
		return Off[A](), left - 1
	}, n, codec.Uint64)
}

// When is on exactly on the steps where p holds. Stateless.
func When[A any](p func(A) bool) mealy.Transducer[A, Interval[A]] {
	return mealy.Func(func(a A) Interval[A] {
		if p(a) {
			return On(a)
		}
		return Off[A]()
	})
}

// Unless is the complement of When.
func Unless[A any](p func(A) bool) mealy.Transducer[A, Interval[A]] {
	return When(func(a A) bool { return !p(a) })
}
