package ival

import "github.com/drpcorg/mealy"

// ChooseFirst runs every candidate against the same input on every step
// and returns the first "on" result, or off if none is. All candidates
// always step, selected or not, so none of their effects or state
// advances are ever elided.
func ChooseFirst[A, B any](ts ...mealy.Transducer[A, Interval[B]]) mealy.Transducer[A, Interval[B]] {
	acc := mealy.Func(func(A) Interval[B] { return Off[B]() })
	for _, t := range ts {
		acc = mealy.Fanout(acc, t, func(won, next Interval[B]) Interval[B] {
			if won.IsOn() {
				return won
			}
			return next
		})
	}
	return acc
}

// ChooseFirstOr is ChooseFirst unwrapped with a default: the first "on"
// payload, or def when every candidate is off.
func ChooseFirstOr[A, B any](def B, ts ...mealy.Transducer[A, Interval[B]]) mealy.Transducer[A, B] {
	return mealy.Pipe(ChooseFirst(ts...), mealy.Func(func(iv Interval[B]) B {
		return iv.Or(def)
	}))
}
