package ival

import (
	"context"

	"github.com/drpcorg/mealy"
)

// Gate pauses an inner transducer with an interval signal: on an "on" step
// the inner transducer steps normally and its output is wrapped in On; on
// an "off" step the inner transducer is not stepped at all, its state
// frozen rather than its output merely suppressed, and the gate emits Off.
//
// Gate lives on the general variant: its decode blueprint rebuilds the
// frozen inner transducer against the template captured at construction.
func Gate[A, B any](inner mealy.Transducer[A, B]) mealy.Transducer[Interval[A], Interval[B]] {
	return gate(inner, inner)
}

func gate[A, B any](cur, tmpl mealy.Transducer[A, B]) mealy.Transducer[Interval[A], Interval[B]] {
	step := func(ctx context.Context, iv Interval[A]) (Interval[B], mealy.Transducer[Interval[A], Interval[B]], error) {
		a, on := iv.Val()
		if !on {
			return Off[B](), gate(cur, tmpl), nil
		}
		b, next, err := cur.Step(ctx, a)
		if err != nil {
			return Off[B](), mealy.Transducer[Interval[A], Interval[B]]{}, err
		}
		return On(b), gate(next, tmpl), nil
	}
	dec := func(data []byte) (mealy.Transducer[Interval[A], Interval[B]], []byte, error) {
		in, rest, err := mealy.DecodePrefix(tmpl, data)
		if err != nil {
			return mealy.Transducer[Interval[A], Interval[B]]{}, data, err
		}
		return gate(in, tmpl), rest, nil
	}
	return mealy.Gen("G("+tmpl.Shape()+")", step, cur.Encode, dec)
}

// GateFlat is Gate for an inner transducer that itself produces intervals:
// the doubly-optional result collapses into one layer.
func GateFlat[A, B any](inner mealy.Transducer[A, Interval[B]]) mealy.Transducer[Interval[A], Interval[B]] {
	return mealy.Pipe(Gate(inner), mealy.Func(func(iv Interval[Interval[B]]) Interval[B] {
		if in, on := iv.Val(); on {
			return in
		}
		return Off[B]()
	}))
}
