package ival

import (
	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/blip"
	"github.com/drpcorg/mealy/codec"
)

// tapped carries an input value alongside the event flags extracted from
// it on the same step.
type tapped[A any] struct {
	val        A
	start, end bool
}

// After passes the input through starting with the step where ev first
// fires, off before that. Built from kernel combinators, so its boolean
// latch and ev's own state checkpoint together.
func After[A, S any](ev mealy.Transducer[A, blip.Blip[S]]) mealy.Transducer[A, Interval[A]] {
	tap := mealy.Fanout(mealy.Id[A](), ev, func(a A, b blip.Blip[S]) tapped[A] {
		return tapped[A]{val: a, start: b.Ok()}
	})
	latch := mealy.Scan(func(in tapped[A], seen bool) (Interval[A], bool) {
		seen = seen || in.start
		if seen {
			return On(in.val), seen
		}
		return Off[A](), seen
	}, false, codec.Bool)
	return mealy.Pipe(tap, latch)
}

// Before passes the input through until ev first fires; the firing step is
// already off.
func Before[A, S any](ev mealy.Transducer[A, blip.Blip[S]]) mealy.Transducer[A, Interval[A]] {
	tap := mealy.Fanout(mealy.Id[A](), ev, func(a A, b blip.Blip[S]) tapped[A] {
		return tapped[A]{val: a, end: b.Ok()}
	})
	latch := mealy.Scan(func(in tapped[A], seen bool) (Interval[A], bool) {
		seen = seen || in.end
		if seen {
			return Off[A](), seen
		}
		return On(in.val), seen
	}, false, codec.Bool)
	return mealy.Pipe(tap, latch)
}

// Between toggles on when start fires and off when end fires; end wins
// when both fire on the same step. Initially off.
func Between[A, S, E any](start mealy.Transducer[A, blip.Blip[S]], end mealy.Transducer[A, blip.Blip[E]]) mealy.Transducer[A, Interval[A]] {
	evs := mealy.Fanout(start, end, func(s blip.Blip[S], e blip.Blip[E]) [2]bool {
		return [2]bool{s.Ok(), e.Ok()}
	})
	tap := mealy.Fanout(mealy.Id[A](), evs, func(a A, f [2]bool) tapped[A] {
		return tapped[A]{val: a, start: f[0], end: f[1]}
	})
	latch := mealy.Scan(func(in tapped[A], on bool) (Interval[A], bool) {
		switch {
		case in.end:
			on = false
		case in.start:
			on = true
		}
		if on {
			return On(in.val), on
		}
		return Off[A](), on
	}, false, codec.Bool)
	return mealy.Pipe(tap, latch)
}

// Hold outputs the payload of the last blip ev produced, off until the
// first one. The held payload is checkpointed with c.
func Hold[A, S any](c codec.Codec[S], ev mealy.Transducer[A, blip.Blip[S]]) mealy.Transducer[A, Interval[S]] {
	keep := mealy.Scan(func(b blip.Blip[S], last blip.Blip[S]) (Interval[S], blip.Blip[S]) {
		if b.Ok() {
			last = b
		}
		if v, ok := last.Val(); ok {
			return On(v), last
		}
		return Off[S](), last
	}, blip.None[S](), blip.C(c))
	return mealy.Pipe(ev, keep)
}

// HoldFor is Hold with an expiry: a fresh blip is held for its own step
// plus n further blip-less steps, then the output drops back to off.
func HoldFor[A, S any](n uint64, c codec.Codec[S], ev mealy.Transducer[A, blip.Blip[S]]) mealy.Transducer[A, Interval[S]] {
	keep := mealy.Scan(func(b blip.Blip[S], s codec.P2[blip.Blip[S], uint64]) (Interval[S], codec.P2[blip.Blip[S], uint64]) {
		if b.Ok() {
			v, _ := b.Val()
			return On(v), codec.P2[blip.Blip[S], uint64]{A: b, B: n}
		}
		if v, ok := s.A.Val(); ok && s.B > 0 {
			s.B--
			return On(v), s
		}
		return Off[S](), codec.P2[blip.Blip[S], uint64]{A: blip.None[S]()}
	}, codec.P2[blip.Blip[S], uint64]{A: blip.None[S]()}, codec.Pair(blip.C(c), codec.Uint64))
	return mealy.Pipe(ev, keep)
}
