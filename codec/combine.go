package codec

import "github.com/drpcorg/mealy/wire"

// P2 is the state shape produced by the Pair combinator.
type P2[A, B any] struct {
	A A
	B B
}

// Pair combines two codecs into a codec for a pair of states. Each half is
// framed as its own record so the lengths stay self-describing.
func Pair[A, B any](ca Codec[A], cb Codec[B]) Codec[P2[A, B]] {
	return Codec[P2[A, B]]{
		Name: "(" + ca.Name + "," + cb.Name + ")",
		Enc: func(p P2[A, B]) []byte {
			return wire.Concat(
				wire.Record('F', ca.Enc(p.A)),
				wire.Record('S', cb.Enc(p.B)),
			)
		},
		Dec: func(data []byte) (p P2[A, B], err error) {
			abody, rest, err := wire.TakeWary('F', data)
			if err != nil {
				return
			}
			bbody, rest, err := wire.TakeWary('S', rest)
			if err != nil {
				return
			}
			if len(rest) != 0 {
				return p, ErrBadState
			}
			if p.A, err = ca.Dec(abody); err != nil {
				return
			}
			p.B, err = cb.Dec(bbody)
			return
		},
	}
}

// Option builds a codec for an optional value in the caller's own
// representation: some/none construct it, get destructures it.
func Option[O, T any](c Codec[T], some func(T) O, none O, get func(O) (T, bool)) Codec[O] {
	return Codec[O]{
		Name: "?" + c.Name,
		Enc: func(o O) []byte {
			if v, ok := get(o); ok {
				return wire.Record('P', c.Enc(v))
			}
			return wire.Record('A')
		},
		Dec: func(data []byte) (o O, err error) {
			lit, body, rest, err := wire.TakeAnyWary(data)
			if err != nil {
				return none, err
			}
			if len(rest) != 0 {
				return none, ErrBadState
			}
			switch lit {
			case 'A':
				return none, nil
			case 'P':
				v, err := c.Dec(body)
				if err != nil {
					return none, err
				}
				return some(v), nil
			}
			return none, ErrBadState
		},
	}
}
