package mealy

import (
	"context"

	"github.com/drpcorg/mealy/wire"
)

// Route sends Left-tagged inputs to f and Right-tagged inputs to g. Unlike
// Fanout, only the selected branch steps; the idle branch's state is
// carried forward untouched. The specialization rules match Pipe.
func Route[A, C, B any](f Transducer[A, B], g Transducer[C, B]) Transducer[Either[A, C], B] {
	if f.kind == kGen || g.kind == kGen {
		return routeGen(f, g)
	}
	if f.kind == kPure && g.kind == kPure {
		ff, gg := f.pure, g.pure
		return Func(func(e Either[A, C]) B {
			if e.IsRight {
				return gg(e.Right)
			}
			return ff(e.Left)
		})
	}
	fp, gp := asPart(f), asPart(g)
	pr := pairing{fp.core.stateful, gp.core.stateful}
	if !pr.fSt && !pr.gSt {
		fe, ge := fp.stepE, gp.stepE
		return FuncE(func(ctx context.Context, e Either[A, C]) (B, error) {
			if e.IsRight {
				b, _, err := ge(ctx, e.Right, nil)
				return b, err
			}
			b, _, err := fe(ctx, e.Left, nil)
			return b, err
		})
	}
	node := &stateNode[Either[A, C], B]{
		s:   pr.join(fp.core.s, gp.core.s),
		enc: mergeEnc(fp.core, gp.core, pr),
		dec: mergeDec(fp.core, gp.core, pr),
	}
	t := Transducer[Either[A, C], B]{shape: "(" + f.shape + "|" + g.shape + ")", state: node}
	if fp.core.eff || gp.core.eff {
		t.kind = kStateEff
		fe, ge := fp.stepE, gp.stepE
		node.stepE = func(ctx context.Context, e Either[A, C], s any) (B, any, error) {
			sf, sg := pr.split(s)
			if e.IsRight {
				b, sg2, err := ge(ctx, e.Right, sg)
				if err != nil {
					return b, s, err
				}
				return b, pr.join(sf, sg2), nil
			}
			b, sf2, err := fe(ctx, e.Left, sf)
			if err != nil {
				return b, s, err
			}
			return b, pr.join(sf2, sg), nil
		}
	} else {
		t.kind = kState
		ff, gg := fp.step, gp.step
		node.step = func(e Either[A, C], s any) (B, any) {
			sf, sg := pr.split(s)
			if e.IsRight {
				b, sg2 := gg(e.Right, sg)
				return b, pr.join(sf, sg2)
			}
			b, sf2 := ff(e.Left, sf)
			return b, pr.join(sf2, sg)
		}
	}
	return t
}

func routeGen[A, C, B any](f Transducer[A, B], g Transducer[C, B]) Transducer[Either[A, C], B] {
	step := func(ctx context.Context, e Either[A, C]) (B, Transducer[Either[A, C], B], error) {
		if e.IsRight {
			b, g2, err := g.Step(ctx, e.Right)
			if err != nil {
				return b, Transducer[Either[A, C], B]{}, err
			}
			return b, Route(f, g2), nil
		}
		b, f2, err := f.Step(ctx, e.Left)
		if err != nil {
			return b, Transducer[Either[A, C], B]{}, err
		}
		return b, Route(f2, g), nil
	}
	enc := func() []byte {
		return wire.Concat(f.Encode(), g.Encode())
	}
	dec := func(data []byte) (Transducer[Either[A, C], B], []byte, error) {
		f1, rest, err := DecodePrefix(f, data)
		if err != nil {
			return Transducer[Either[A, C], B]{}, data, err
		}
		g1, rest, err := DecodePrefix(g, rest)
		if err != nil {
			return Transducer[Either[A, C], B]{}, data, err
		}
		return Route(f1, g1), rest, nil
	}
	return Gen("("+f.shape+"|"+g.shape+")", step, enc, dec)
}
