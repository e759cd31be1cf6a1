package mealy

import (
	"context"

	"github.com/drpcorg/mealy/wire"
)

// Fanout applies two transducers to the same input and combines their
// outputs with join. Both branches step on every input, always: a branch's
// side effects are never elided because the other branch's output happened
// to win. The specialization rules match Pipe.
func Fanout[A, B, C, D any](f Transducer[A, B], g Transducer[A, C], join func(B, C) D) Transducer[A, D] {
	if f.kind == kGen || g.kind == kGen {
		return fanoutGen(f, g, join)
	}
	if f.kind == kPure && g.kind == kPure {
		ff, gg := f.pure, g.pure
		return Func(func(a A) D { return join(ff(a), gg(a)) })
	}
	fp, gp := asPart(f), asPart(g)
	pr := pairing{fp.core.stateful, gp.core.stateful}
	if !pr.fSt && !pr.gSt {
		fe, ge := fp.stepE, gp.stepE
		return FuncE(func(ctx context.Context, a A) (D, error) {
			b, _, err := fe(ctx, a, nil)
			if err != nil {
				var zd D
				return zd, err
			}
			c, _, err := ge(ctx, a, nil)
			if err != nil {
				var zd D
				return zd, err
			}
			return join(b, c), nil
		})
	}
	node := &stateNode[A, D]{
		s:   pr.join(fp.core.s, gp.core.s),
		enc: mergeEnc(fp.core, gp.core, pr),
		dec: mergeDec(fp.core, gp.core, pr),
	}
	t := Transducer[A, D]{shape: "(" + f.shape + "&" + g.shape + ")", state: node}
	if fp.core.eff || gp.core.eff {
		t.kind = kStateEff
		fe, ge := fp.stepE, gp.stepE
		node.stepE = func(ctx context.Context, a A, s any) (D, any, error) {
			sf, sg := pr.split(s)
			b, sf2, err := fe(ctx, a, sf)
			if err != nil {
				var zd D
				return zd, s, err
			}
			c, sg2, err := ge(ctx, a, sg)
			if err != nil {
				var zd D
				return zd, s, err
			}
			return join(b, c), pr.join(sf2, sg2), nil
		}
	} else {
		t.kind = kState
		ff, gg := fp.step, gp.step
		node.step = func(a A, s any) (D, any) {
			sf, sg := pr.split(s)
			b, sf2 := ff(a, sf)
			c, sg2 := gg(a, sg)
			return join(b, c), pr.join(sf2, sg2)
		}
	}
	return t
}

func fanoutGen[A, B, C, D any](f Transducer[A, B], g Transducer[A, C], join func(B, C) D) Transducer[A, D] {
	step := func(ctx context.Context, a A) (D, Transducer[A, D], error) {
		b, f2, err := f.Step(ctx, a)
		if err != nil {
			var zd D
			return zd, Transducer[A, D]{}, err
		}
		c, g2, err := g.Step(ctx, a)
		if err != nil {
			var zd D
			return zd, Transducer[A, D]{}, err
		}
		return join(b, c), Fanout(f2, g2, join), nil
	}
	enc := func() []byte {
		return wire.Concat(f.Encode(), g.Encode())
	}
	dec := func(data []byte) (Transducer[A, D], []byte, error) {
		f1, rest, err := DecodePrefix(f, data)
		if err != nil {
			return Transducer[A, D]{}, data, err
		}
		g1, rest, err := DecodePrefix(g, rest)
		if err != nil {
			return Transducer[A, D]{}, data, err
		}
		return Fanout(f1, g1, join), rest, nil
	}
	return Gen("("+f.shape+"&"+g.shape+")", step, enc, dec)
}
