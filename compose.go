package mealy

import (
	"context"

	"github.com/drpcorg/mealy/wire"
)

// pairS is the combined state of two stateful operands.
type pairS struct {
	a, b any
}

// partCore is the type-erased half of an operand: state, codec, flags.
type partCore struct {
	stateful bool
	eff      bool
	s        any
	enc      func(any) []byte
	dec      func([]byte) (any, []byte, error)
}

// part is one composition operand in a uniform stepping form. stepE is
// always usable; step only when the operand is pure-stepping.
type part[P, Q any] struct {
	core  partCore
	step  func(p P, s any) (Q, any)
	stepE func(ctx context.Context, p P, s any) (Q, any, error)
}

func asPart[P, Q any](t Transducer[P, Q]) part[P, Q] {
	switch t.kind {
	case kPure:
		fn := t.pure
		return part[P, Q]{
			step: func(p P, _ any) (Q, any) { return fn(p), nil },
			stepE: func(_ context.Context, p P, _ any) (Q, any, error) {
				return fn(p), nil, nil
			},
		}
	case kEff:
		fn := t.eff
		return part[P, Q]{
			core: partCore{eff: true},
			stepE: func(ctx context.Context, p P, _ any) (Q, any, error) {
				q, err := fn(ctx, p)
				return q, nil, err
			},
		}
	case kState:
		n := t.state
		return part[P, Q]{
			core: partCore{stateful: true, s: n.s, enc: n.enc, dec: n.dec},
			step: n.step,
			stepE: func(_ context.Context, p P, s any) (Q, any, error) {
				q, s2 := n.step(p, s)
				return q, s2, nil
			},
		}
	case kStateEff:
		n := t.state
		return part[P, Q]{
			core:  partCore{stateful: true, eff: true, s: n.s, enc: n.enc, dec: n.dec},
			stepE: n.stepE,
		}
	}
	panic("mealy: general operand has no part form")
}

// pairing says which operands contribute state to the combined value.
type pairing struct {
	fSt, gSt bool
}

func (p pairing) split(s any) (sf, sg any) {
	switch {
	case p.fSt && p.gSt:
		ps := s.(pairS)
		return ps.a, ps.b
	case p.fSt:
		return s, nil
	case p.gSt:
		return nil, s
	}
	return nil, nil
}

func (p pairing) join(sf, sg any) any {
	switch {
	case p.fSt && p.gSt:
		return pairS{a: sf, b: sg}
	case p.fSt:
		return sf
	case p.gSt:
		return sg
	}
	return nil
}

// mergeEnc concatenates the operands' record streams, template order.
func mergeEnc(f, g partCore, pr pairing) func(any) []byte {
	return func(s any) []byte {
		sf, sg := pr.split(s)
		var out []byte
		if f.stateful {
			out = append(out, f.enc(sf)...)
		}
		if g.stateful {
			out = append(out, g.enc(sg)...)
		}
		return out
	}
}

func mergeDec(f, g partCore, pr pairing) func([]byte) (any, []byte, error) {
	return func(data []byte) (any, []byte, error) {
		var sf, sg any
		rest := data
		var err error
		if f.stateful {
			if sf, rest, err = f.dec(rest); err != nil {
				return nil, data, err
			}
		}
		if g.stateful {
			if sg, rest, err = g.dec(rest); err != nil {
				return nil, data, err
			}
		}
		return pr.join(sf, sg), rest, nil
	}
}

// Pipe feeds f's output into g: each step runs f, then g on f's result.
// The composition keeps the cheapest representation that is still correct:
// pure stays pure, stateful operands pair their states and codecs into a
// flat stateful result, and only a general operand forces the general
// fallback.
func Pipe[A, X, B any](f Transducer[A, X], g Transducer[X, B]) Transducer[A, B] {
	if f.kind == kGen || g.kind == kGen {
		return pipeGen(f, g)
	}
	if f.kind == kPure && g.kind == kPure {
		ff, gg := f.pure, g.pure
		return Func(func(a A) B { return gg(ff(a)) })
	}
	fp, gp := asPart(f), asPart(g)
	pr := pairing{fp.core.stateful, gp.core.stateful}
	if !pr.fSt && !pr.gSt { // stateless, at least one effectful
		fe, ge := fp.stepE, gp.stepE
		return FuncE(func(ctx context.Context, a A) (B, error) {
			x, _, err := fe(ctx, a, nil)
			if err != nil {
				var zb B
				return zb, err
			}
			b, _, err := ge(ctx, x, nil)
			return b, err
		})
	}
	node := &stateNode[A, B]{
		s:   pr.join(fp.core.s, gp.core.s),
		enc: mergeEnc(fp.core, gp.core, pr),
		dec: mergeDec(fp.core, gp.core, pr),
	}
	t := Transducer[A, B]{shape: "(" + f.shape + ">" + g.shape + ")", state: node}
	if fp.core.eff || gp.core.eff {
		t.kind = kStateEff
		fe, ge := fp.stepE, gp.stepE
		node.stepE = func(ctx context.Context, a A, s any) (B, any, error) {
			sf, sg := pr.split(s)
			x, sf2, err := fe(ctx, a, sf)
			if err != nil {
				var zb B
				return zb, s, err
			}
			b, sg2, err := ge(ctx, x, sg)
			if err != nil {
				return b, s, err
			}
			return b, pr.join(sf2, sg2), nil
		}
	} else {
		t.kind = kState
		ff, gg := fp.step, gp.step
		node.step = func(a A, s any) (B, any) {
			sf, sg := pr.split(s)
			x, sf2 := ff(a, sf)
			b, sg2 := gg(x, sg)
			return b, pr.join(sf2, sg2)
		}
	}
	return t
}

// pipeGen is the general fallback: the current operands are captured and
// each step re-wraps their successors. The decode blueprint decodes both
// against the captured templates and re-pipes.
func pipeGen[A, X, B any](f Transducer[A, X], g Transducer[X, B]) Transducer[A, B] {
	step := func(ctx context.Context, a A) (B, Transducer[A, B], error) {
		x, f2, err := f.Step(ctx, a)
		if err != nil {
			var zb B
			return zb, Transducer[A, B]{}, err
		}
		b, g2, err := g.Step(ctx, x)
		if err != nil {
			return b, Transducer[A, B]{}, err
		}
		return b, Pipe(f2, g2), nil
	}
	enc := func() []byte {
		return wire.Concat(f.Encode(), g.Encode())
	}
	dec := func(data []byte) (Transducer[A, B], []byte, error) {
		f1, rest, err := DecodePrefix(f, data)
		if err != nil {
			return Transducer[A, B]{}, data, err
		}
		g1, rest, err := DecodePrefix(g, rest)
		if err != nil {
			return Transducer[A, B]{}, data, err
		}
		return Pipe(f1, g1), rest, nil
	}
	return Gen("("+f.shape+">"+g.shape+")", step, enc, dec)
}
