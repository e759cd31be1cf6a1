/*
Package mealy is a kernel for composable, checkpointable stream transducers.

A Transducer consumes one input per step and yields one output plus its own
successor. Stepping never mutates: the old instance stays valid and steppable,
so independent lineages can be forked from a shared ancestor.

Internally a transducer is one of five representations, picked so common
cases carry no machinery they don't need:

  - pure:      func(A) B, no state, no effects
  - effectful: func(ctx, A) (B, error), no state
  - stateful:  explicit opaque state with an attached codec, pure step
  - stateful+effectful: same, effectful step
  - general:   an opaque closure producing the successor directly, with an
    attached encoder and a decode blueprint

Composition (Pipe, Fanout, Route) is an explicit case analysis over operand
representations: pure stays pure, stateful chains stay flat stateful (their
states and codecs pair up), and only a general operand forces the general
fallback. That case analysis is what keeps long chains of stateful
primitives serializable without opaque closures.

Checkpointing is Encode/Decode. Encode emits TLV-framed state bytes (nothing
at all for the stateless kinds); Decode rebuilds state relative to a template
transducer of matching construction and fails with ErrBadCheckpoint on any
shape mismatch instead of misreading bytes.

Effects use the ordinary Go capability: a context.Context in, an error out.
The kernel never inspects either; effect failures pass through Step verbatim.
*/
package mealy

import (
	"context"
	"errors"
	"fmt"

	"github.com/drpcorg/mealy/codec"
	"github.com/drpcorg/mealy/wire"
)

// ErrBadCheckpoint is reported by Decode for malformed or mismatched
// checkpoint bytes. Always recoverable: the template itself is still a
// valid initial-state transducer.
var ErrBadCheckpoint = errors.New("mealy: bad checkpoint")

type kind uint8

const (
	kPure kind = iota
	kEff
	kState
	kStateEff
	kGen
)

// stateNode carries an explicit-state transducer's machinery. The state
// type is erased to any; the step and codec closures know the real type.
// Exactly one of step/stepE is set.
type stateNode[A, B any] struct {
	s     any
	step  func(a A, s any) (B, any)
	stepE func(ctx context.Context, a A, s any) (B, any, error)
	enc   func(s any) []byte
	dec   func(data []byte) (s any, rest []byte, err error)
}

// genNode is the general fallback: the closure returns the ready-made
// successor, and the decode blueprint knows how to rebuild an equivalent
// transducer from bytes.
type genNode[A, B any] struct {
	step func(ctx context.Context, a A) (B, Transducer[A, B], error)
	enc  func() []byte
	dec  DecodeFn[A, B]
}

// DecodeFn is a decode blueprint: it consumes its own records from the
// front of data and returns the rebuilt transducer plus the remainder.
type DecodeFn[A, B any] func(data []byte) (Transducer[A, B], []byte, error)

// Transducer maps an input of type A to an output of type B and a
// successor of the same type. Construct with Func, FuncE, Scan, ScanE,
// ScanNR, ScanENR, Gen, Id or by composing existing ones; the zero value is
// not usable.
type Transducer[A, B any] struct {
	kind  kind
	shape string
	pure  func(A) B
	eff   func(ctx context.Context, a A) (B, error)
	state *stateNode[A, B]
	gen   *genNode[A, B]
}

// Func makes a stateless pure transducer from a plain function.
func Func[A, B any](f func(A) B) Transducer[A, B] {
	return Transducer[A, B]{kind: kPure, shape: "F", pure: f}
}

// FuncE makes a stateless effectful transducer. The context and the error
// are the effect capability's channels; the kernel passes both through
// untouched.
func FuncE[A, B any](f func(ctx context.Context, a A) (B, error)) Transducer[A, B] {
	return Transducer[A, B]{kind: kEff, shape: "E", eff: f}
}

// Id is the identity transducer.
func Id[A any]() Transducer[A, A] {
	return Func(func(a A) A { return a })
}

// Scan makes an explicit-state pure transducer: each step maps the input
// and the current state to the output and the next state. The codec makes
// the state checkpointable.
func Scan[A, B, S any](f func(A, S) (B, S), s0 S, c codec.Codec[S]) Transducer[A, B] {
	enc, dec := leafCodec(c)
	return Transducer[A, B]{
		kind:  kState,
		shape: "S:" + c.Name,
		state: &stateNode[A, B]{
			s: s0,
			step: func(a A, s any) (B, any) {
				b, s2 := f(a, s.(S))
				return b, s2
			},
			enc: enc,
			dec: dec,
		},
	}
}

// ScanE is Scan with an effectful step.
func ScanE[A, B, S any](f func(ctx context.Context, a A, s S) (B, S, error), s0 S, c codec.Codec[S]) Transducer[A, B] {
	enc, dec := leafCodec(c)
	return Transducer[A, B]{
		kind:  kStateEff,
		shape: "Z:" + c.Name,
		state: &stateNode[A, B]{
			s: s0,
			stepE: func(ctx context.Context, a A, s any) (B, any, error) {
				b, s2, err := f(ctx, a, s.(S))
				return b, s2, err
			},
			enc: enc,
			dec: dec,
		},
	}
}

// leafCodec frames a state codec as a single 'S' record.
func leafCodec[S any](c codec.Codec[S]) (func(any) []byte, func([]byte) (any, []byte, error)) {
	enc := func(s any) []byte {
		return wire.Record('S', c.Enc(s.(S)))
	}
	dec := func(data []byte) (any, []byte, error) {
		body, rest, err := wire.TakeWary('S', data)
		if err != nil {
			return nil, data, err
		}
		s, err := c.Dec(body)
		if err != nil {
			return nil, data, err
		}
		return s, rest, nil
	}
	return enc, dec
}

// ScanNR is the non-resuming Scan: no codec needed, the checkpoint is an
// empty marker record and decoding restores the initial state, not the
// current one. Callers that need exact resume use Scan.
func ScanNR[A, B, S any](f func(A, S) (B, S), s0 S) Transducer[A, B] {
	return Transducer[A, B]{
		kind:  kState,
		shape: "N",
		state: &stateNode[A, B]{
			s: s0,
			step: func(a A, s any) (B, any) {
				b, s2 := f(a, s.(S))
				return b, s2
			},
			enc: encNR,
			dec: decNR(s0),
		},
	}
}

// ScanENR is the non-resuming ScanE.
func ScanENR[A, B, S any](f func(ctx context.Context, a A, s S) (B, S, error), s0 S) Transducer[A, B] {
	return Transducer[A, B]{
		kind:  kStateEff,
		shape: "N",
		state: &stateNode[A, B]{
			s: s0,
			stepE: func(ctx context.Context, a A, s any) (B, any, error) {
				b, s2, err := f(ctx, a, s.(S))
				return b, s2, err
			},
			enc: encNR,
			dec: decNR(s0),
		},
	}
}

func encNR(any) []byte {
	return wire.Record('N')
}

func decNR(s0 any) func([]byte) (any, []byte, error) {
	return func(data []byte) (any, []byte, error) {
		_, rest, err := wire.TakeWary('N', data)
		if err != nil {
			return nil, data, err
		}
		return s0, rest, nil
	}
}

// Gen makes a general transducer from a raw step closure, an encoder thunk
// and a decode blueprint. The blueprint is carried as data so a checkpoint
// can be rebuilt without re-running any constructor.
func Gen[A, B any](shape string,
	step func(ctx context.Context, a A) (B, Transducer[A, B], error),
	enc func() []byte, dec DecodeFn[A, B]) Transducer[A, B] {
	return Transducer[A, B]{
		kind:  kGen,
		shape: shape,
		gen:   &genNode[A, B]{step: step, enc: enc, dec: dec},
	}
}

// Step advances the transducer by one input. It returns the output and the
// successor; the receiver itself is unchanged and remains steppable. Pure
// kinds never return an error; on an effect error the receiver is returned
// as the successor, un-advanced.
func (t Transducer[A, B]) Step(ctx context.Context, a A) (B, Transducer[A, B], error) {
	switch t.kind {
	case kPure:
		return t.pure(a), t, nil
	case kEff:
		b, err := t.eff(ctx, a)
		return b, t, err
	case kState:
		b, s2 := t.state.step(a, t.state.s)
		return b, t.withState(s2), nil
	case kStateEff:
		b, s2, err := t.state.stepE(ctx, a, t.state.s)
		if err != nil {
			return b, t, err
		}
		return b, t.withState(s2), nil
	case kGen:
		b, next, err := t.gen.step(ctx, a)
		if err != nil {
			return b, t, err
		}
		return b, next, nil
	}
	panic("mealy: zero-value transducer")
}

// withState rebinds the same behavior to a new state value.
func (t Transducer[A, B]) withState(s any) Transducer[A, B] {
	n := *t.state
	n.s = s
	t.state = &n
	return t
}

// Shape returns a structural descriptor of the transducer's construction.
// Two transducers with equal shapes have interchangeable checkpoints;
// drivers may fingerprint it to reject foreign checkpoints early.
func (t Transducer[A, B]) Shape() string {
	return t.shape
}

// Encode captures the transducer's current state as checkpoint bytes.
// Stateless transducers encode to zero bytes.
func (t Transducer[A, B]) Encode() []byte {
	switch t.kind {
	case kState, kStateEff:
		return t.state.enc(t.state.s)
	case kGen:
		return t.gen.enc()
	}
	return nil
}

// Decode rebuilds a transducer from checkpoint bytes relative to a template
// of matching construction: the result carries the template's behavior and
// the decoded state. For stateless templates any bytes succeed and the
// template is returned unchanged. All failures wrap ErrBadCheckpoint.
func Decode[A, B any](template Transducer[A, B], data []byte) (Transducer[A, B], error) {
	switch template.kind {
	case kPure, kEff:
		return template, nil
	}
	t, rest, err := DecodePrefix(template, data)
	if err != nil {
		return template, errors.Join(ErrBadCheckpoint, err)
	}
	if len(rest) != 0 {
		return template, errors.Join(ErrBadCheckpoint,
			fmt.Errorf("%d trailing bytes", len(rest)))
	}
	return t, nil
}

// DecodePrefix consumes exactly the records the template's shape demands
// from the front of data, returning the remainder. Blueprint authors use it
// to decode sub-components; most callers want Decode.
func DecodePrefix[A, B any](template Transducer[A, B], data []byte) (Transducer[A, B], []byte, error) {
	switch template.kind {
	case kState, kStateEff:
		s, rest, err := template.state.dec(data)
		if err != nil {
			return template, data, err
		}
		return template.withState(s), rest, nil
	case kGen:
		return template.gen.dec(data)
	}
	return template, data, nil
}

// NonResuming derives a non-resuming twin of any transducer: it encodes to
// an empty marker record and decodes back to the state it had when wrapped.
// Stateless transducers are returned as is.
func NonResuming[A, B any](t Transducer[A, B]) Transducer[A, B] {
	switch t.kind {
	case kState, kStateEff:
		n := *t.state
		n.enc = encNR
		n.dec = decNR(t.state.s)
		t.state = &n
		t.shape = "N"
		return t
	case kGen:
		return nonResumingGen(t, t)
	}
	return t
}

func nonResumingGen[A, B any](cur, init Transducer[A, B]) Transducer[A, B] {
	step := func(ctx context.Context, a A) (B, Transducer[A, B], error) {
		b, next, err := cur.Step(ctx, a)
		if err != nil {
			return b, nonResumingGen(cur, init), err
		}
		return b, nonResumingGen(next, init), nil
	}
	dec := func(data []byte) (Transducer[A, B], []byte, error) {
		_, rest, err := wire.TakeWary('N', data)
		if err != nil {
			return cur, data, err
		}
		return nonResumingGen(init, init), rest, nil
	}
	return Gen("N", step, func() []byte { return wire.Record('N') }, dec)
}

// Either is a tagged input for Route: exactly one side is meaningful.
type Either[L, R any] struct {
	IsRight bool
	Left    L
	Right   R
}

func ToLeft[L, R any](v L) Either[L, R] {
	return Either[L, R]{Left: v}
}

func ToRight[L, R any](v R) Either[L, R] {
	return Either[L, R]{IsRight: true, Right: v}
}
