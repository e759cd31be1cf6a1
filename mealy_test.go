package mealy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drpcorg/mealy/codec"
)

// feed steps t through all inputs, collecting outputs and the final
// successor.
func feed[A, B any](t *testing.T, tr Transducer[A, B], inputs []A) ([]B, Transducer[A, B]) {
	var outs []B
	var err error
	var b B
	for _, a := range inputs {
		b, tr, err = tr.Step(context.Background(), a)
		assert.Nil(t, err)
		outs = append(outs, b)
	}
	return outs, tr
}

func summer() Transducer[int64, int64] {
	return Scan(func(a, s int64) (int64, int64) {
		return s + a, s + a
	}, 0, codec.Int64)
}

func TestStep(t *testing.T) {
	double := Func(func(a int64) int64 { return a * 2 })
	outs, _ := feed(t, double, []int64{1, 2, 3})
	assert.Equal(t, []int64{2, 4, 6}, outs)

	outs, next := feed(t, summer(), []int64{1, 2, 3})
	assert.Equal(t, []int64{1, 3, 6}, outs)

	// stepping returns a new instance; the old one is still steppable
	outs2, _ := feed(t, next, []int64{10})
	assert.Equal(t, []int64{16}, outs2)
	outs3, _ := feed(t, next, []int64{100})
	assert.Equal(t, []int64{106}, outs3)
}

func TestStepEffect(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	eff := FuncE(func(ctx context.Context, a int64) (int64, error) {
		calls++
		if a < 0 {
			return 0, boom
		}
		return a + 1, nil
	})
	b, next, err := eff.Step(context.Background(), 1)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), b)
	_, _, err = next.Step(context.Background(), -1)
	assert.Equal(t, boom, err) // passed through verbatim
	assert.Equal(t, 2, calls)
}

func TestFanout(t *testing.T) {
	tr := Fanout(summer(),
		Func(func(a int64) int64 { return -a }),
		func(sum, neg int64) [2]int64 { return [2]int64{sum, neg} })
	assert.Equal(t, kState, tr.kind)
	outs, _ := feed(t, tr, []int64{1, 2, 3})
	assert.Equal(t, [][2]int64{{1, -1}, {3, -2}, {6, -3}}, outs)
}

func TestFanoutStepsBothBranches(t *testing.T) {
	left, right := 0, 0
	tr := Fanout(
		FuncE(func(ctx context.Context, a int) (int, error) { left++; return a, nil }),
		FuncE(func(ctx context.Context, a int) (int, error) { right++; return a, nil }),
		func(x, y int) int { return x + y })
	assert.Equal(t, kEff, tr.kind)
	feed(t, tr, []int{1, 2, 3})
	assert.Equal(t, 3, left)
	assert.Equal(t, 3, right)
}

func TestRoute(t *testing.T) {
	tr := Route(summer(), Func(func(s string) int64 { return int64(len(s)) }))
	assert.Equal(t, kState, tr.kind)

	ctx := context.Background()
	b, tr, err := tr.Step(ctx, ToLeft[int64, string](5))
	assert.Nil(t, err)
	assert.Equal(t, int64(5), b)

	// a Right step must not disturb the idle Left branch's state
	b, tr, err = tr.Step(ctx, ToRight[int64]("abc"))
	assert.Nil(t, err)
	assert.Equal(t, int64(3), b)

	b, _, err = tr.Step(ctx, ToLeft[int64, string](7))
	assert.Nil(t, err)
	assert.Equal(t, int64(12), b)
}

func TestEitherTags(t *testing.T) {
	l := ToLeft[int, string](1)
	assert.False(t, l.IsRight)
	r := ToRight[int]("x")
	assert.True(t, r.IsRight)
}
