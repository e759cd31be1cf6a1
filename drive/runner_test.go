package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerRun(t *testing.T) {
	s := openStore(t)
	r := NewRunner(summer(), RunnerOptions{Store: s, Name: "acc", Every: 2})

	ctx := context.Background()
	q := NewQueue[int64](0)
	require.Nil(t, q.Push(ctx, 1, 2, 3))
	q.Close()

	var outs []int64
	err := r.Run(ctx, q, func(b int64) error {
		outs = append(outs, b)
		return nil
	})
	require.Nil(t, err)
	assert.Equal(t, []int64{1, 3, 6}, outs)

	// the close-time checkpoint holds the final state
	resumed, err := Load(s, "acc", summer())
	require.Nil(t, err)
	got, _ := feed(t, resumed, []int64{4})
	assert.Equal(t, []int64{10}, got)
}

func TestRunnerResume(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	q := NewQueue[int64](0)
	require.Nil(t, q.Push(ctx, 5, 5))
	q.Close()
	r := NewRunner(summer(), RunnerOptions{Store: s, Name: "acc"})
	require.Nil(t, r.Run(ctx, q, nil))

	// a fresh process: load the lineage and keep going
	resumed, err := Load(s, "acc", summer())
	require.Nil(t, err)
	r2 := NewRunner(resumed, RunnerOptions{Store: s, Name: "acc"})

	q2 := NewQueue[int64](0)
	require.Nil(t, q2.Push(ctx, 1))
	q2.Close()
	var outs []int64
	require.Nil(t, r2.Run(ctx, q2, func(b int64) error {
		outs = append(outs, b)
		return nil
	}))
	assert.Equal(t, []int64{11}, outs)
}
