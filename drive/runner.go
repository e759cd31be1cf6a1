package drive

import (
	"context"
	"time"

	"github.com/drpcorg/mealy"
	"github.com/drpcorg/mealy/utils"
)

type RunnerOptions struct {
	Store   *Store // nil disables checkpointing
	Name    string
	Every   int // steps between checkpoints, default 64
	Logger  utils.Logger
	Metrics *Metrics
}

// Runner owns one lineage's step loop: it pulls inputs off a Queue,
// threads the successor forward and checkpoints every so often. Effect
// errors from the transducer abort the run untouched; the last good
// checkpoint stays in the store.
type Runner[A, B any] struct {
	cur   mealy.Transducer[A, B]
	opts  RunnerOptions
	avg   utils.AvgVal
	steps int
}

func NewRunner[A, B any](t mealy.Transducer[A, B], opts RunnerOptions) *Runner[A, B] {
	if opts.Every <= 0 {
		opts.Every = 64
	}
	if opts.Logger == nil {
		opts.Logger = utils.NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	return &Runner[A, B]{cur: t, opts: opts}
}

// Current returns the lineage's present transducer. The runner never
// mutates past instances, so the caller may step or fork it freely.
func (r *Runner[A, B]) Current() mealy.Transducer[A, B] {
	return r.cur
}

// Checkpoint saves the current state now, regardless of the cadence.
func (r *Runner[A, B]) Checkpoint() error {
	if r.opts.Store == nil {
		return nil
	}
	return r.opts.Store.Save(r.opts.Name, r.cur)
}

// Run drives the loop until the queue closes, the context is canceled or
// a step fails. Each output goes to emit before the next input is taken;
// a nil emit discards outputs. On a clean queue close the final state is
// checkpointed before returning.
func (r *Runner[A, B]) Run(ctx context.Context, q *Queue[A], emit func(B) error) error {
	ctx = utils.WithDefaultArgs(ctx, "lineage", r.opts.Name)
	for {
		batch, err := q.Pull(ctx, 64)
		if err == ErrClosed {
			return r.Checkpoint()
		}
		if err != nil {
			return err
		}
		for _, a := range batch {
			start := time.Now()
			b, next, err := r.cur.Step(ctx, a)
			if err != nil {
				r.opts.Logger.ErrorCtx(ctx, "step failed", "err", err)
				return err
			}
			r.cur = next
			r.steps++
			r.avg.Add(time.Since(start).Seconds())
			r.opts.Metrics.Steps.Inc()
			r.opts.Metrics.StepSeconds.Set(r.avg.Val())
			if emit != nil {
				if err := emit(b); err != nil {
					return err
				}
			}
			if r.opts.Store != nil && r.steps%r.opts.Every == 0 {
				if err := r.Checkpoint(); err != nil {
					return err
				}
			}
		}
	}
}
