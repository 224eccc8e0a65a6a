package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"go.llib.dev/frameless/pkg/errorkit"
	"go.llib.dev/frameless/pkg/logging"

	"go.llib.dev/lazyseq/pkg/lazyiter"
	"go.llib.dev/lazyseq/pkg/spill"
)

// Runner evaluates pipeline Definitions.
type Runner struct {
	Logger *logging.Logger
	// DB is used by sql sources.
	DB *sql.DB
	// Spill is used by spill operations.
	Spill *spill.Store
}

// run is the state of a single pipeline evaluation.
type run struct {
	*Runner
	ctx  context.Context
	refs []spill.Ref
}

// Build returns the lazy sequence described by the source and the operations of the Definition.
// Nothing is evaluated until the returned Iterator is pulled.
func (r *Runner) Build(ctx context.Context, def Definition) (*lazyiter.Iterator[string], error) {
	it, _, err := r.build(ctx, def)
	return it, err
}

func (r *Runner) build(ctx context.Context, def Definition) (*lazyiter.Iterator[string], *run, error) {
	if err := def.Validate(); err != nil {
		return nil, nil, err
	}
	rn := &run{Runner: r.withDefaults(), ctx: ctx}
	it, err := rn.source(def.Source)
	if err != nil {
		return nil, nil, err
	}
	for i, op := range def.Operations {
		it, err = rn.operation(it, op)
		if err != nil {
			return nil, nil, err
		}
		rn.Logger.Debug(ctx, "pipeline operation added",
			logging.Field("index", i),
			logging.Field("op", op.Op))
	}
	return it, rn, nil
}

// Run evaluates the Definition, and returns the JSON result of its sink.
func (r *Runner) Run(ctx context.Context, def Definition) (_ json.RawMessage, rErr error) {
	start := time.Now()
	it, rn, err := r.build(ctx, def)
	if err != nil {
		return nil, err
	}
	logger := rn.Logger
	logger.Info(ctx, "pipeline started",
		logging.Field("name", def.Name),
		logging.Field("source", def.Source.Kind),
		logging.Field("operations", len(def.Operations)))

	defer func() {
		for _, ref := range rn.refs {
			if err := rn.Spill.Drop(ref); err != nil {
				logger.Warn(ctx, "failed to drop spilled sequence", logging.ErrField(err), logging.Field("ref", string(ref)))
			}
		}
	}()
	defer func() { rErr = errorkit.Merge(rErr, it.Close()) }()

	out, err := rn.sink(it, def.Sink)
	if err != nil {
		logger.Error(ctx, "pipeline failed", logging.ErrField(err), logging.Field("name", def.Name))
		return nil, err
	}
	logger.Info(ctx, "pipeline finished",
		logging.Field("name", def.Name),
		logging.Field("sink", def.Sink.Kind),
		logging.Field("duration", time.Since(start).String()))
	return out, nil
}

func (r *Runner) withDefaults() *Runner {
	c := *r
	if c.Logger == nil {
		c.Logger = &logging.Logger{Out: io.Discard}
	}
	return &c
}
