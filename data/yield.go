package data

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/observability"
	"github.com/kbukum/datakit/tape"
)

// YieldFunc maps one outer element to a nested pipeline whose elements are
// flattened into the output stream. Returning an empty (or nil) pipeline is
// a supported non-error case; the element is simply skipped.
//
// The function must be deterministic and side-effect free with respect to
// its input: restoring a checkpoint re-invokes it on the same element and
// expects an equivalent pipeline back. This is a caller obligation; the
// library cannot detect violations, and a non-deterministic YieldFunc makes
// reload-then-continue silently diverge from the original run.
type YieldFunc[I, O any] func(ctx context.Context, example I) (*Pipeline[O], error)

// YieldOption configures a yield stage.
type YieldOption func(*yieldConfig)

type yieldConfig struct {
	metrics *observability.Metrics
	stage   string
}

// WithMetrics attaches metric instruments to a yield stage; each nested
// pipeline materialized is counted under the given stage name.
func WithMetrics(m *observability.Metrics, stage string) YieldOption {
	return func(c *yieldConfig) {
		c.metrics = m
		c.stage = stage
	}
}

// Yield composes an inner source with fn into a single flattened source:
// all elements of the nested pipeline produced for the first inner element,
// then all elements for the second, and so on. The result implements
// Source, so yield stages nest arbitrarily.
//
// The combinator takes exclusive ownership of inner. Construction performs
// no validation and no work; failures surface on first use.
func Yield[I, O any](inner Source[I], fn YieldFunc[I, O], opts ...YieldOption) Source[O] {
	var cfg yieldConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.stage == "" {
		cfg.stage = "yield"
	}
	return &yieldSource[I, O]{inner: inner, fn: fn, cfg: cfg}
}

type yieldSource[I, O any] struct {
	inner Source[I]
	fn    YieldFunc[I, O]
	cfg   yieldConfig

	// example buffers the outer element the current nested pipeline was
	// derived from. It is retained while that pipeline is live so a
	// checkpoint can re-derive the pipeline on reload.
	example    I
	hasExample bool
	// pending marks an example whose yield invocation has not succeeded
	// yet; a retried Next re-invokes fn on it instead of pulling a new
	// element. The failing element is not skipped.
	pending bool
	current *Pipeline[O]
}

// Next returns the next element in flattened order, or exhaustion once both
// the current nested pipeline and the inner source are exhausted.
func (s *yieldSource[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	// A loop rather than recursion: inner elements may yield pipelines that
	// are immediately empty, and each must be skipped transparently.
	for {
		if s.current.Initialized() {
			v, ok, err := s.current.Next(ctx)
			if err != nil {
				return zero, false, err
			}
			if ok {
				return v, true, nil
			}
		}
		loaded, err := s.loadNextPipeline(ctx)
		if err != nil {
			return zero, false, err
		}
		if !loaded {
			return zero, false, nil
		}
	}
}

// loadNextPipeline advances the inner source by one element and turns it
// into the new nested pipeline. Returns false when the inner source is
// exhausted.
func (s *yieldSource[I, O]) loadNextPipeline(ctx context.Context) (bool, error) {
	// Discard the stale nested pipeline before the pull so it is never
	// reused across outer elements.
	s.current = nil
	if !s.pending {
		example, ok, err := s.inner.Next(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			var zero I
			s.example = zero
			s.hasExample = false
			return false, nil
		}
		s.example = example
		s.hasExample = true
		s.pending = true
	}
	p, err := s.invokeYieldFn(ctx)
	if err != nil {
		return false, err
	}
	s.pending = false
	s.current = p
	if s.cfg.metrics != nil {
		s.cfg.metrics.RecordLoad(ctx, s.cfg.stage)
	}
	return true, nil
}

// invokeYieldFn is the one point where user code runs; a failure surfaces
// as a YIELD_FAILED error attributable to this stage.
func (s *yieldSource[I, O]) invokeYieldFn(ctx context.Context) (*Pipeline[O], error) {
	p, err := s.fn(ctx, s.example)
	if err != nil {
		return nil, errors.YieldFailed(err)
	}
	return p, nil
}

// Reset restores the combinator to its initial state. The first nested
// pipeline is re-materialized lazily on the next call to Next.
func (s *yieldSource[I, O]) Reset(ctx context.Context) error {
	var zero I
	s.example = zero
	s.hasExample = false
	s.pending = false
	s.current = nil
	return s.inner.Reset(ctx)
}

// RecordPosition writes, in order: the inner source's position, whether an
// outer element is buffered plus its value, and whether a nested pipeline
// is active plus that pipeline's position.
func (s *yieldSource[I, O]) RecordPosition(t *tape.Tape) error {
	if err := s.inner.RecordPosition(t); err != nil {
		return err
	}
	t.Record(s.hasExample)
	if s.hasExample {
		t.Record(s.example)
	}
	active := s.current.Initialized()
	t.Record(active)
	if active {
		return s.current.RecordPosition(t)
	}
	return nil
}

// ReloadPosition reads back the tokens RecordPosition wrote and, when a
// nested pipeline was active, re-derives it by invoking the yield function
// on the restored element and reloading the nested position.
func (s *yieldSource[I, O]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	if err := s.inner.ReloadPosition(ctx, t); err != nil {
		return err
	}
	s.current = nil
	s.pending = false
	hasExample, err := t.ReadBool()
	if err != nil {
		return err
	}
	s.hasExample = hasExample
	if hasExample {
		v, err := t.Read()
		if err != nil {
			return err
		}
		example, ok := v.(I)
		if !ok {
			return errors.CheckpointMismatch("buffered element has unexpected type").
				WithDetail("stage", s.cfg.stage)
		}
		s.example = example
	} else {
		var zero I
		s.example = zero
	}
	active, err := t.ReadBool()
	if err != nil {
		return err
	}
	if !active {
		if s.hasExample {
			// The yield invocation had not completed when the position was
			// recorded; the next call to Next retries it.
			s.pending = true
		}
		return nil
	}
	if !s.hasExample {
		return errors.CheckpointMismatch("nested pipeline recorded without its source element").
			WithDetail("stage", s.cfg.stage)
	}
	p, err := s.invokeYieldFn(ctx)
	if err != nil {
		return err
	}
	if !p.Initialized() {
		return errors.CheckpointMismatch("yield function produced no pipeline for the recorded element").
			WithDetail("stage", s.cfg.stage)
	}
	if err := p.ReloadPosition(ctx, t); err != nil {
		return err
	}
	s.current = p
	return nil
}
