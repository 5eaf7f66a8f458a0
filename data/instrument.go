package data

import (
	"context"
	"time"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/observability"
	"github.com/kbukum/datakit/tape"
)

// Instrument wraps a source with metric and log instrumentation under the
// given stage name. Elements served and errors surfaced are counted; resets
// are logged at debug level. A nil metrics set disables the counters, which
// keeps the wrapper usable in tests.
func Instrument[T any](src Source[T], stage string, metrics *observability.Metrics) Source[T] {
	return &instrumentedSource[T]{
		src:     src,
		stage:   stage,
		metrics: metrics,
		log:     logger.WithComponent(stage),
	}
}

type instrumentedSource[T any] struct {
	src     Source[T]
	stage   string
	metrics *observability.Metrics
	log     *logger.Logger
}

func (s *instrumentedSource[T]) Next(ctx context.Context) (T, bool, error) {
	start := time.Now()
	v, ok, err := s.src.Next(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordError(ctx, string(errors.CodeOf(err)), s.stage)
		}
		s.log.Error("source failed", logger.ErrorFields("next", err))
		return v, false, err
	}
	if ok && s.metrics != nil {
		s.metrics.RecordElement(ctx, s.stage, time.Since(start))
	}
	return v, ok, nil
}

func (s *instrumentedSource[T]) Reset(ctx context.Context) error {
	if err := s.src.Reset(ctx); err != nil {
		return err
	}
	s.log.Debug("source reset")
	return nil
}

func (s *instrumentedSource[T]) RecordPosition(t *tape.Tape) error {
	return s.src.RecordPosition(t)
}

func (s *instrumentedSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	return s.src.ReloadPosition(ctx, t)
}
