package data

import (
	"context"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/tape"
)

// Pipeline is an owning handle around zero or one Source. A nil or
// zero-value Pipeline is uninitialized: it has never been bound to a
// source and every operation on it reports NOT_INITIALIZED.
//
// A pipeline whose source returned a non-exhaustion error is broken;
// further calls report PIPELINE_BROKEN until Reset succeeds.
type Pipeline[T any] struct {
	src    Source[T]
	broken bool
}

// New binds a source to a fresh pipeline handle.
func New[T any](src Source[T]) *Pipeline[T] {
	return &Pipeline[T]{src: src}
}

// Initialized reports whether a source is bound.
func (p *Pipeline[T]) Initialized() bool {
	return p != nil && p.src != nil
}

// Broken reports whether an earlier call failed.
func (p *Pipeline[T]) Broken() bool {
	return p != nil && p.broken
}

// Next returns the next element of the underlying source, or
// (zero, false, nil) on exhaustion.
func (p *Pipeline[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if !p.Initialized() {
		return zero, false, errors.NotInitialized()
	}
	if p.broken {
		return zero, false, errors.PipelineBroken()
	}
	v, ok, err := p.src.Next(ctx)
	if err != nil {
		p.broken = true
		return zero, false, err
	}
	return v, ok, nil
}

// Reset rewinds the pipeline to its start and clears the broken state.
func (p *Pipeline[T]) Reset(ctx context.Context) error {
	if !p.Initialized() {
		return errors.NotInitialized()
	}
	if err := p.src.Reset(ctx); err != nil {
		p.broken = true
		return err
	}
	p.broken = false
	return nil
}

// RecordPosition appends the pipeline's resumption state to the tape.
func (p *Pipeline[T]) RecordPosition(t *tape.Tape) error {
	if !p.Initialized() {
		return errors.NotInitialized()
	}
	if p.broken {
		return errors.PipelineBroken()
	}
	return p.src.RecordPosition(t)
}

// ReloadPosition restores a previously recorded position. The pipeline must
// be in its initial (post-Reset) state.
func (p *Pipeline[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	if !p.Initialized() {
		return errors.NotInitialized()
	}
	if err := p.src.ReloadPosition(ctx, t); err != nil {
		p.broken = true
		return err
	}
	p.broken = false
	return nil
}

// --- Terminals ---

// Collect pulls all remaining elements and returns them as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var result []T
	for {
		v, ok, err := p.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, v)
	}
}

// Drain pulls all remaining elements and sends each to sink.
func Drain[T any](ctx context.Context, p *Pipeline[T], sink func(context.Context, T) error) error {
	for {
		v, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := sink(ctx, v); err != nil {
			return err
		}
	}
}

// ForEach pulls all remaining elements and calls fn for each. Convenience
// wrapper around Drain.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(ctx, p, fn)
}
