package data

import (
	"context"
	"fmt"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/tape"
	"github.com/kbukum/datakit/validation"
)

// Map transforms each element using fn. The stage holds no position of its
// own; checkpointing delegates to the wrapped source.
func Map[I, O any](src Source[I], fn func(context.Context, I) (O, error)) Source[O] {
	return &mapSource[I, O]{src: src, fn: fn}
}

// Filter keeps only elements that satisfy the predicate.
func Filter[T any](src Source[T], fn func(T) bool) Source[T] {
	return &filterSource[T]{src: src, fn: fn}
}

// Tap calls fn as a side-effect for each element, then passes the element
// through unchanged. Use for logging, metrics, or mid-pipeline publishing.
func Tap[T any](src Source[T], fn func(context.Context, T) error) Source[T] {
	return &tapSource[T]{src: src, fn: fn}
}

// Take yields at most n elements before reporting exhaustion.
func Take[T any](src Source[T], n int) Source[T] {
	s := &takeSource[T]{src: src, n: n}
	if v := validation.New().Min("n", n, 0); v.HasErrors() {
		s.err = v.Validate()
	}
	return s
}

// Skip discards the first n elements before yielding the rest.
func Skip[T any](src Source[T], n int) Source[T] {
	s := &skipSource[T]{src: src, n: n}
	if v := validation.New().Min("n", n, 0); v.HasErrors() {
		s.err = v.Validate()
	}
	return s
}

// Shard yields every count-th element starting at index, splitting one
// source across count consumers.
func Shard[T any](src Source[T], index, count int) Source[T] {
	s := &shardSource[T]{src: src, index: index, count: count}
	if v := validation.New().Min("count", count, 1).Range("index", index, 0, count-1); v.HasErrors() {
		s.err = v.Validate()
	}
	return s
}

// Concat joins multiple sources sequentially. All elements of the first
// source are yielded before the second, and so on.
func Concat[T any](srcs ...Source[T]) Source[T] {
	return &concatSource[T]{srcs: srcs}
}

// --- Source implementations ---

type mapSource[I, O any] struct {
	src Source[I]
	fn  func(context.Context, I) (O, error)
}

func (s *mapSource[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	v, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := s.fn(ctx, v)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func (s *mapSource[I, O]) Reset(ctx context.Context) error { return s.src.Reset(ctx) }

func (s *mapSource[I, O]) RecordPosition(t *tape.Tape) error { return s.src.RecordPosition(t) }

func (s *mapSource[I, O]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	return s.src.ReloadPosition(ctx, t)
}

type filterSource[T any] struct {
	src Source[T]
	fn  func(T) bool
}

func (s *filterSource[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		v, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return v, false, err
		}
		if s.fn(v) {
			return v, true, nil
		}
	}
}

func (s *filterSource[T]) Reset(ctx context.Context) error { return s.src.Reset(ctx) }

func (s *filterSource[T]) RecordPosition(t *tape.Tape) error { return s.src.RecordPosition(t) }

func (s *filterSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	return s.src.ReloadPosition(ctx, t)
}

type tapSource[T any] struct {
	src Source[T]
	fn  func(context.Context, T) error
}

func (s *tapSource[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return v, ok, err
	}
	if err := s.fn(ctx, v); err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

func (s *tapSource[T]) Reset(ctx context.Context) error { return s.src.Reset(ctx) }

func (s *tapSource[T]) RecordPosition(t *tape.Tape) error { return s.src.RecordPosition(t) }

func (s *tapSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	return s.src.ReloadPosition(ctx, t)
}

type takeSource[T any] struct {
	src    Source[T]
	n      int
	served int
	err    error
}

func (s *takeSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.err != nil {
		return zero, false, s.err
	}
	if s.served >= s.n {
		return zero, false, nil
	}
	v, ok, err := s.src.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	s.served++
	return v, true, nil
}

func (s *takeSource[T]) Reset(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.served = 0
	return s.src.Reset(ctx)
}

func (s *takeSource[T]) RecordPosition(t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	t.Record(s.served)
	return nil
}

func (s *takeSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	if err := s.src.ReloadPosition(ctx, t); err != nil {
		return err
	}
	served, err := t.ReadInt()
	if err != nil {
		return err
	}
	if served < 0 || served > s.n {
		return errors.CheckpointMismatch(fmt.Sprintf("take counter %d out of range [0, %d]", served, s.n))
	}
	s.served = served
	return nil
}

type skipSource[T any] struct {
	src     Source[T]
	n       int
	skipped bool
	err     error
}

func (s *skipSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.err != nil {
		return zero, false, s.err
	}
	if !s.skipped {
		s.skipped = true
		for i := 0; i < s.n; i++ {
			if _, ok, err := s.src.Next(ctx); err != nil || !ok {
				return zero, false, err
			}
		}
	}
	return s.src.Next(ctx)
}

func (s *skipSource[T]) Reset(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.skipped = false
	return s.src.Reset(ctx)
}

func (s *skipSource[T]) RecordPosition(t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	t.Record(s.skipped)
	return nil
}

func (s *skipSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	if err := s.src.ReloadPosition(ctx, t); err != nil {
		return err
	}
	skipped, err := t.ReadBool()
	if err != nil {
		return err
	}
	s.skipped = skipped
	return nil
}

type shardSource[T any] struct {
	src          Source[T]
	index, count int
	pos          int
	err          error
}

func (s *shardSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if s.err != nil {
		return zero, false, s.err
	}
	for {
		v, ok, err := s.src.Next(ctx)
		if err != nil || !ok {
			return zero, false, err
		}
		p := s.pos
		s.pos++
		if p%s.count == s.index {
			return v, true, nil
		}
	}
}

func (s *shardSource[T]) Reset(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.pos = 0
	return s.src.Reset(ctx)
}

func (s *shardSource[T]) RecordPosition(t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	if err := s.src.RecordPosition(t); err != nil {
		return err
	}
	t.Record(s.pos)
	return nil
}

func (s *shardSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	if err := s.src.ReloadPosition(ctx, t); err != nil {
		return err
	}
	pos, err := t.ReadInt()
	if err != nil {
		return err
	}
	if pos < 0 {
		return errors.CheckpointMismatch(fmt.Sprintf("shard position %d is negative", pos))
	}
	s.pos = pos
	return nil
}

type concatSource[T any] struct {
	srcs   []Source[T]
	active int
}

func (s *concatSource[T]) Next(ctx context.Context) (T, bool, error) {
	for s.active < len(s.srcs) {
		v, ok, err := s.srcs[s.active].Next(ctx)
		if err != nil {
			return v, false, err
		}
		if ok {
			return v, true, nil
		}
		s.active++
	}
	var zero T
	return zero, false, nil
}

func (s *concatSource[T]) Reset(ctx context.Context) error {
	for _, src := range s.srcs {
		if err := src.Reset(ctx); err != nil {
			return err
		}
	}
	s.active = 0
	return nil
}

// RecordPosition records every joined source's position so the token
// layout is fixed regardless of which source is active.
func (s *concatSource[T]) RecordPosition(t *tape.Tape) error {
	t.Record(s.active)
	for _, src := range s.srcs {
		if err := src.RecordPosition(t); err != nil {
			return err
		}
	}
	return nil
}

func (s *concatSource[T]) ReloadPosition(ctx context.Context, t *tape.Tape) error {
	active, err := t.ReadInt()
	if err != nil {
		return err
	}
	if active < 0 || active > len(s.srcs) {
		return errors.CheckpointMismatch(fmt.Sprintf("concat index %d out of range [0, %d]", active, len(s.srcs)))
	}
	for _, src := range s.srcs {
		if err := src.ReloadPosition(ctx, t); err != nil {
			return err
		}
	}
	s.active = active
	return nil
}
