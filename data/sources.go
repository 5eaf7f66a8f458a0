package data

import (
	"context"
	"fmt"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/tape"
	"github.com/kbukum/datakit/validation"
)

// FromSlice creates a source over a slice of elements. Its position is the
// index of the next unread element.
func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

type sliceSource[T any] struct {
	items []T
	index int
}

func (s *sliceSource[T]) Next(_ context.Context) (T, bool, error) {
	if s.index >= len(s.items) {
		var zero T
		return zero, false, nil
	}
	v := s.items[s.index]
	s.index++
	return v, true, nil
}

func (s *sliceSource[T]) Reset(context.Context) error {
	s.index = 0
	return nil
}

func (s *sliceSource[T]) RecordPosition(t *tape.Tape) error {
	t.Record(s.index)
	return nil
}

func (s *sliceSource[T]) ReloadPosition(_ context.Context, t *tape.Tape) error {
	index, err := t.ReadInt()
	if err != nil {
		return err
	}
	if index < 0 || index > len(s.items) {
		return errors.CheckpointMismatch(fmt.Sprintf("slice index %d out of range [0, %d]", index, len(s.items)))
	}
	s.index = index
	return nil
}

// Range creates a source over the integers [start, stop) advancing by step.
// A negative step counts down. A zero step is invalid.
func Range(start, stop, step int) Source[int] {
	s := &rangeSource{start: start, stop: stop, step: step, cur: start}
	if step == 0 {
		s.err = validation.New().Custom(false, "step", "must not be zero").Validate()
	}
	return s
}

type rangeSource struct {
	start, stop, step int
	cur               int
	err               error
}

func (s *rangeSource) done() bool {
	if s.step > 0 {
		return s.cur >= s.stop
	}
	return s.cur <= s.stop
}

func (s *rangeSource) Next(context.Context) (int, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	if s.done() {
		return 0, false, nil
	}
	v := s.cur
	s.cur += s.step
	return v, true, nil
}

func (s *rangeSource) Reset(context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.cur = s.start
	return nil
}

func (s *rangeSource) RecordPosition(t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	t.Record(s.cur)
	return nil
}

func (s *rangeSource) ReloadPosition(_ context.Context, t *tape.Tape) error {
	if s.err != nil {
		return s.err
	}
	cur, err := t.ReadInt()
	if err != nil {
		return err
	}
	s.cur = cur
	return nil
}
