package data

import (
	"context"

	"github.com/kbukum/datakit/tape"
)

// Source provides pull-based sequential access to a stream of elements with
// restart and position checkpointing. Every pipeline stage implements it,
// so stages compose freely: a flattening stage is itself a Source and can
// feed another flattening stage.
//
// Sources are single-consumer. Next, Reset, RecordPosition, and
// ReloadPosition must not be called concurrently; embedders that drive a
// source from multiple goroutines are responsible for serialization.
type Source[T any] interface {
	// Next returns the next element. Returns (zero, false, nil) when the
	// source is exhausted; exhaustion is not an error. Next may block as
	// long as the underlying producer blocks and honors ctx to the extent
	// the producer does.
	Next(ctx context.Context) (T, bool, error)

	// Reset rewinds the source to its start. Idempotent.
	Reset(ctx context.Context) error

	// RecordPosition appends this stage's resumption state to the tape.
	RecordPosition(t *tape.Tape) error

	// ReloadPosition consumes previously recorded state, in the exact order
	// it was written, and restores the position. It must be called on a
	// source in its initial (post-Reset) state.
	ReloadPosition(ctx context.Context, t *tape.Tape) error
}
