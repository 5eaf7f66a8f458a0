// Package data provides lazy, restartable, checkpointable data sources and
// the combinators that compose them into loading pipelines.
//
// Pipelines are pull-based — no work happens until elements are pulled via
// Collect, Drain, or ForEach. Every stage implements Source, supporting
// forward iteration, reset, and position checkpointing through a tape, so
// an arbitrary pipeline can be suspended and resumed without skipping or
// duplicating elements.
//
// # Stages
//
//   - FromSlice, Range: leaf sources
//   - Map, Filter, Tap: stateless element-wise stages
//   - Take, Skip, Shard, Concat: counted and structural stages
//   - Yield: flatten each element into a nested pipeline (the flattening
//     combinator; nests arbitrarily since its result is itself a Source)
//   - Instrument: metric/log wrapper around any stage
//
// # Usage
//
//	src := data.FromSlice([]int{1, 2, 3})
//	flat := data.Yield(src, func(_ context.Context, n int) (*data.Pipeline[string], error) {
//	    copies := make([]string, n)
//	    for i := range copies {
//	        copies[i] = "x"
//	    }
//	    return data.New(data.FromSlice(copies)), nil
//	})
//	out, _ := data.Collect(ctx, data.New(flat))
//
// # Checkpointing
//
//	t := tape.New()
//	p.RecordPosition(t)       // suspend
//	...
//	p.Reset(ctx)
//	p.ReloadPosition(ctx, t)  // resume at the next unread element
//
// Sources are single-consumer and perform no internal locking; embedders
// driving a pipeline from multiple goroutines must serialize calls.
package data
