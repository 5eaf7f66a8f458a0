// Package tape provides the ordered checkpoint buffer used to serialize and
// restore pipeline iteration positions.
//
// A tape is a strict protocol, not a general-purpose container: each stage's
// RecordPosition and ReloadPosition form a matched pair, and tokens must be
// read in the exact order they were written. There is no random access.
//
//	t := tape.New()
//	src.RecordPosition(t)   // stage appends its resumption state
//	...
//	src.Reset(ctx)
//	src.ReloadPosition(ctx, t) // consumes the same tokens, same order
//
// Save and Load persist a tape as a gob stream framed with a BLAKE2b-256
// digest, so a truncated or tampered checkpoint file is rejected instead of
// being misread as valid state.
package tape
