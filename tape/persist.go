package tape

import (
	"bytes"
	"encoding/gob"
	"io"

	"golang.org/x/crypto/blake2b"

	"github.com/kbukum/datakit/errors"
)

// envelope frames a serialized token sequence with an integrity digest.
type envelope struct {
	Digest  []byte
	Payload []byte
}

func init() {
	// Built-in token types recorded by the library's own stages.
	gob.Register(0)
	gob.Register(int64(0))
	gob.Register(false)
	gob.Register("")
	gob.Register(float64(0))
	gob.Register([]byte(nil))
}

// RegisterType registers a concrete element type so values of that type can
// round-trip through Save and Load. Callers whose elements are not built-in
// types must register them once before saving.
func RegisterType(v any) {
	gob.Register(v)
}

// Save writes the full token sequence to w, framed with a BLAKE2b-256
// digest so corruption is detected on load. The read cursor is not saved.
func (t *Tape) Save(w io.Writer) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(t.tokens); err != nil {
		return errors.Internal(err).WithDetail("operation", "tape encode")
	}
	sum := blake2b.Sum256(buf.Bytes())
	env := envelope{Digest: sum[:], Payload: buf.Bytes()}
	if err := gob.NewEncoder(w).Encode(&env); err != nil {
		return errors.IO("tape save", err)
	}
	return nil
}

// Load replaces the tape's contents with a previously saved token sequence
// and rewinds the read cursor. Any truncation, digest mismatch, or decode
// failure surfaces as a checkpoint corruption error.
func (t *Tape) Load(r io.Reader) error {
	var env envelope
	if err := gob.NewDecoder(r).Decode(&env); err != nil {
		return errors.CheckpointCorrupted("undecodable envelope").WithCause(err)
	}
	sum := blake2b.Sum256(env.Payload)
	if !bytes.Equal(sum[:], env.Digest) {
		return errors.CheckpointCorrupted("digest mismatch")
	}
	var tokens []any
	if err := gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(&tokens); err != nil {
		return errors.CheckpointCorrupted("undecodable payload").WithCause(err)
	}
	t.tokens = tokens
	t.pos = 0
	return nil
}
