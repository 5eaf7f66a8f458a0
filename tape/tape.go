package tape

import (
	"fmt"

	"github.com/kbukum/datakit/errors"
)

// Tape is an append-only, sequentially-read buffer of position tokens.
// A stage's RecordPosition appends tokens; the matching ReloadPosition
// consumes them in the exact order they were written. Tokens are opaque to
// the tape itself.
type Tape struct {
	tokens []any
	pos    int
}

// New creates an empty tape.
func New() *Tape {
	return &Tape{}
}

// Record appends one token.
func (t *Tape) Record(v any) {
	t.tokens = append(t.tokens, v)
}

// Read consumes and returns the next token in write order.
func (t *Tape) Read() (any, error) {
	if t.pos >= len(t.tokens) {
		return nil, errors.CheckpointMismatch("tape exhausted").
			WithDetail("position", t.pos)
	}
	v := t.tokens[t.pos]
	t.pos++
	return v, nil
}

// ReadBool consumes the next token and asserts it is a bool.
func (t *Tape) ReadBool() (bool, error) {
	v, err := t.Read()
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeMismatch(t.pos-1, "bool", v)
	}
	return b, nil
}

// ReadInt consumes the next token and asserts it is an int.
func (t *Tape) ReadInt() (int, error) {
	v, err := t.Read()
	if err != nil {
		return 0, err
	}
	n, ok := v.(int)
	if !ok {
		return 0, typeMismatch(t.pos-1, "int", v)
	}
	return n, nil
}

// ReadString consumes the next token and asserts it is a string.
func (t *Tape) ReadString() (string, error) {
	v, err := t.Read()
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", typeMismatch(t.pos-1, "string", v)
	}
	return s, nil
}

// Rewind resets the read cursor to the start without discarding tokens.
func (t *Tape) Rewind() {
	t.pos = 0
}

// Len returns the number of recorded tokens.
func (t *Tape) Len() int {
	return len(t.tokens)
}

// Pos returns the read cursor position.
func (t *Tape) Pos() int {
	return t.pos
}

func typeMismatch(pos int, want string, got any) *errors.AppError {
	return errors.CheckpointMismatch(fmt.Sprintf("token %d is %T, want %s", pos, got, want)).
		WithDetail("position", pos)
}
