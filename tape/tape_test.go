package tape

import (
	"bytes"
	"testing"

	"github.com/kbukum/datakit/errors"
)

func TestRecordRead_Order(t *testing.T) {
	tp := New()
	tp.Record(3)
	tp.Record(true)
	tp.Record("abc")

	n, err := tp.ReadInt()
	if err != nil || n != 3 {
		t.Fatalf("ReadInt = %d, %v", n, err)
	}
	b, err := tp.ReadBool()
	if err != nil || !b {
		t.Fatalf("ReadBool = %v, %v", b, err)
	}
	s, err := tp.ReadString()
	if err != nil || s != "abc" {
		t.Fatalf("ReadString = %q, %v", s, err)
	}
}

func TestRead_Exhausted(t *testing.T) {
	tp := New()
	tp.Record(1)
	if _, err := tp.Read(); err != nil {
		t.Fatal(err)
	}
	_, err := tp.Read()
	if !errors.HasCode(err, errors.ErrCodeCheckpointMismatch) {
		t.Errorf("reading past the end should be a mismatch, got %v", err)
	}
}

func TestRead_TypeMismatch(t *testing.T) {
	tp := New()
	tp.Record("not an int")
	_, err := tp.ReadInt()
	if !errors.HasCode(err, errors.ErrCodeCheckpointMismatch) {
		t.Errorf("type mismatch should be a mismatch error, got %v", err)
	}
}

func TestRewind(t *testing.T) {
	tp := New()
	tp.Record(7)
	if _, err := tp.ReadInt(); err != nil {
		t.Fatal(err)
	}
	tp.Rewind()
	n, err := tp.ReadInt()
	if err != nil || n != 7 {
		t.Errorf("after Rewind ReadInt = %d, %v", n, err)
	}
}

func TestLenPos(t *testing.T) {
	tp := New()
	tp.Record(1)
	tp.Record(2)
	if tp.Len() != 2 || tp.Pos() != 0 {
		t.Errorf("Len=%d Pos=%d, want 2 0", tp.Len(), tp.Pos())
	}
	if _, err := tp.Read(); err != nil {
		t.Fatal(err)
	}
	if tp.Pos() != 1 {
		t.Errorf("Pos=%d, want 1", tp.Pos())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tp := New()
	tp.Record(42)
	tp.Record(true)
	tp.Record("checkpoint")

	var buf bytes.Buffer
	if err := tp.Save(&buf); err != nil {
		t.Fatal(err)
	}

	restored := New()
	if err := restored.Load(&buf); err != nil {
		t.Fatal(err)
	}
	n, err := restored.ReadInt()
	if err != nil || n != 42 {
		t.Fatalf("ReadInt = %d, %v", n, err)
	}
	b, err := restored.ReadBool()
	if err != nil || !b {
		t.Fatalf("ReadBool = %v, %v", b, err)
	}
	s, err := restored.ReadString()
	if err != nil || s != "checkpoint" {
		t.Fatalf("ReadString = %q, %v", s, err)
	}
}

func TestLoad_Truncated(t *testing.T) {
	tp := New()
	tp.Record(1)
	var buf bytes.Buffer
	if err := tp.Save(&buf); err != nil {
		t.Fatal(err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()/2])
	err := New().Load(truncated)
	if !errors.HasCode(err, errors.ErrCodeCheckpointCorrupted) {
		t.Errorf("truncated stream should be corrupted, got %v", err)
	}
}

func TestLoad_TamperedDigest(t *testing.T) {
	tp := New()
	tp.Record("payload")
	var buf bytes.Buffer
	if err := tp.Save(&buf); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF
	err := New().Load(bytes.NewReader(raw))
	if !errors.HasCode(err, errors.ErrCodeCheckpointCorrupted) {
		t.Errorf("tampered stream should be corrupted, got %v", err)
	}
}

func TestSaveLoad_CustomType(t *testing.T) {
	type sample struct {
		ID   int
		Name string
	}
	RegisterType(sample{})

	tp := New()
	tp.Record(sample{ID: 1, Name: "a"})
	var buf bytes.Buffer
	if err := tp.Save(&buf); err != nil {
		t.Fatal(err)
	}
	restored := New()
	if err := restored.Load(&buf); err != nil {
		t.Fatal(err)
	}
	v, err := restored.Read()
	if err != nil {
		t.Fatal(err)
	}
	got, ok := v.(sample)
	if !ok || got.ID != 1 || got.Name != "a" {
		t.Errorf("round trip = %#v", v)
	}
}
