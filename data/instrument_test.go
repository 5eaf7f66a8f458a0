package data

import (
	"context"
	stderrors "errors"
	"testing"
)

func TestInstrument_PassThrough(t *testing.T) {
	got, err := Collect(context.Background(), New(Instrument(FromSlice([]int{1, 2, 3}), "test", nil)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestInstrument_PropagatesError(t *testing.T) {
	cause := stderrors.New("boom")
	src := Instrument[int](&failingSource{failAt: 0, cause: cause}, "test", nil)
	_, _, err := src.Next(context.Background())
	if !stderrors.Is(err, cause) {
		t.Errorf("want wrapped cause, got %v", err)
	}
}

func TestInstrument_CheckpointDelegation(t *testing.T) {
	testRoundTrip(t, func() Source[int] {
		return Instrument(Range(0, 5, 1), "test", nil)
	}, intSliceEqual)
}
