package data

import (
	"context"
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/tape"
)

func TestMap(t *testing.T) {
	src := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (string, error) {
		return strconv.Itoa(n * 10), nil
	})
	got, err := Collect(context.Background(), New(src))
	if err != nil {
		t.Fatal(err)
	}
	if !strSliceEqual(got, []string{"10", "20", "30"}) {
		t.Errorf("got %v", got)
	}
}

func TestMap_FnError(t *testing.T) {
	cause := stderrors.New("bad element")
	src := Map(FromSlice([]int{1, 2}), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, cause
		}
		return n, nil
	})
	_, err := Collect(context.Background(), New(src))
	if !stderrors.Is(err, cause) {
		t.Errorf("want fn error, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	src := Filter(FromSlice([]int{1, 2, 3, 4, 5, 6}), func(n int) bool { return n%2 == 0 })
	got, err := Collect(context.Background(), New(src))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2, 4, 6}) {
		t.Errorf("got %v, want [2 4 6]", got)
	}
}

func TestTap(t *testing.T) {
	var seen []int
	src := Tap(FromSlice([]int{1, 2}), func(_ context.Context, n int) error {
		seen = append(seen, n)
		return nil
	})
	got, err := Collect(context.Background(), New(src))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2}) || !intSliceEqual(seen, []int{1, 2}) {
		t.Errorf("got %v, seen %v", got, seen)
	}
}

func TestTake(t *testing.T) {
	got, err := Collect(context.Background(), New(Take(Range(0, 100, 1), 3)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{0, 1, 2}) {
		t.Errorf("got %v, want [0 1 2]", got)
	}
}

func TestTake_ShorterSource(t *testing.T) {
	got, err := Collect(context.Background(), New(Take(FromSlice([]int{1}), 5)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1}) {
		t.Errorf("got %v, want [1]", got)
	}
}

func TestTake_NegativeN(t *testing.T) {
	_, _, err := Take(FromSlice([]int{1}), -1).Next(context.Background())
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

func TestSkip(t *testing.T) {
	got, err := Collect(context.Background(), New(Skip(FromSlice([]int{1, 2, 3, 4}), 2)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{3, 4}) {
		t.Errorf("got %v, want [3 4]", got)
	}
}

func TestSkip_PastEnd(t *testing.T) {
	got, err := Collect(context.Background(), New(Skip(FromSlice([]int{1, 2}), 5)))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSkip_NegativeN(t *testing.T) {
	_, _, err := Skip(FromSlice([]int{1}), -1).Next(context.Background())
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

func TestShard(t *testing.T) {
	ctx := context.Background()
	for index, want := range [][]int{{0, 3, 6}, {1, 4, 7}, {2, 5}} {
		got, err := Collect(ctx, New(Shard(Range(0, 8, 1), index, 3)))
		if err != nil {
			t.Fatal(err)
		}
		if !intSliceEqual(got, want) {
			t.Errorf("shard %d: got %v, want %v", index, got, want)
		}
	}
}

func TestShard_InvalidArgs(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct{ index, count int }{
		{0, 0},
		{-1, 2},
		{2, 2},
	} {
		_, _, err := Shard(FromSlice([]int{1}), tc.index, tc.count).Next(ctx)
		if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Shard(%d, %d): want INVALID_INPUT, got %v", tc.index, tc.count, err)
		}
	}
}

func TestConcat(t *testing.T) {
	src := Concat(FromSlice([]int{1, 2}), FromSlice([]int{}), FromSlice([]int{3}))
	got, err := Collect(context.Background(), New(src))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestRange(t *testing.T) {
	got, err := Collect(context.Background(), New(Range(3, 9, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{3, 5, 7}) {
		t.Errorf("got %v, want [3 5 7]", got)
	}
}

func TestRange_NegativeStep(t *testing.T) {
	got, err := Collect(context.Background(), New(Range(3, 0, -1)))
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{3, 2, 1}) {
		t.Errorf("got %v, want [3 2 1]", got)
	}
}

func TestRange_ZeroStep(t *testing.T) {
	_, _, err := Range(0, 5, 0).Next(context.Background())
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("want INVALID_INPUT, got %v", err)
	}
}

// Checkpoint/restore equivalence at every prefix length, per stage.
func TestStages_CheckpointRoundTrip(t *testing.T) {
	intCases := map[string]func() Source[int]{
		"slice":  func() Source[int] { return FromSlice([]int{4, 5, 6, 7}) },
		"range":  func() Source[int] { return Range(10, 2, -2) },
		"filter": func() Source[int] { return Filter(Range(0, 10, 1), func(n int) bool { return n%3 != 0 }) },
		"take":   func() Source[int] { return Take(Range(0, 100, 1), 4) },
		"skip":   func() Source[int] { return Skip(FromSlice([]int{1, 2, 3, 4, 5}), 2) },
		"shard":  func() Source[int] { return Shard(Range(0, 9, 1), 1, 3) },
		"concat": func() Source[int] {
			return Concat(FromSlice([]int{1, 2}), FromSlice([]int{}), FromSlice([]int{3, 4}))
		},
		"tap": func() Source[int] {
			return Tap(FromSlice([]int{1, 2, 3}), func(context.Context, int) error { return nil })
		},
	}
	for name, factory := range intCases {
		t.Run(name, func(t *testing.T) {
			testRoundTrip(t, factory, intSliceEqual)
		})
	}

	t.Run("map", func(t *testing.T) {
		testRoundTrip(t, func() Source[string] {
			return Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (string, error) {
				return strconv.Itoa(n), nil
			})
		}, strSliceEqual)
	})
	t.Run("stacked", func(t *testing.T) {
		testRoundTrip(t, func() Source[int] {
			base := Filter(Range(0, 30, 1), func(n int) bool { return n%2 == 0 })
			return Take(Skip(base, 3), 7)
		}, intSliceEqual)
	})
}

func TestFromSlice_ReloadRejectsOutOfRange(t *testing.T) {
	tp := tape.New()
	tp.Record(5)
	err := FromSlice([]int{1, 2}).ReloadPosition(context.Background(), tp)
	if !errors.HasCode(err, errors.ErrCodeCheckpointMismatch) {
		t.Errorf("want CHECKPOINT_MISMATCH, got %v", err)
	}
}

func TestConcat_ReloadRejectsBadIndex(t *testing.T) {
	tp := tape.New()
	tp.Record(7) // only two sources joined
	tp.Record(0)
	tp.Record(0)
	src := Concat(FromSlice([]int{1}), FromSlice([]int{2}))
	err := src.ReloadPosition(context.Background(), tp)
	if !errors.HasCode(err, errors.ErrCodeCheckpointMismatch) {
		t.Errorf("want CHECKPOINT_MISMATCH, got %v", err)
	}
}
