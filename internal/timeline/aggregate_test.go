package timeline

import (
	"fmt"
	"reflect"
	"testing"
)

func inst(name string, start, end float64) ClipInstance {
	return ClipInstance{
		Name:     name,
		StartSec: start,
		EndSec:   end,
		StartTC:  tc(start),
		EndTC:    tc(end),
	}
}

func tc(s float64) string {
	return fmt.Sprintf("%02d:%02d:%02d", int(s)/3600, (int(s)%3600)/60, int(s)%60)
}

func TestDedupe_CollapsesExactDuplicates(t *testing.T) {
	in := []ClipInstance{
		inst("a", 0, 5),
		inst("a", 0, 5),
		inst("b", 2, 7),
	}

	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("got %d instances, want 2", len(out))
	}
	if out[0].Name != "a" || out[0].InstanceCount != 2 {
		t.Errorf("first = %q count %d, want a count 2", out[0].Name, out[0].InstanceCount)
	}
	if out[1].Name != "b" || out[1].InstanceCount != 1 {
		t.Errorf("second = %q count %d, want b count 1", out[1].Name, out[1].InstanceCount)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	in := []ClipInstance{
		inst("a", 0, 5),
		inst("a", 0, 5),
		inst("a", 10, 15),
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Dedupe not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDedupe_DistinguishesParentSequence(t *testing.T) {
	a := inst("a", 0, 5)
	b := inst("a", 0, 5)
	b.SourceSequence = "Nested"

	out := Dedupe([]ClipInstance{a, b})
	if len(out) != 2 {
		t.Errorf("got %d instances, want 2 (different parent sequences)", len(out))
	}
}

func TestMergeIntervals(t *testing.T) {
	tests := []struct {
		name string
		in   []ClipInstance
		want []Interval
	}{
		{
			name: "overlap merges",
			in:   []ClipInstance{inst("a", 0, 5), inst("a", 3, 8)},
			want: []Interval{{StartSec: 0, EndSec: 8, StartTC: "00:00:00", EndTC: "00:00:08"}},
		},
		{
			name: "exact adjacency merges",
			in:   []ClipInstance{inst("a", 0, 5), inst("a", 5, 9)},
			want: []Interval{{StartSec: 0, EndSec: 9, StartTC: "00:00:00", EndTC: "00:00:09"}},
		},
		{
			name: "gap stays split",
			in:   []ClipInstance{inst("a", 0, 5), inst("a", 6, 9)},
			want: []Interval{
				{StartSec: 0, EndSec: 5, StartTC: "00:00:00", EndTC: "00:00:05"},
				{StartSec: 6, EndSec: 9, StartTC: "00:00:06", EndTC: "00:00:09"},
			},
		},
		{
			name: "containment absorbs",
			in:   []ClipInstance{inst("a", 0, 10), inst("a", 2, 4)},
			want: []Interval{{StartSec: 0, EndSec: 10, StartTC: "00:00:00", EndTC: "00:00:10"}},
		},
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeIntervals(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeIntervals() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeIntervals_OrderIndependent(t *testing.T) {
	forward := MergeIntervals([]ClipInstance{inst("a", 0, 5), inst("a", 4, 9), inst("a", 12, 15)})
	backward := MergeIntervals([]ClipInstance{inst("a", 12, 15), inst("a", 4, 9), inst("a", 0, 5)})
	if !reflect.DeepEqual(forward, backward) {
		t.Errorf("merge depends on input order:\nforward:  %+v\nbackward: %+v", forward, backward)
	}
}

func TestMergeIntervals_SortedNonOverlapping(t *testing.T) {
	got := MergeIntervals([]ClipInstance{
		inst("a", 30, 34), inst("a", 0, 5), inst("a", 10, 20), inst("a", 15, 25),
	})

	for i := 1; i < len(got); i++ {
		if got[i].StartSec <= got[i-1].EndSec {
			t.Errorf("intervals %d and %d overlap or touch: %+v", i-1, i, got)
		}
	}
}

func TestAggregate(t *testing.T) {
	in := []ClipInstance{
		inst("b", 10, 15),
		inst("a", 0, 5),
		inst("a", 0, 5),
		inst("a", 4, 9),
	}

	perInstance, grouped := Aggregate(in)

	if len(perInstance) != 3 {
		t.Fatalf("perInstance len = %d, want 3 (duplicate collapsed)", len(perInstance))
	}
	if perInstance[0].Name != "a" || perInstance[0].InstanceCount != 2 {
		t.Errorf("perInstance[0] = %q count %d, want a count 2",
			perInstance[0].Name, perInstance[0].InstanceCount)
	}

	if len(grouped) != 2 {
		t.Fatalf("grouped len = %d, want 2", len(grouped))
	}
	if grouped[0].Name != "a" {
		t.Errorf("grouped[0] = %q, want a (earliest start first)", grouped[0].Name)
	}
	if grouped[0].InstanceCount != 2 {
		t.Errorf("grouped[0].InstanceCount = %d, want 2", grouped[0].InstanceCount)
	}
	if len(grouped[0].Intervals) != 1 {
		t.Errorf("grouped[0] intervals = %+v, want one merged interval", grouped[0].Intervals)
	}
	if grouped[0].Intervals[0].EndSec != 9 {
		t.Errorf("merged end = %v, want 9", grouped[0].Intervals[0].EndSec)
	}
}

func TestAggregate_TypeSplitsGroups(t *testing.T) {
	a := inst("a", 0, 5)
	a.Type = TypeVideo
	b := inst("a", 10, 15)
	b.Type = TypeAudio

	_, grouped := Aggregate([]ClipInstance{a, b})
	if len(grouped) != 2 {
		t.Errorf("grouped len = %d, want 2 (different types)", len(grouped))
	}
}
