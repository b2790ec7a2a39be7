package trident

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func makeTestSeries(n int) [][]float64 {
	series := make([][]float64, n)
	for i := range series {
		value := float64(i)
		series[i] = []float64{value, value + 0.1, value + 0.2, value + 0.3}
	}
	return series
}

func TestMakeWindowsCount(t *testing.T) {
	tests := []struct {
		name string
		length int
		timeSteps int
		futureSteps int
		want int
	}{
		{name: "five windows", length: 20, timeSteps: 15, futureSteps: 1, want: 5},
		{name: "series shorter than window", length: 10, timeSteps: 15, futureSteps: 1, want: 0},
		{name: "exact fit", length: 16, timeSteps: 15, futureSteps: 1, want: 1},
		{name: "multi-step horizon", length: 20, timeSteps: 10, futureSteps: 5, want: 6},
		{name: "empty series", length: 0, timeSteps: 15, futureSteps: 1, want: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			samples := makeWindows(makeTestSeries(test.length), test.timeSteps, test.futureSteps)
			if len(samples) != test.want {
				t.Fatalf("expected %d windows, got %d", test.want, len(samples))
			}
		})
	}
}

func TestMakeWindowsLayout(t *testing.T) {
	series := makeTestSeries(20)
	samples := makeWindows(series, 15, 1)
	if len(samples) != 5 {
		t.Fatalf("expected 5 windows, got %d", len(samples))
	}
	first := samples[0]
	if diff := cmp.Diff(series[0:15], first.input); diff != "" {
		t.Errorf("window 0 input mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(series[15:16], first.target); diff != "" {
		t.Errorf("window 0 target mismatch (-want +got):\n%s", diff)
	}
	if first.targetIndex != 15 {
		t.Errorf("expected target index 15, got %d", first.targetIndex)
	}
}

func TestMakeWindowsContiguity(t *testing.T) {
	series := makeTestSeries(30)
	timeSteps := 7
	futureSteps := 3
	samples := makeWindows(series, timeSteps, futureSteps)
	for i, sample := range samples {
		if len(sample.input) != timeSteps {
			t.Fatalf("window %d: expected %d input rows, got %d", i, timeSteps, len(sample.input))
		}
		if len(sample.target) != futureSteps {
			t.Fatalf("window %d: expected %d target rows, got %d", i, futureSteps, len(sample.target))
		}
		// The target must immediately follow the input, making the two
		// sequences contiguous and disjoint
		if diff := cmp.Diff(series[i : i + timeSteps], sample.input); diff != "" {
			t.Errorf("window %d input mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(series[i + timeSteps : i + timeSteps + futureSteps], sample.target); diff != "" {
			t.Errorf("window %d target mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSplitWindowsChronological(t *testing.T) {
	series := makeTestSeries(30)
	samples := makeWindows(series, 5, 1)
	trainSamples, testSamples := splitWindows(samples, 0.8)
	if len(trainSamples) + len(testSamples) != len(samples) {
		t.Fatalf("split lost windows: %d + %d != %d", len(trainSamples), len(testSamples), len(samples))
	}
	if len(trainSamples) == 0 || len(testSamples) == 0 {
		t.Fatal("expected both split halves to be non-empty")
	}
	lastTrain := trainSamples[len(trainSamples) - 1]
	firstTest := testSamples[0]
	if lastTrain.targetIndex >= firstTest.targetIndex {
		t.Errorf("train windows must precede test windows (%d >= %d)", lastTrain.targetIndex, firstTest.targetIndex)
	}
}

func TestFlattenTarget(t *testing.T) {
	target := [][]float64{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
	}
	want := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if diff := cmp.Diff(want, flattenTarget(target)); diff != "" {
		t.Errorf("flattenTarget mismatch (-want +got):\n%s", diff)
	}
}
