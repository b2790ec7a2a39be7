package trident

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestParseArchitecture(t *testing.T) {
	tests := []struct {
		tag string
		want Architecture
		wantErr string
	}{
		{tag: "SimpleRNN", want: SimpleRNN},
		{tag: "LSTM", want: LSTM},
		{tag: "GRU", want: GRU},
		{tag: "Transformer", wantErr: "unsupported architecture"},
		{tag: "lstm", wantErr: "unsupported architecture"},
		{tag: "", wantErr: "unsupported architecture"},
	}
	for _, test := range tests {
		t.Run(test.tag, func(t *testing.T) {
			architecture, err := parseArchitecture(test.tag)
			if test.wantErr != "" {
				if err == nil {
					t.Fatalf("expected an error for tag %q", test.tag)
				}
				if !strings.Contains(err.Error(), test.wantErr) {
					t.Fatalf("expected error containing %q, got %q", test.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if architecture != test.want {
				t.Fatalf("expected %s, got %s", test.want, architecture)
			}
		})
	}
}

func TestNewCellUnknownArchitecture(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := newCell(Architecture("Attention"), featureCount, 8, rng)
	if err == nil {
		t.Fatal("expected an error for an unknown architecture")
	}
}

func TestModelOutputWidth(t *testing.T) {
	tests := []struct {
		name string
		architecture Architecture
		units int
		futureSteps int
		want int
	}{
		{name: "LSTM single step", architecture: LSTM, units: 150, futureSteps: 1, want: 4},
		{name: "GRU three steps", architecture: GRU, units: 32, futureSteps: 3, want: 12},
		{name: "SimpleRNN two steps", architecture: SimpleRNN, units: 16, futureSteps: 2, want: 8},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			model, err := newModel(test.architecture, test.units, test.futureSteps, 0.0, rng)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if model.outputSize() != test.want {
				t.Fatalf("expected output size %d, got %d", test.want, model.outputSize())
			}
			input := makeTestSeries(10)
			output := model.predict(input)
			if len(output) != test.want {
				t.Fatalf("expected %d output values, got %d", test.want, len(output))
			}
			for i, value := range output {
				if math.IsNaN(value) || math.IsInf(value, 0) {
					t.Fatalf("output %d is not finite: %f", i, value)
				}
			}
		})
	}
}

func TestNewModelInvalidHyperparameters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := newModel(LSTM, 0, 1, 0.0, rng); err == nil {
		t.Error("expected an error for zero units")
	}
	if _, err := newModel(LSTM, 8, 0, 0.0, rng); err == nil {
		t.Error("expected an error for zero future steps")
	}
	if _, err := newModel(LSTM, 8, 1, 1.0, rng); err == nil {
		t.Error("expected an error for a dropout rate of one")
	}
}

func TestModelDeterministicForward(t *testing.T) {
	input := makeTestSeries(12)
	for _, architecture := range allArchitectures {
		first, err := newModel(architecture, 8, 1, 0.0, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := newModel(architecture, 8, 1, 0.0, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		firstOutput := first.predict(input)
		secondOutput := second.predict(input)
		for i := range firstOutput {
			if firstOutput[i] != secondOutput[i] {
				t.Fatalf("%s: identical seeds produced different outputs at index %d", architecture, i)
			}
		}
	}
}

func TestSnapshotRestoreWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	model, err := newModel(GRU, 6, 1, 0.0, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	input := makeTestSeries(8)
	before := model.predict(input)
	snapshot := model.snapshotWeights()
	for _, param := range model.params {
		for i := range param.value {
			for j := range param.value[i] {
				param.value[i][j] += 0.5
			}
		}
	}
	perturbed := model.predict(input)
	same := true
	for i := range before {
		if before[i] != perturbed[i] {
			same = false
		}
	}
	if same {
		t.Fatal("perturbing the weights did not change the output")
	}
	model.restoreWeights(snapshot)
	restored := model.predict(input)
	for i := range before {
		if before[i] != restored[i] {
			t.Fatalf("restored output differs at index %d: %f vs. %f", i, before[i], restored[i])
		}
	}
}
