package trident

import (
	"strings"
	"testing"
)

func validExperiment() ExperimentConfiguration {
	return ExperimentConfiguration{
		CsvFile: "prices.csv",
		Models: []string{"SimpleRNN", "LSTM", "GRU"},
		TimeSteps: 60,
		FutureSteps: 1,
		TrainRatio: 0.8,
		ValidationRatio: 0.1,
		Units: 150,
		Dropout: 0.2,
		LearningRate: 0.001,
		Epochs: 100,
		BatchSize: 32,
		Patience: 10,
		Seed: 42,
	}
}

func TestExperimentConfigurationValidate(t *testing.T) {
	tests := []struct {
		name string
		mutate func(*ExperimentConfiguration)
		wantErr string
	}{
		{
			name: "valid configuration",
			mutate: func(e *ExperimentConfiguration) {},
		},
		{
			name: "missing csv file",
			mutate: func(e *ExperimentConfiguration) {
				e.CsvFile = ""
			},
			wantErr: "csvFile must be set",
		},
		{
			name: "zero time steps",
			mutate: func(e *ExperimentConfiguration) {
				e.TimeSteps = 0
			},
			wantErr: "timeSteps must be positive",
		},
		{
			name: "zero future steps",
			mutate: func(e *ExperimentConfiguration) {
				e.FutureSteps = 0
			},
			wantErr: "futureSteps must be positive",
		},
		{
			name: "train ratio too large",
			mutate: func(e *ExperimentConfiguration) {
				e.TrainRatio = 1.0
			},
			wantErr: "trainRatio must be in (0, 1)",
		},
		{
			name: "dropout of one",
			mutate: func(e *ExperimentConfiguration) {
				e.Dropout = 1.0
			},
			wantErr: "dropout must be in [0, 1)",
		},
		{
			name: "negative learning rate",
			mutate: func(e *ExperimentConfiguration) {
				e.LearningRate = -0.1
			},
			wantErr: "learningRate must be positive",
		},
		{
			name: "multiple errors",
			mutate: func(e *ExperimentConfiguration) {
				e.Epochs = 0
				e.BatchSize = 0
				e.Patience = 0
			},
			wantErr: "epochs must be positive; batchSize must be positive; patience must be positive",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			experiment := validExperiment()
			test.mutate(&experiment)
			err := experiment.validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error containing %q", test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("expected error containing %q, got %q", test.wantErr, err.Error())
			}
		})
	}
}
