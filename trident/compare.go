package trident

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"
)

type modelRun struct {
	architecture Architecture
	mse float64
	predictions [][]float64
}

// Compare runs the full experiment: load the price CSV, standardize, window,
// split chronologically, then build, train and evaluate each configured
// architecture in sequence before reporting errors and rendering the
// comparison charts.
func Compare(yamlPath string) {
	loadConfiguration()
	experiment := loadExperimentConfiguration(yamlPath)
	csvPath := filepath.Join(configuration.DataPath, experiment.CsvFile)
	records := readPriceSeries(csvPath)
	fmt.Printf("Loaded %d price records from %s (%s to %s)\n", len(records), csvPath, getDateString(records[0].Date), getDateString(records[len(records) - 1].Date))
	matrix := priceMatrix(records)
	scaler := newFeatureScaler(matrix)
	scaled := scaler.transform(matrix)
	samples := makeWindows(scaled, experiment.TimeSteps, experiment.FutureSteps)
	if len(samples) == 0 {
		log.Fatalf("Series of length %d is too short for timeSteps = %d and futureSteps = %d", len(records), experiment.TimeSteps, experiment.FutureSteps)
	}
	trainSamples, testSamples := splitWindows(samples, experiment.TrainRatio)
	if len(trainSamples) == 0 || len(testSamples) == 0 {
		log.Fatalf("Train/test split is degenerate (%d train windows, %d test windows)", len(trainSamples), len(testSamples))
	}
	fmt.Printf("Built %d windows (%d train, %d test)\n", len(samples), len(trainSamples), len(testSamples))
	rng := rand.New(rand.NewSource(experiment.Seed))
	start := time.Now()
	runs := []modelRun{}
	for _, tag := range experiment.Models {
		architecture, err := parseArchitecture(tag)
		if err != nil {
			log.Fatal(err)
		}
		model, err := newModel(architecture, experiment.Units, experiment.FutureSteps, experiment.Dropout, rng)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Training %s\n", architecture)
		model.fit(trainSamples, &experiment)
		mse, predictions := model.evaluate(testSamples)
		runs = append(runs, modelRun{
			architecture: architecture,
			mse: mse,
			predictions: predictions,
		})
	}
	delta := time.Since(start)
	fmt.Printf("Finished the experiment in %.2f s\n\n", delta.Seconds())
	for _, run := range runs {
		fmt.Printf("%s MSE: %.6f\n", run.architecture, run.mse)
	}
	fmt.Println("")
	renderComparisonCharts(records, testSamples, runs, scaler, &experiment)
}
