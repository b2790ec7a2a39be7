package trident

import (
	"fmt"
	"log"
	"time"

	"github.com/cheggaaa/pb"
	"gonum.org/v1/gonum/floats"
)

type trainingResult struct {
	epochs int
	bestValidationLoss float64
}

// fit trains the model with mini-batch Adam, holding out the latest
// validationRatio slice of the training windows for early stopping. When the
// validation loss fails to improve for patience consecutive epochs, training
// halts and the best-seen weights are restored.
func (m *Model) fit(samples []windowSample, experiment *ExperimentConfiguration) trainingResult {
	if m.trained {
		log.Fatalf("%s model has already been trained", m.architecture)
	}
	if len(samples) < 2 {
		log.Fatalf("Not enough training windows (%d) to fit the %s model", len(samples), m.architecture)
	}
	validationStart := int((1.0 - experiment.ValidationRatio) * float64(len(samples)))
	if validationStart < 1 {
		validationStart = 1
	}
	if validationStart >= len(samples) {
		validationStart = len(samples) - 1
	}
	fitSamples := samples[:validationStart]
	validationSamples := samples[validationStart:]
	optimizer := newAdamOptimizer(m.params, experiment.LearningRate)
	bestLoss := 0.0
	bestEpoch := -1
	var bestWeights [][][]float64
	patience := 0
	epochs := 0
	start := time.Now()
	bar := pb.StartNew(experiment.Epochs)
	for epoch := 0; epoch < experiment.Epochs; epoch++ {
		epochs++
		m.runEpoch(fitSamples, experiment.BatchSize, optimizer)
		validationLoss := m.validationLoss(validationSamples)
		if bestEpoch == -1 || validationLoss < bestLoss {
			bestLoss = validationLoss
			bestEpoch = epoch
			bestWeights = m.snapshotWeights()
			patience = 0
		} else {
			patience++
			if patience >= experiment.Patience {
				break
			}
		}
		bar.Increment()
	}
	bar.Finish()
	m.restoreWeights(bestWeights)
	m.trained = true
	delta := time.Since(start)
	fmt.Printf("[%s] Finished training in %.2f s (%d epochs, best validation loss %.6f at epoch %d)\n", m.architecture, delta.Seconds(), epochs, bestLoss, bestEpoch + 1)
	return trainingResult{
		epochs: epochs,
		bestValidationLoss: bestLoss,
	}
}

// runEpoch performs one pass over the training windows in chronological
// order, accumulating gradients per mini-batch before each Adam update.
func (m *Model) runEpoch(samples []windowSample, batchSize int, optimizer *adamOptimizer) {
	for offset := 0; offset < len(samples); offset += batchSize {
		end := min(offset + batchSize, len(samples))
		batch := samples[offset:end]
		m.zeroGrad()
		for _, sample := range batch {
			output := m.forward(sample.input, true)
			target := flattenTarget(sample.target)
			dOutput := make([]float64, len(output))
			scale := 2.0 / float64(len(output) * len(batch))
			for i := range output {
				dOutput[i] = scale * (output[i] - target[i])
			}
			m.backward(dOutput)
		}
		optimizer.update(m.params)
	}
}

func (m *Model) validationLoss(samples []windowSample) float64 {
	predictions := make([][]float64, len(samples))
	targets := make([][]float64, len(samples))
	for i, sample := range samples {
		predictions[i] = m.predict(sample.input)
		targets[i] = flattenTarget(sample.target)
	}
	return meanSquaredError(predictions, targets)
}

// evaluate runs inference over the held-out test windows and returns the
// mean squared error together with one flattened prediction row per window.
func (m *Model) evaluate(samples []windowSample) (float64, [][]float64) {
	if !m.trained {
		log.Fatalf("%s model has not been trained yet", m.architecture)
	}
	if len(samples) == 0 {
		log.Fatal("Cannot evaluate a model without test windows")
	}
	predictions := make([][]float64, len(samples))
	targets := make([][]float64, len(samples))
	for i, sample := range samples {
		predictions[i] = m.predict(sample.input)
		targets[i] = flattenTarget(sample.target)
	}
	return meanSquaredError(predictions, targets), predictions
}

func meanSquaredError(predictions, targets [][]float64) float64 {
	if len(predictions) != len(targets) {
		log.Fatalf("Prediction/target count mismatch (%d vs. %d)", len(predictions), len(targets))
	}
	sum := 0.0
	count := 0
	diff := []float64{}
	for i, prediction := range predictions {
		diff = append(diff[:0], prediction...)
		floats.Sub(diff, targets[i])
		for _, d := range diff {
			sum += d * d
		}
		count += len(diff)
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}
