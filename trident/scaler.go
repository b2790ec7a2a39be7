package trident

import (
	"log"

	"gonum.org/v1/gonum/stat"
)

// featureScaler standardizes each feature column to zero mean and unit
// variance and can invert the transform using the stored parameters.
type featureScaler struct {
	means []float64
	scales []float64
}

func newFeatureScaler(matrix [][]float64) *featureScaler {
	if len(matrix) == 0 {
		log.Fatal("Cannot fit a scaler to an empty series")
	}
	features := len(matrix[0])
	scaler := featureScaler{
		means: make([]float64, features),
		scales: make([]float64, features),
	}
	column := make([]float64, len(matrix))
	for f := range features {
		for i, row := range matrix {
			column[i] = row[f]
		}
		mean, stdDev := stat.MeanStdDev(column, nil)
		if stdDev == 0.0 || len(matrix) < 2 {
			// Constant feature, leave it untouched so the round trip stays exact
			stdDev = 1.0
		}
		scaler.means[f] = mean
		scaler.scales[f] = stdDev
	}
	return &scaler
}

func (s *featureScaler) transform(matrix [][]float64) [][]float64 {
	output := make([][]float64, len(matrix))
	for i, row := range matrix {
		scaled := make([]float64, len(row))
		for f, value := range row {
			scaled[f] = (value - s.means[f]) / s.scales[f]
		}
		output[i] = scaled
	}
	return output
}

func (s *featureScaler) inverseTransform(matrix [][]float64) [][]float64 {
	output := make([][]float64, len(matrix))
	for i, row := range matrix {
		restored := make([]float64, len(row))
		for f, value := range row {
			restored[f] = value * s.scales[f] + s.means[f]
		}
		output[i] = restored
	}
	return output
}

func (s *featureScaler) inverseFeature(value float64, feature int) float64 {
	return value * s.scales[feature] + s.means[feature]
}
