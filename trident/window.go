package trident

// windowSample is one supervised training example: timeSteps contiguous rows
// of input followed immediately by futureSteps contiguous target rows.
// targetIndex is the index of the first target row in the source series.
type windowSample struct {
	input [][]float64
	target [][]float64
	targetIndex int
}

// makeWindows slides a fixed window over the series with stride 1. The output
// preserves input order, which keeps a subsequent non-shuffled split free of
// look-ahead leakage. A series shorter than timeSteps + futureSteps yields an
// empty slice.
func makeWindows(series [][]float64, timeSteps, futureSteps int) []windowSample {
	samples := []windowSample{}
	if timeSteps < 1 || futureSteps < 1 {
		return samples
	}
	count := len(series) - timeSteps - futureSteps + 1
	for i := 0; i < count; i++ {
		sample := windowSample{
			input: series[i : i + timeSteps],
			target: series[i + timeSteps : i + timeSteps + futureSteps],
			targetIndex: i + timeSteps,
		}
		samples = append(samples, sample)
	}
	return samples
}

// splitWindows performs a chronological train/test split without shuffling.
func splitWindows(samples []windowSample, trainRatio float64) ([]windowSample, []windowSample) {
	splitIndex := int(trainRatio * float64(len(samples)))
	if splitIndex < 0 {
		splitIndex = 0
	}
	if splitIndex > len(samples) {
		splitIndex = len(samples)
	}
	return samples[:splitIndex], samples[splitIndex:]
}

// flattenTarget lays the target rows out step-major, matching the order of
// the dense output layer.
func flattenTarget(target [][]float64) []float64 {
	if len(target) == 0 {
		return nil
	}
	output := make([]float64, 0, len(target) * len(target[0]))
	for _, row := range target {
		output = append(output, row...)
	}
	return output
}
