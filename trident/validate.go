package trident

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ValidateData inspects a price CSV before an expensive training run: it
// prints the record count, date range and per-feature statistics, and
// renders a close price chart.
func ValidateData(csvFile string) {
	loadConfiguration()
	csvPath := filepath.Join(configuration.DataPath, csvFile)
	records := readPriceSeries(csvPath)
	first := records[0]
	last := records[len(records) - 1]
	fmt.Printf("File: %s\n", csvPath)
	fmt.Printf("Records: %d\n", len(records))
	fmt.Printf("Date range: %s to %s\n\n", getDateString(first.Date), getDateString(last.Date))
	matrix := priceMatrix(records)
	column := make([]float64, len(matrix))
	for feature, name := range featureNames {
		for i, row := range matrix {
			column[i] = row[feature]
		}
		mean, stdDev := stat.MeanStdDev(column, nil)
		fmt.Printf("%s: min = %.4f, max = %.4f, mean = %.4f, stdDev = %.4f\n", name, slices.Min(column), slices.Max(column), mean, stdDev)
	}
	fmt.Println("")
	loadPlotFont()
	baseName := strings.TrimSuffix(filepath.Base(csvFile), filepath.Ext(csvFile))
	path := filepath.Join(configuration.PlotPath, fmt.Sprintf("%s.close.png", baseName))
	plotCloseSeries(records, path)
	fmt.Printf("Wrote close price chart to %s\n", path)
}
