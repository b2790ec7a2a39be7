package trident

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

type DateTicks struct{}

type comparisonChart struct {
	feature int
	step int
}

type chartLine struct {
	name string
	data plotter.XYs
	color color.RGBA
}

var actualColor = color.RGBA{A: 255}

var modelColors = map[Architecture]color.RGBA{
	SimpleRNN: {R: 255, A: 255},
	LSTM: {G: 160, A: 255},
	GRU: {B: 255, A: 255},
}

// renderComparisonCharts writes one chart per feature per forecast step,
// each showing the actual price as a black line and one colored line per
// model, all on the original price scale.
func renderComparisonCharts(
	records []PriceRecord,
	testSamples []windowSample,
	runs []modelRun,
	scaler *featureScaler,
	experiment *ExperimentConfiguration,
) {
	charts := []comparisonChart{}
	for feature := range featureCount {
		for step := range experiment.FutureSteps {
			charts = append(charts, comparisonChart{
				feature: feature,
				step: step,
			})
		}
	}
	loadPlotFont()
	start := time.Now()
	parallelForEach(charts, func (chart comparisonChart) {
		renderComparisonChart(chart, records, testSamples, runs, scaler)
	})
	delta := time.Since(start)
	fmt.Printf("Rendered %d charts to %s in %.2f s\n", len(charts), configuration.PlotPath, delta.Seconds())
}

func renderComparisonChart(
	chart comparisonChart,
	records []PriceRecord,
	testSamples []windowSample,
	runs []modelRun,
	scaler *featureScaler,
) {
	actual := make(plotter.XYs, len(testSamples))
	for i, sample := range testSamples {
		record := records[sample.targetIndex + chart.step]
		actual[i].X = timeToFloat(record.Date)
		actual[i].Y = priceFeature(record, chart.feature)
	}
	lines := []chartLine{}
	for _, run := range runs {
		data := make(plotter.XYs, len(testSamples))
		for i, sample := range testSamples {
			record := records[sample.targetIndex + chart.step]
			predicted := run.predictions[i][chart.step * featureCount + chart.feature]
			data[i].X = timeToFloat(record.Date)
			data[i].Y = scaler.inverseFeature(predicted, chart.feature)
		}
		lines = append(lines, chartLine{
			name: string(run.architecture),
			data: data,
			color: modelColors[run.architecture],
		})
	}
	name := strings.ToLower(featureNames[chart.feature])
	fileName := fmt.Sprintf("%s_step%d.png", name, chart.step + 1)
	path := filepath.Join(configuration.PlotPath, fileName)
	title := fmt.Sprintf("%s, %d day(s) ahead", featureNames[chart.feature], chart.step + 1)
	plotComparison(title, featureNames[chart.feature], actual, lines, path)
}

func plotComparison(title, yLabel string, actual plotter.XYs, lines []chartLine, path string) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Padding = -1
	p.Y.Padding = -1
	grid := plotter.NewGrid()
	dashes := []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Dashes = dashes
	grid.Vertical.Dashes = dashes
	p.Add(grid)
	p.X.Tick.Marker = DateTicks{}
	actualLine, err := plotter.NewLine(actual)
	if err != nil {
		log.Fatal("Failed to create line plot:", err)
	}
	actualLine.LineStyle.Color = actualColor
	p.Add(actualLine)
	p.Legend.Add("Actual", actualLine)
	for _, line := range lines {
		modelLine, err := plotter.NewLine(line.data)
		if err != nil {
			log.Fatal("Failed to create line plot:", err)
		}
		modelLine.LineStyle.Color = line.color
		p.Add(modelLine)
		p.Legend.Add(line.name, modelLine)
	}
	p.Legend.Top = true
	err = p.Save(12 * vg.Inch, 8 * vg.Inch, path)
	if err != nil {
		log.Fatalf("Failed to save plot (%s): %v", path, err)
	}
}

func plotCloseSeries(records []PriceRecord, path string) {
	plotterData := make(plotter.XYs, len(records))
	for i, record := range records {
		plotterData[i].X = timeToFloat(record.Date)
		plotterData[i].Y = record.Close
	}
	plotComparison("Close", "Close", plotterData, nil, path)
}

func loadPlotFont() {
	if configuration.FontPath == "" {
		return
	}
	ttfData := readFile(configuration.FontPath)
	openTypeFont, err := opentype.Parse(ttfData)
	if err != nil {
		log.Fatal("OpenType failed to parse TTF file:", err)
	}
	defaultFont := font.Font{
		Typeface: font.Typeface(configuration.FontName),
	}
	fontFace := []font.Face{
		{
			Font: defaultFont,
			Face: openTypeFont,
		},
	}
	font.DefaultCache.Add(fontFace)
	plot.DefaultFont = defaultFont
}

func priceFeature(record PriceRecord, feature int) float64 {
	switch feature {
	case 0:
		return record.Open
	case 1:
		return record.High
	case 2:
		return record.Low
	default:
		return record.Close
	}
}

func (DateTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			tickTime := time.Unix(int64(ticks[i].Value), 0).UTC()
			ticks[i].Label = tickTime.Format(dateLayout)
		}
	}
	return ticks
}

func timeToFloat(t time.Time) float64 {
	return float64(t.Unix())
}
