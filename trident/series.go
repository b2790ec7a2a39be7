package trident

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
)

const featureCount = 4

var featureNames = []string{"Open", "High", "Low", "Close"}

type PriceRecord struct {
	Date time.Time
	Open float64
	High float64
	Low float64
	Close float64
}

func readPriceSeries(path string) []PriceRecord {
	columns := []string{"Date", "Open", "High", "Low", "Close"}
	records := []PriceRecord{}
	callback := func(values []string) {
		date, err := getDate(values[0])
		if err != nil {
			log.Fatal(err)
		}
		record := PriceRecord{
			Date: date,
			Open: getPrice(values[1], path),
			High: getPrice(values[2], path),
			Low: getPrice(values[3], path),
			Close: getPrice(values[4], path),
		}
		if len(records) > 0 {
			previous := records[len(records) - 1]
			if !previous.Date.Before(date) {
				log.Fatalf("Price records are not in chronological order in CSV file (%s): %s is followed by %s", path, getDateString(previous.Date), getDateString(date))
			}
		}
		records = append(records, record)
	}
	readCsv(path, columns, callback)
	if len(records) == 0 {
		log.Fatalf("CSV file contains no price records (%s)", path)
	}
	return records
}

func getPrice(s string, path string) float64 {
	value, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatalf("Failed to parse price string \"%s\" in CSV file (%s): %v", s, path, err)
	}
	price, _ := value.Float64()
	return price
}

func priceMatrix(records []PriceRecord) [][]float64 {
	matrix := make([][]float64, len(records))
	for i, record := range records {
		matrix[i] = []float64{
			record.Open,
			record.High,
			record.Low,
			record.Close,
		}
	}
	return matrix
}
