package trident

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

func getDate(dateString string) (time.Time, error) {
	date, err := time.Parse(dateLayout, dateString)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date string \"%s\": %v", dateString, err)
	}
	return date, nil
}

func getDateString(date time.Time) string {
	return date.Format(dateLayout)
}

func parallelForEach[T any](elements []T, callback func(T)) {
	workers := runtime.NumCPU()
	elementChan := make(chan T, len(elements))
	for _, x := range elements {
		elementChan <- x
	}
	close(elementChan)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for element := range elementChan {
				callback(element)
			}
		}()
	}
	wg.Wait()
}

func readFile(path string) []byte {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read file (%s): %v", path, err)
	}
	return content
}

func readCsv(path string, columns []string, callback func([]string)) {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to read CSV file (%s): %v", path, err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		log.Fatal("Failed to read CSV headers", err)
	}
	headerMap := map[string]int{}
	for index, header := range headers {
		headerMap[header] = index
	}
	var indexMap []int
	for _, column := range columns {
		index, ok := headerMap[column]
		if !ok {
			log.Fatalf("Missing column \"%s\" in CSV file (%s)", column, path)
		}
		indexMap = append(indexMap, index)
	}
	callbackColumns := make([]string, len(columns))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			log.Fatalf("Error occurred while reading CSV file (%s): %v", path, err)
		}
		for destination, source := range indexMap {
			callbackColumns[destination] = record[source]
		}
		callback(callbackColumns)
	}
}
