package gateway

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"aim/internal/domain"
)

// CSVRecordReader reads flattened records from a CSV file: the header row
// names the fields, each following row is one record.
type CSVRecordReader struct{}

// NewCSVRecordReader creates a new reader instance.
func NewCSVRecordReader() *CSVRecordReader {
	return &CSVRecordReader{}
}

// ReadRecords reads and parses every record in the file. Cell values are
// parsed into scalars: numbers and booleans are typed, everything else stays
// a trimmed string, and empty cells become nil.
func (r *CSVRecordReader) ReadRecords(ctx context.Context, path string) ([]domain.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}

	var records []domain.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", path, err)
		}

		rec := make(domain.Record, len(header))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			rec[header[i]] = parseScalar(cell)
		}
		records = append(records, rec)
	}
	return records, nil
}

// JSONRecordReader reads nested FAST UI documents from a JSON file holding
// either a single object or an array of objects, flattening each into a
// single-level record.
type JSONRecordReader struct{}

// NewJSONRecordReader creates a new reader instance.
func NewJSONRecordReader() *JSONRecordReader {
	return &JSONRecordReader{}
}

// ReadRecords reads and flattens every document in the file.
func (r *JSONRecordReader) ReadRecords(ctx context.Context, path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}

	var documents []map[string]any
	if err := json.Unmarshal(data, &documents); err != nil {
		var single map[string]any
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("input file %s is neither a JSON object nor an array of objects: %w", path, err)
		}
		documents = []map[string]any{single}
	}

	records := make([]domain.Record, 0, len(documents))
	for _, doc := range documents {
		records = append(records, domain.Flatten(doc))
	}
	return records, nil
}

// parseScalar converts a CSV cell into a typed scalar.
func parseScalar(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	// ParseFloat accepts "nan" and "inf" spellings; non-finite values have no
	// JSON form and would break fingerprinting, so they stay strings.
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return n
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
