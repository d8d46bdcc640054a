// Package candidates loads raw candidate records from CSV, YAML or JSON files.
package candidates

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Record is a single raw candidate row keyed by column name. Empty CSV cells are nil.
type Record = map[string]any

// DetectFormat guesses the file format from its extension.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot detect format of %q: use csv, yaml or json", path)
	}
}

// LoadFile reads all records from path. An empty format is detected from the extension.
func LoadFile(path, format string) ([]Record, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := Load(file, format)
	if err != nil {
		return nil, fmt.Errorf("loading candidates from %s: %w", path, err)
	}
	return records, nil
}

// Load reads all records from r in the given format.
func Load(r io.Reader, format string) ([]Record, error) {
	switch format {
	case FormatCSV:
		return loadCSV(r)
	case FormatYAML:
		return loadYAML(r)
	case FormatJSON:
		return loadJSON(r)
	default:
		return nil, fmt.Errorf("unsupported candidates format: %s", format)
	}
}

func loadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records := make([]Record, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(records)+1, err)
		}

		record := make(Record, len(header))
		for i, column := range header {
			if i >= len(row) || row[i] == "" {
				record[column] = nil
				continue
			}
			record[column] = row[i]
		}
		records = append(records, record)
	}

	return records, nil
}

func loadYAML(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0)
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}

	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return records, nil
}

func loadJSON(r io.Reader) ([]Record, error) {
	records := make([]Record, 0)
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	return records, nil
}
