// Package export writes bookshelf snapshots to interchange formats.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/household-twins/bookshelf/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// BookRow is one exported book, flattened for columnar formats.
type BookRow struct {
	Title       string `json:"title" yaml:"title" parquet:"title"`
	Author      string `json:"author" yaml:"author" parquet:"author"`
	CoverURL    string `json:"cover_url,omitempty" yaml:"cover_url,omitempty" parquet:"cover_url,optional"`
	Order       int32  `json:"order" yaml:"order" parquet:"order"`
	LastUpdated string `json:"last_updated,omitempty" yaml:"last_updated,omitempty" parquet:"last_updated,optional"`
}

// Rows flattens a bookshelf into export rows.
func Rows(shelf models.Bookshelf) []BookRow {
	var updated string
	if shelf.LastUpdated != nil {
		updated = shelf.LastUpdated.Format(time.RFC3339)
	}

	rows := make([]BookRow, 0, len(shelf.Books))
	for _, b := range shelf.Books {
		row := BookRow{
			Title:       b.Title,
			Author:      b.Author,
			Order:       int32(b.Order),
			LastUpdated: updated,
		}
		if b.CoverURL != nil {
			row.CoverURL = *b.CoverURL
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteFile exports the bookshelf to the given path. The format is inferred
// from the file extension: .parquet, .jsonl (or .json), .yaml (or .yml).
func WriteFile(path string, shelf models.Bookshelf) error {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".parquet":
		return writeParquet(path, Rows(shelf))
	case ".jsonl", ".json":
		return writeJSONL(path, Rows(shelf))
	case ".yaml", ".yml":
		return writeYAML(path, Rows(shelf))
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .parquet, .jsonl, .yaml)", ext)
	}
}

func writeParquet(path string, rows []BookRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[BookRow](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return file.Close()
}

func writeJSONL(path string, rows []BookRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			return fmt.Errorf("failed to write JSONL row: %w", err)
		}
	}

	return file.Close()
}

func writeYAML(path string, rows []BookRow) error {
	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
