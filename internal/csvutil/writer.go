package csvutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// WriteRecords writes a header row followed by one row per record to filename,
// creating parent directories as needed. The file is always overwritten; an
// export reflects the run that produced it.
func WriteRecords(filename string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
