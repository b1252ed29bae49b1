package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// BuildCSV renders a header row plus data rows as CSV text. Every data row
// must have the same field count as the header; shorter rows are padded so
// the exported file stays rectangular.
func BuildCSV(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		} else if len(row) > len(header) {
			row = row[:len(header)]
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CSVExportFilename builds the download name for a report export,
// e.g. agent-wise-report-2025-09-01.csv
func CSVExportFilename(reportName string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", reportName, now.Format("2006-01-02"))
}
