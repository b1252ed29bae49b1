package utils

import (
	"strings"
	"testing"
	"time"
)

func TestBuildCSV(t *testing.T) {
	header := []string{"Name", "Amount", "Status"}
	rows := [][]string{
		{"Tuition", "15000.00", "partial"},
		{"Hostel", "5000.00", "pending"},
	}

	out, err := BuildCSV(header, rows)
	if err != nil {
		t.Fatalf("BuildCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Name,Amount,Status" {
		t.Errorf("header line = %q", lines[0])
	}
	for i, line := range lines {
		if got := len(strings.Split(line, ",")); got != 3 {
			t.Errorf("line %d has %d fields, want 3", i, got)
		}
	}
}

func TestBuildCSVPadsShortRows(t *testing.T) {
	header := []string{"A", "B", "C"}
	rows := [][]string{
		{"only-one"},
		{"one", "two", "three", "four"}, // extra field is dropped
	}

	out, err := BuildCSV(header, rows)
	if err != nil {
		t.Fatalf("BuildCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	for i, line := range lines {
		if got := len(strings.Split(line, ",")); got != 3 {
			t.Errorf("line %d has %d fields, want 3", i, got)
		}
	}
	if lines[1] != "only-one,," {
		t.Errorf("padded row = %q", lines[1])
	}
	if lines[2] != "one,two,three" {
		t.Errorf("truncated row = %q", lines[2])
	}
}

func TestBuildCSVEmptyRows(t *testing.T) {
	out, err := BuildCSV([]string{"X", "Y"}, nil)
	if err != nil {
		t.Fatalf("BuildCSV returned error: %v", err)
	}
	if strings.TrimRight(out, "\n") != "X,Y" {
		t.Errorf("empty export = %q", out)
	}
}

func TestCSVExportFilename(t *testing.T) {
	now := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)
	got := CSVExportFilename("agent-wise-report", now)
	if got != "agent-wise-report-2025-09-01.csv" {
		t.Errorf("CSVExportFilename = %q", got)
	}
}
