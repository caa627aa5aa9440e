package writer

import (
	"bytes"
	"strings"
	"testing"
)

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if lines[0] != "# Document,march" {
		t.Errorf("metadata row = %q", lines[0])
	}
	if lines[1] != "# Status,succeeded" {
		t.Errorf("status row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Date,Concept,Withdrawal,Deposit,Balance") {
		t.Errorf("header row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "2024-03-01,OPENING BALANCE,,,1000.00,unchecked") {
		t.Errorf("row 1 = %q", lines[3])
	}
	if !strings.Contains(lines[4], "2024-03-02,CARD PAYMENT TESCO,23.50,,976.50,ok") {
		t.Errorf("row 2 = %q", lines[4])
	}
}

func TestCSVWriterNoMetadata(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(buf.String(), "#") {
		t.Error("metadata rows written without IncludeHeader")
	}
}
