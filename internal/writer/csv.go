package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// CSVWriter writes a report's transactions as CSV.
type CSVWriter struct {
	IncludeHeader bool
}

type csvRow struct {
	Date           string `csv:"Date"`
	Concept        string `csv:"Concept"`
	Withdrawal     string `csv:"Withdrawal"`
	Deposit        string `csv:"Deposit"`
	Balance        string `csv:"Balance"`
	Reconciliation string `csv:"Reconciliation"`
	Page           int    `csv:"Page"`
	LineStart      int    `csv:"LineStart"`
	LineEnd        int    `csv:"LineEnd"`
}

// WriteToFile writes the report's transactions to a CSV file at the given
// path.
func (w *CSVWriter) WriteToFile(path string, rep *models.ParseReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rep)
}

// Write renders the transactions in CSV, optionally preceded by comment rows
// identifying the document.
func (w *CSVWriter) Write(out io.Writer, rep *models.ParseReport) error {
	if w.IncludeHeader {
		if _, err := fmt.Fprintf(out, "# Document,%s\n# Status,%s\n", rep.DocumentID, rep.Status); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	rows := make([]csvRow, 0, len(rep.Transactions))
	for _, txn := range rep.Transactions {
		rows = append(rows, csvRow{
			Date:           txn.Date,
			Concept:        txn.Concept,
			Withdrawal:     amountOrEmpty(txn.Withdrawal),
			Deposit:        amountOrEmpty(txn.Deposit),
			Balance:        txn.Balance.String(),
			Reconciliation: string(txn.Reconciliation),
			Page:           txn.Page,
			LineStart:      txn.LineStart,
			LineEnd:        txn.LineEnd,
		})
	}

	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// amountOrEmpty renders absent movements as empty cells, never as zero.
func amountOrEmpty(a *models.Amount) string {
	if a == nil {
		return ""
	}
	return a.String()
}
