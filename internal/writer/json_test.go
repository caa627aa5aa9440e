package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func sampleReport() *models.ParseReport {
	w := models.MustAmount("23.5")
	return &models.ParseReport{
		DocumentID: "march",
		Status:     models.StatusSucceeded,
		Transactions: []models.Transaction{
			{
				Date:           "2024-03-01",
				Concept:        "OPENING BALANCE",
				Balance:        models.MustAmount("1000"),
				Reconciliation: models.ReconciliationUnchecked,
				Page:           1, LineStart: 1, LineEnd: 1,
			},
			{
				Date:           "2024-03-02",
				Concept:        "CARD PAYMENT TESCO",
				Withdrawal:     &w,
				Balance:        models.MustAmount("976.50"),
				Reconciliation: models.ReconciliationOK,
				Page:           1, LineStart: 2, LineEnd: 2,
			},
		},
		Warnings: []models.Warning{},
		Summary: models.Summary{
			LinesSeen:          2,
			TransactionsParsed: 2,
			WithdrawalCount:    1,
			WithdrawalTotal:    models.MustAmount("23.5"),
			DepositTotal:       models.MustAmount("0"),
		},
	}
}

func TestJSONWriterNumbers(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	// Amounts render as plain numbers with exactly two fractional digits.
	for _, want := range []string{
		`"balance":1000.00`,
		`"withdrawal":23.50`,
		`"balance":976.50`,
		`"withdrawal_total":23.50`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\n%s", want, out)
		}
	}
	// Absent movements are null, never 0.00.
	if !strings.Contains(out, `"withdrawal":null`) || !strings.Contains(out, `"deposit":null`) {
		t.Errorf("absent movements must be null\n%s", out)
	}
	if !strings.Contains(out, `"date":"2024-03-01"`) {
		t.Error("dates must be ISO 8601 strings")
	}
}

func TestJSONWriterIndent(t *testing.T) {
	var buf bytes.Buffer
	w := &JSONWriter{Indent: true}
	if err := w.Write(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"document_id\"") {
		t.Error("indented output expected")
	}
}
