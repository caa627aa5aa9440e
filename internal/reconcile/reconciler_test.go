package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

func amt(s string) *models.Amount {
	a := models.MustAmount(s)
	return &a
}

func txn(withdrawal, deposit, balance string) models.Transaction {
	t := models.Transaction{
		Balance:        models.MustAmount(balance),
		Reconciliation: models.ReconciliationUnchecked,
		Page:           1,
	}
	if withdrawal != "" {
		t.Withdrawal = amt(withdrawal)
	}
	if deposit != "" {
		t.Deposit = amt(deposit)
	}
	return t
}

func TestRunCleanChain(t *testing.T) {
	r := New(decimal.New(1, -2))

	txns := []models.Transaction{
		txn("", "", "100.00"),
		txn("30.00", "", "70.00"),
		txn("", "50.00", "120.00"),
	}
	warns := r.Run(txns)
	if len(warns) != 0 {
		t.Fatalf("warnings = %v, want none", warns)
	}

	want := []models.Reconciliation{
		models.ReconciliationUnchecked,
		models.ReconciliationOK,
		models.ReconciliationOK,
	}
	for i, w := range want {
		if txns[i].Reconciliation != w {
			t.Errorf("txn %d = %s, want %s", i, txns[i].Reconciliation, w)
		}
	}
}

func TestRunMismatch(t *testing.T) {
	r := New(decimal.New(1, -2))

	txns := []models.Transaction{
		txn("", "", "100.00"),
		txn("20.00", "", "70.00"), // expected 80.00
		txn("10.00", "", "60.00"), // checked against the stated 70.00
	}
	txns[1].LineStart = 5
	warns := r.Run(txns)

	if txns[1].Reconciliation != models.ReconciliationMismatch {
		t.Errorf("txn 1 = %s, want mismatch", txns[1].Reconciliation)
	}
	// Checking resumes from the stated balance, so the chain recovers.
	if txns[2].Reconciliation != models.ReconciliationOK {
		t.Errorf("txn 2 = %s, want ok", txns[2].Reconciliation)
	}

	if len(warns) != 1 {
		t.Fatalf("warnings = %v, want one", warns)
	}
	w := warns[0]
	if w.Kind != models.WarnBalanceMismatch {
		t.Errorf("kind = %s", w.Kind)
	}
	wantMsg := "balance mismatch: expected 80.00, stated 70.00"
	if w.Message != wantMsg {
		t.Errorf("message = %q, want %q", w.Message, wantMsg)
	}
	if w.Page == nil || *w.Page != 1 || w.Line == nil || *w.Line != 5 {
		t.Error("warning must carry the mismatching row's span")
	}
}

func TestRunToleranceBoundary(t *testing.T) {
	r := New(decimal.New(1, -2))

	tests := []struct {
		name    string
		balance string
		want    models.Reconciliation
	}{
		{"exact", "70.00", models.ReconciliationOK},
		{"off by tolerance", "70.01", models.ReconciliationOK},
		{"off by more", "70.02", models.ReconciliationMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []models.Transaction{
				txn("", "", "100.00"),
				txn("30.00", "", tt.balance),
			}
			r.Run(txns)
			if txns[1].Reconciliation != tt.want {
				t.Errorf("got %s, want %s", txns[1].Reconciliation, tt.want)
			}
		})
	}
}

func TestRunNeverAltersBalances(t *testing.T) {
	r := New(decimal.New(1, -2))

	txns := []models.Transaction{
		txn("", "", "100.00"),
		txn("20.00", "", "70.00"),
	}
	r.Run(txns)
	if txns[1].Balance.String() != "70.00" {
		t.Errorf("stated balance changed to %s", txns[1].Balance.String())
	}
}

func TestRunEmptyAndSingle(t *testing.T) {
	r := New(decimal.New(1, -2))

	if warns := r.Run(nil); len(warns) != 0 {
		t.Errorf("empty run produced warnings: %v", warns)
	}

	txns := []models.Transaction{txn("10.00", "", "90.00")}
	r.Run(txns)
	if txns[0].Reconciliation != models.ReconciliationUnchecked {
		t.Errorf("single txn = %s, want unchecked", txns[0].Reconciliation)
	}
}
