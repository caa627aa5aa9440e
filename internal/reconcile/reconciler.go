// Package reconcile checks that each transaction's stated balance follows
// from the previous one and the movement on the row.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

type Reconciler struct {
	tolerance decimal.Decimal
}

func New(tolerance decimal.Decimal) *Reconciler {
	return &Reconciler{tolerance: tolerance}
}

// Run annotates every transaction in document order. The first transaction
// has no predecessor and stays unchecked. Stated balances are never altered;
// a mismatch is recorded and checking continues from the stated value.
func (r *Reconciler) Run(txns []models.Transaction) []models.Warning {
	var warns []models.Warning
	for i := range txns {
		if i == 0 {
			txns[i].Reconciliation = models.ReconciliationUnchecked
			continue
		}
		prev := txns[i-1].Balance.Decimal()
		expected := prev.Sub(txns[i].WithdrawalOrZero()).Add(txns[i].DepositOrZero())
		stated := txns[i].Balance.Decimal()

		if expected.Sub(stated).Abs().Cmp(r.tolerance) <= 0 {
			txns[i].Reconciliation = models.ReconciliationOK
			continue
		}
		txns[i].Reconciliation = models.ReconciliationMismatch
		warns = append(warns, models.SpanWarning(models.WarnBalanceMismatch,
			fmt.Sprintf("balance mismatch: expected %s, stated %s",
				expected.StringFixed(2), stated.StringFixed(2)),
			txns[i].Page, txns[i].LineStart))
	}
	return warns
}
