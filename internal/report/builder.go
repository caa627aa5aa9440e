// Package report assembles the final parse report from the extraction run.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Tally counts lines as the engine walks a document.
type Tally struct {
	LinesSeen      int
	LinesDiscarded int
	PerPage        []int
}

// Line records a line seen on a page, growing the per-page counters as
// needed. Page indices are 1-based.
func (t *Tally) Line(pageIndex int) {
	t.LinesSeen++
	if pageIndex < 1 {
		return
	}
	for len(t.PerPage) < pageIndex {
		t.PerPage = append(t.PerPage, 0)
	}
	t.PerPage[pageIndex-1]++
}

func (t *Tally) Discard() {
	t.LinesDiscarded++
}

// Build assembles the report. nonEmpty says whether the document produced
// any pages at all; a document with content but no transactions fails, as
// does one flagged truncated.
func Build(docID string, nonEmpty bool, txns []models.Transaction, warns []models.Warning, tally Tally) *models.ParseReport {
	if txns == nil {
		txns = []models.Transaction{}
	}
	if warns == nil {
		warns = []models.Warning{}
	}

	status := models.StatusSucceeded
	switch {
	case len(txns) == 0 && (nonEmpty || hasWarning(warns, models.WarnTruncatedDocument)):
		status = models.StatusFailed
	case len(warns) > 0:
		status = models.StatusSucceededWithWarnings
	}

	sum := models.Summary{
		LinesSeen:          tally.LinesSeen,
		TransactionsParsed: len(txns),
		LinesDiscarded:     tally.LinesDiscarded,
		PageLineCounts:     tally.PerPage,
		WithdrawalTotal:    models.NewAmount(decimal.Zero),
		DepositTotal:       models.NewAmount(decimal.Zero),
	}
	wTotal, dTotal := decimal.Zero, decimal.Zero
	for _, txn := range txns {
		if txn.Withdrawal != nil {
			sum.WithdrawalCount++
			wTotal = wTotal.Add(txn.Withdrawal.Decimal())
		}
		if txn.Deposit != nil {
			sum.DepositCount++
			dTotal = dTotal.Add(txn.Deposit.Decimal())
		}
	}
	sum.WithdrawalTotal = models.NewAmount(wTotal)
	sum.DepositTotal = models.NewAmount(dTotal)

	return &models.ParseReport{
		DocumentID:   docID,
		Status:       status,
		Transactions: txns,
		Warnings:     warns,
		Summary:      sum,
	}
}

func hasWarning(warns []models.Warning, kind models.WarningKind) bool {
	for _, w := range warns {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
