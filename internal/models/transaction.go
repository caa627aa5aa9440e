package models

import "github.com/shopspring/decimal"

// Reconciliation marks the arithmetic check result for one transaction.
type Reconciliation string

const (
	ReconciliationOK        Reconciliation = "ok"
	ReconciliationMismatch  Reconciliation = "mismatch"
	ReconciliationUnchecked Reconciliation = "unchecked"
)

// Transaction is one parsed statement row. At most one of Withdrawal and
// Deposit is set; both absent is a valid zero-movement row. Absence and zero
// are distinct: a nil movement means the column was empty, not 0.00.
type Transaction struct {
	Date           string         `json:"date"` // ISO 8601
	Concept        string         `json:"concept"`
	Withdrawal     *Amount        `json:"withdrawal"`
	Deposit        *Amount        `json:"deposit"`
	Balance        Amount         `json:"balance"`
	Reconciliation Reconciliation `json:"reconciliation"`
	Page           int            `json:"page"`
	LineStart      int            `json:"line_start"`
	LineEnd        int            `json:"line_end"`

	// Strategy records which parsing strategy produced the row. Diagnostic
	// only, not part of the report contract.
	Strategy string `json:"-"`
}

// WithdrawalOrZero returns the withdrawal value, treating absence as zero for
// reconciliation arithmetic.
func (t *Transaction) WithdrawalOrZero() decimal.Decimal {
	if t.Withdrawal == nil {
		return decimal.Zero
	}
	return t.Withdrawal.Decimal()
}

// DepositOrZero returns the deposit value, treating absence as zero.
func (t *Transaction) DepositOrZero() decimal.Decimal {
	if t.Deposit == nil {
		return decimal.Zero
	}
	return t.Deposit.Decimal()
}
