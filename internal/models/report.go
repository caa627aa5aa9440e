package models

// WarningKind categorizes non-fatal parsing issues.
type WarningKind string

const (
	WarnUnparsableLine    WarningKind = "unparsable-line"
	WarnBalanceMismatch   WarningKind = "balance-mismatch"
	WarnAmbiguousField    WarningKind = "ambiguous-field"
	WarnTruncatedDocument WarningKind = "truncated-document"
)

// Warning is a non-fatal issue surfaced to the operator. Page/Line are nil
// when the issue has no source span (e.g. an unreadable document).
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
	Page    *int        `json:"page"`
	Line    *int        `json:"line"`
}

// NewWarning builds a warning with no source span.
func NewWarning(kind WarningKind, msg string) Warning {
	return Warning{Kind: kind, Message: msg}
}

// SpanWarning builds a warning pointing at a page and line.
func SpanWarning(kind WarningKind, msg string, page, line int) Warning {
	return Warning{Kind: kind, Message: msg, Page: &page, Line: &line}
}

// Summary carries the per-document counters and movement totals.
type Summary struct {
	LinesSeen          int    `json:"lines_seen"`
	TransactionsParsed int    `json:"transactions_parsed"`
	LinesDiscarded     int    `json:"lines_discarded"`
	PageLineCounts     []int  `json:"page_line_counts,omitempty"`
	WithdrawalCount    int    `json:"withdrawal_count"`
	DepositCount       int    `json:"deposit_count"`
	WithdrawalTotal    Amount `json:"withdrawal_total"`
	DepositTotal       Amount `json:"deposit_total"`
}

// ParseReport is the durable structured output for one document.
type ParseReport struct {
	DocumentID   string        `json:"document_id"`
	Status       Status        `json:"status"`
	Transactions []Transaction `json:"transactions"`
	Warnings     []Warning     `json:"warnings"`
	Summary      Summary       `json:"summary"`
}
