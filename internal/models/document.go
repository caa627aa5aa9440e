package models

// Status describes where a document sits in its processing lifecycle.
type Status string

const (
	StatusPending               Status = "pending"
	StatusSucceeded             Status = "succeeded"
	StatusSucceededWithWarnings Status = "succeeded-with-warnings"
	StatusFailed                Status = "failed"
)

// ColumnHint marks the start offset (in runes) of a detected field boundary,
// as supplied by the text source adapter. Labels are canonical: date,
// concept, withdrawal, deposit, balance.
type ColumnHint struct {
	Label string
	Start int
}

// RawLine is one line of extracted page text. Immutable once produced by the
// adapter.
type RawLine struct {
	Text      string
	PageIndex int // 1-based
	LineIndex int // 1-based, within the page
	Hints     []ColumnHint
}

// Page is an ordered sequence of raw lines.
type Page struct {
	Index int // 1-based
	Lines []RawLine
}

// Document is one input statement as delivered by the adapter.
type Document struct {
	ID     string
	Pages  []Page
	Status Status
}
