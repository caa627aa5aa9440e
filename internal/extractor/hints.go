package extractor

import (
	"sort"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// headerLabels maps the header words banks print to the canonical column
// labels. Longer phrases come before their prefixes so "paid out" is not
// claimed by a bare "paid".
var headerLabels = []struct {
	word  string
	label string
}{
	{"fecha", "date"},
	{"date", "date"},
	{"description", "concept"},
	{"descripcion", "concept"},
	{"concepto", "concept"},
	{"details", "concept"},
	{"paid out", "withdrawal"},
	{"money out", "withdrawal"},
	{"withdrawals", "withdrawal"},
	{"withdrawal", "withdrawal"},
	{"retiros", "withdrawal"},
	{"cargos", "withdrawal"},
	{"debit", "withdrawal"},
	{"paid in", "deposit"},
	{"money in", "deposit"},
	{"deposits", "deposit"},
	{"deposit", "deposit"},
	{"depositos", "deposit"},
	{"abonos", "deposit"},
	{"credit", "deposit"},
	{"balance", "balance"},
	{"saldo", "balance"},
}

// detectColumnHints scans a page's lines for a header row and returns the
// rune offsets of its column labels, sorted left to right. A row only
// qualifies when it names at least a date, a balance and four columns in
// total; anything weaker is left to the token strategy.
func detectColumnHints(lines []string) []models.ColumnHint {
	for _, line := range lines {
		hints := headerHints(line)
		if hints == nil {
			continue
		}
		labels := make(map[string]bool, len(hints))
		for _, h := range hints {
			labels[h.Label] = true
		}
		if len(hints) >= 4 && labels["date"] && labels["balance"] {
			sort.Slice(hints, func(a, b int) bool { return hints[a].Start < hints[b].Start })
			return hints
		}
	}
	return nil
}

// headerHints finds header words in a single line and returns one hint per
// canonical label, keyed to the rune offset where the word starts.
func headerHints(line string) []models.ColumnHint {
	lower := strings.ToLower(line)
	seen := make(map[string]bool)
	var hints []models.ColumnHint
	for _, hl := range headerLabels {
		if seen[hl.label] {
			continue
		}
		idx := strings.Index(lower, hl.word)
		if idx < 0 {
			continue
		}
		seen[hl.label] = true
		hints = append(hints, models.ColumnHint{
			Label: hl.label,
			Start: len([]rune(lower[:idx])),
		})
	}
	if len(hints) == 0 {
		return nil
	}
	return hints
}
