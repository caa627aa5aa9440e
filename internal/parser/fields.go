package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Strategy names recorded on parsed transactions.
const (
	StrategyColumn = "column"
	StrategyToken  = "token"
)

// Concept keywords that orient a movement when neither column hints nor
// balance progression can. Deposit phrases are checked first: "PAGO RECIBIDO"
// must not fall into the "PAGO" withdrawal bucket.
var depositKeywords = []string{
	"pago recibido", "abono", "deposito", "depósito", "intereses",
	"direct credit", "credit from", "bank credit", "refund",
	"interest paid", "transfer from", "faster payment received",
	"salary", "bacs",
}

var withdrawalKeywords = []string{
	"retiro", "cargo", "enviado", "traspaso a terceros",
	"traspaso entre cuentas", "pago",
	"card payment", "direct debit", "standing order", "withdrawal",
	"transfer out", "purchase", "fee", "charge", "atm",
}

// FieldParser extracts transactions from transaction-start lines, trying the
// column strategy first and falling back to token splitting.
type FieldParser struct {
	dates     *DateParser
	amounts   *AmountParser
	tolerance decimal.Decimal
}

func NewFieldParser(dates *DateParser, amounts *AmountParser, tolerance decimal.Decimal) *FieldParser {
	return &FieldParser{dates: dates, amounts: amounts, tolerance: tolerance}
}

// Parse extracts a transaction from a transaction-start line. prevBalance is
// the last parsed balance, used to orient the movement when the layout does
// not. A nil transaction means the line was discarded; the warnings say why.
func (p *FieldParser) Parse(line models.RawLine, prevBalance *decimal.Decimal) (*models.Transaction, []models.Warning) {
	if txn, warns, ok := p.parseColumns(line); ok {
		return txn, warns
	}
	return p.parseTokens(line, prevBalance)
}

// parseColumns slices the line along the column hints detected from the page
// header. It only claims the line when the date and balance slices hold
// valid values; anything less falls through to the token strategy.
func (p *FieldParser) parseColumns(line models.RawLine) (*models.Transaction, []models.Warning, bool) {
	if len(line.Hints) < 3 {
		return nil, nil, false
	}
	fields := sliceByHints(line.Text, line.Hints)

	date, err := p.dates.Parse(fields["date"])
	if err != nil {
		return nil, nil, false
	}
	balanceField := fields["balance"]
	if Absent(balanceField) {
		return nil, nil, false
	}
	balance, err := p.amounts.Parse(balanceField)
	if err != nil {
		return nil, nil, false
	}

	txn := &models.Transaction{
		Date:           ISO(date),
		Concept:        collapseSpaces(fields["concept"]),
		Balance:        models.NewAmount(balance),
		Reconciliation: models.ReconciliationUnchecked,
		Page:           line.PageIndex,
		LineStart:      line.LineIndex,
		LineEnd:        line.LineIndex,
		Strategy:       StrategyColumn,
	}

	var warns []models.Warning
	withdrawal, wErr := p.movementField(fields["withdrawal"])
	deposit, dErr := p.movementField(fields["deposit"])
	if wErr != nil || dErr != nil {
		return nil, nil, false
	}
	if withdrawal != nil && deposit != nil {
		// A row never carries both; trust the withdrawal column and flag it.
		warns = append(warns, models.SpanWarning(models.WarnAmbiguousField,
			fmt.Sprintf("both withdrawal and deposit columns populated, keeping withdrawal %s", withdrawal.String()),
			line.PageIndex, line.LineIndex))
		deposit = nil
	}
	txn.Withdrawal = withdrawal
	txn.Deposit = deposit
	return txn, warns, true
}

// movementField parses an optional movement column. Empty or dash is absent,
// not zero.
func (p *FieldParser) movementField(s string) (*models.Amount, error) {
	if Absent(s) {
		return nil, nil
	}
	d, err := p.amounts.Parse(s)
	if err != nil {
		return nil, err
	}
	a := models.NewAmount(d)
	return &a, nil
}

// parseTokens splits by whitespace runs: the date token at the start, the
// last one or two monetary tokens from the right as balance and movement,
// everything in between as the concept.
func (p *FieldParser) parseTokens(line models.RawLine, prevBalance *decimal.Decimal) (*models.Transaction, []models.Warning) {
	text := strings.TrimSpace(line.Text)

	token := DateToken(text)
	if token == "" {
		return nil, []models.Warning{p.unparsable(line, "no date token")}
	}
	date, err := p.dates.Parse(token)
	if err != nil {
		return nil, []models.Warning{p.unparsable(line, err.Error())}
	}
	rest := strings.TrimSpace(text[strings.Index(text, token)+len(token):])

	matches := p.amounts.FindAll(rest)
	if len(matches) == 0 {
		return nil, []models.Warning{p.unparsable(line, "no balance amount")}
	}

	balanceMatch := matches[len(matches)-1]
	var movement *AmountMatch
	if len(matches) >= 2 {
		cand := matches[len(matches)-2]
		// Only a token directly adjacent to the balance is the movement;
		// amounts buried in the concept (references, rates) stay there.
		if strings.TrimSpace(rest[cand.End:balanceMatch.Start]) == "" {
			movement = &cand
		}
	}

	conceptEnd := balanceMatch.Start
	if movement != nil {
		conceptEnd = movement.Start
	}
	concept := collapseSpaces(rest[:conceptEnd])

	txn := &models.Transaction{
		Date:           ISO(date),
		Concept:        concept,
		Balance:        models.NewAmount(balanceMatch.Value),
		Reconciliation: models.ReconciliationUnchecked,
		Page:           line.PageIndex,
		LineStart:      line.LineIndex,
		LineEnd:        line.LineIndex,
		Strategy:       StrategyToken,
	}

	var warns []models.Warning
	if movement != nil {
		amount := models.NewAmount(movement.Value)
		direction, ambiguous := p.orientMovement(movement.Value, balanceMatch.Value, prevBalance, concept)
		if direction == directionDeposit {
			txn.Deposit = &amount
		} else {
			txn.Withdrawal = &amount
		}
		if ambiguous {
			warns = append(warns, models.SpanWarning(models.WarnAmbiguousField,
				fmt.Sprintf("movement %s direction undetermined, recorded as withdrawal", amount.String()),
				line.PageIndex, line.LineIndex))
		}
	}
	return txn, warns
}

type movementDirection int

const (
	directionWithdrawal movementDirection = iota
	directionDeposit
)

// orientMovement decides withdrawal vs deposit: balance progression when a
// prior balance exists, concept keywords otherwise, withdrawal as the
// flagged last resort.
func (p *FieldParser) orientMovement(amount, balance decimal.Decimal, prevBalance *decimal.Decimal, concept string) (movementDirection, bool) {
	if prevBalance != nil {
		wDiff := prevBalance.Sub(amount).Sub(balance).Abs()
		dDiff := prevBalance.Add(amount).Sub(balance).Abs()
		wFits := wDiff.Cmp(p.tolerance) <= 0
		dFits := dDiff.Cmp(p.tolerance) <= 0
		switch {
		case wFits && !dFits:
			return directionWithdrawal, false
		case dFits && !wFits:
			return directionDeposit, false
		case wFits && dFits:
			// Both fit (zero movement); the closer one wins.
			if wDiff.Cmp(dDiff) <= 0 {
				return directionWithdrawal, false
			}
			return directionDeposit, false
		}
	}

	lower := strings.ToLower(concept)
	for _, kw := range depositKeywords {
		if strings.Contains(lower, kw) {
			return directionDeposit, false
		}
	}
	for _, kw := range withdrawalKeywords {
		if strings.Contains(lower, kw) {
			return directionWithdrawal, false
		}
	}
	return directionWithdrawal, true
}

func (p *FieldParser) unparsable(line models.RawLine, reason string) models.Warning {
	return models.SpanWarning(models.WarnUnparsableLine,
		fmt.Sprintf("%s: %q", reason, strings.TrimSpace(line.Text)),
		line.PageIndex, line.LineIndex)
}

// sliceByHints cuts a line at the column boundaries. Each boundary is pulled
// one rune left so right-aligned numbers that begin just before their label
// still land in their own column.
func sliceByHints(text string, hints []models.ColumnHint) map[string]string {
	runes := []rune(text)
	out := make(map[string]string, len(hints))
	for i, h := range hints {
		start := 0
		if i > 0 {
			start = h.Start
			if start > 0 {
				start--
			}
		}
		end := len(runes)
		if i+1 < len(hints) {
			end = hints[i+1].Start
			if end > 0 {
				end--
			}
		}
		if start > len(runes) {
			start = len(runes)
		}
		if end > len(runes) {
			end = len(runes)
		}
		if end < start {
			end = start
		}
		out[h.Label] = strings.TrimSpace(string(runes[start:end]))
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
