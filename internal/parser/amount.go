package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/config"
)

// Monetary token patterns per decimal locale; the grouping mark is the
// opposite of the decimal mark.
var (
	amountPatternEN = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}|\d+\.\d{2}`)
	amountPatternEU = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{2}|\d+,\d{2}`)
)

var currencyStripper = strings.NewReplacer(
	"£", "", "$", "", "€", "",
	" ", "", " ", "",
)

// Absent reports whether a field value records no movement at all, as
// opposed to an explicit 0.00.
func Absent(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "-", "--", "–", "—", ".":
		return true
	}
	return false
}

// AmountParser converts monetary strings to decimals under the configured
// locale.
type AmountParser struct {
	locale  config.Locale
	pattern *regexp.Regexp
}

func NewAmountParser(locale config.Locale) *AmountParser {
	pattern := amountPatternEN
	if locale == config.LocaleEU {
		pattern = amountPatternEU
	}
	return &AmountParser{locale: locale, pattern: pattern}
}

// Parse converts a string like "1,234.56" or "€1.234,56" to a decimal,
// stripping currency symbols and grouping marks.
func (p *AmountParser) Parse(s string) (decimal.Decimal, error) {
	s = currencyStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	if p.locale == config.LocaleEU {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// AmountMatch is one monetary token found in a line, with byte offsets.
type AmountMatch struct {
	Value decimal.Decimal
	Start int
	End   int
}

// FindAll returns every monetary token in a line, left to right.
func (p *AmountParser) FindAll(line string) []AmountMatch {
	locs := p.pattern.FindAllStringIndex(line, -1)
	out := make([]AmountMatch, 0, len(locs))
	for _, loc := range locs {
		d, err := p.Parse(line[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		out = append(out, AmountMatch{Value: d, Start: loc[0], End: loc[1]})
	}
	return out
}
