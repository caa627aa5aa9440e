package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/models"
)

// Label classifies one raw line.
type Label int

const (
	LabelTransactionStart Label = iota
	LabelContinuation
	LabelNoise
)

func (l Label) String() string {
	switch l {
	case LabelTransactionStart:
		return "transaction-start"
	case LabelContinuation:
		return "continuation"
	default:
		return "noise"
	}
}

// Context is the rolling classification state for one document. Each
// document's pipeline run owns its own instance.
type Context struct {
	// Open is true while the last parsed transaction is still accepting
	// continuation lines.
	Open bool
	// InSection tracks section markers; meaningless when none are configured.
	InSection bool
	Last      Label
}

// Date-at-line-start patterns. The month alternation covers English and
// Spanish abbreviations (ENE, ABR, AGO, DIC are the Spanish-only forms).
const monthAlt = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|Ene|Abr|Ago|Dic)`

var (
	dateSlashPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\b`)
	dateTextPattern  = regexp.MustCompile(`(?i)^(\d{1,2}[ /-]` + monthAlt + `[a-z]*(?:[ -]\d{2,4})?)\b`)
)

// DateToken returns the date-like token at the start of a line, or "".
func DateToken(text string) string {
	text = strings.TrimSpace(text)
	if m := dateSlashPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := dateTextPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// Built-in header/footer fingerprints: page numbers, the page-identifier and
// HORA/SUC footers some statements stamp on every page.
var builtinNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:page|página|pagina)\s+\d+`),
	regexp.MustCompile(`(?i)^\d+\s*(?:of|de)\s*\d+$`),
	regexp.MustCompile(`^\d+\.[A-Z0-9]+\.[A-Z0-9]+\.\d+\.\d+$`),
	regexp.MustCompile(`^HORA\s+\d{2}:\d{2}\s+SUC\s+\d{4}$`),
}

// Boilerplate phrases that end continuation capture: statement summaries,
// letterhead, regulatory footers.
var boilerplateKeywords = []string{
	"opening balance", "closing balance",
	"balance brought forward", "balance carried forward",
	"total paid in", "total paid out", "total payments", "total receipts",
	"statement period", "continued",
	"total de movimientos", "saldo minimo requerido",
	"registered in", "authorised by", "financial conduct",
}

// Classifier labels raw lines using the accepted date formats and the noise
// pattern set.
type Classifier struct {
	dates        *DateParser
	noise        []*regexp.Regexp
	sectionStart []string
	sectionEnd   []string
	useSections  bool
}

func NewClassifier(cfg config.Config, dates *DateParser) (*Classifier, error) {
	noise := append([]*regexp.Regexp{}, builtinNoisePatterns...)
	for _, pat := range cfg.NoisePatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("noise pattern %q: %w", pat, err)
		}
		noise = append(noise, re)
	}
	return &Classifier{
		dates:        dates,
		noise:        noise,
		sectionStart: cfg.SectionStart,
		sectionEnd:   cfg.SectionEnd,
		useSections:  len(cfg.SectionStart) > 0,
	}, nil
}

// Classify labels one line and updates the rolling context. A date-like token
// that fails calendar validation degrades to noise plus an ambiguous-field
// warning; classification never aborts.
func (c *Classifier) Classify(line models.RawLine, cx *Context) (Label, *models.Warning) {
	text := strings.TrimSpace(line.Text)

	if c.useSections {
		if !cx.InSection {
			if containsAnyFold(text, c.sectionStart) {
				cx.InSection = true
			}
			cx.Open = false
			cx.Last = LabelNoise
			return LabelNoise, nil
		}
		if containsAnyFold(text, c.sectionEnd) {
			cx.InSection = false
			cx.Open = false
			cx.Last = LabelNoise
			return LabelNoise, nil
		}
	}

	if token := DateToken(text); token != "" {
		if _, err := c.dates.Parse(token); err == nil {
			cx.Open = true
			cx.Last = LabelTransactionStart
			return LabelTransactionStart, nil
		}
		cx.Last = LabelNoise
		w := models.SpanWarning(models.WarnAmbiguousField,
			fmt.Sprintf("date-like token %q failed validation, line discarded", token),
			line.PageIndex, line.LineIndex)
		return LabelNoise, &w
	}

	if cx.Open && text != "" && !c.isBoilerplate(text) {
		cx.Last = LabelContinuation
		return LabelContinuation, nil
	}

	cx.Last = LabelNoise
	return LabelNoise, nil
}

func (c *Classifier) isBoilerplate(text string) bool {
	for _, re := range c.noise {
		if re.MatchString(text) {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range boilerplateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return isHeaderRow(lower)
}

// isHeaderRow recognizes the column header line of a transaction table.
func isHeaderRow(lower string) bool {
	hasDate := strings.Contains(lower, "date") || strings.Contains(lower, "fecha")
	hasBalance := strings.Contains(lower, "balance") || strings.Contains(lower, "saldo")
	return hasDate && hasBalance
}

func containsAnyFold(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if n != "" && strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
