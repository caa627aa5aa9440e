package parser

import (
	"fmt"
	"strings"
	"time"
)

// Spanish statement months mapped onto Go's English abbreviations, plus the
// English set so mixed-case input normalizes too. Tokens are uppercased
// before replacement.
var monthNormalizer = strings.NewReplacer(
	"ENE", "Jan", "FEB", "Feb", "MAR", "Mar", "ABR", "Apr", "MAY", "May",
	"JUN", "Jun", "JUL", "Jul", "AGO", "Aug", "SEP", "Sep", "OCT", "Oct",
	"NOV", "Nov", "DIC", "Dec",
	"JAN", "Jan", "APR", "Apr", "AUG", "Aug", "DEC", "Dec",
)

// DateParser validates date tokens against the accepted layouts and
// normalizes them to calendar dates.
type DateParser struct {
	layouts []string
	year    int
}

// NewDateParser builds a parser over the configured layouts. Layouts without
// a year component resolve against statementYear (0 means the current year).
func NewDateParser(layouts []string, statementYear int) (*DateParser, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no date formats configured")
	}
	year := statementYear
	if year == 0 {
		year = time.Now().Year()
	}
	return &DateParser{layouts: layouts, year: year}, nil
}

// Parse returns the calendar date for a token, trying each accepted layout in
// order. Impossible dates (31 Feb) fail every layout and error out, which is
// the classifier's secondary validation.
func (p *DateParser) Parse(token string) (time.Time, error) {
	normalized := monthNormalizer.Replace(strings.ToUpper(strings.TrimSpace(token)))
	for _, layout := range p.layouts {
		t, err := time.Parse(layout, normalized)
		if err != nil {
			continue
		}
		if !strings.Contains(layout, "06") {
			t = time.Date(p.year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("no accepted date format matches %q", token)
}

// ISO renders a date in the canonical ISO 8601 form.
func ISO(t time.Time) string {
	return t.Format("2006-01-02")
}
