package parser

import (
	"testing"
)

func newTestDateParser(t *testing.T) *DateParser {
	t.Helper()
	layouts := []string{
		"2/1/2006", "2/1/06",
		"2 Jan 2006", "2 Jan 06",
		"2-Jan-2006", "2-Jan-06",
		"2 Jan", "2/Jan",
	}
	p, err := NewDateParser(layouts, 2024)
	if err != nil {
		t.Fatalf("NewDateParser: %v", err)
	}
	return p
}

func TestDateParserParse(t *testing.T) {
	p := newTestDateParser(t)

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"slash full year", "15/03/2024", "2024-03-15"},
		{"slash short year", "5/3/24", "2024-03-05"},
		{"day month year", "15 Mar 2024", "2024-03-15"},
		{"day month short year", "15 Mar 24", "2024-03-15"},
		{"dashed", "15-Mar-2024", "2024-03-15"},
		{"spanish month yearless", "12 ENE", "2024-01-12"},
		{"spanish month slash", "3/DIC", "2024-12-03"},
		{"spanish abril", "28 ABR", "2024-04-28"},
		{"lowercase month", "15 mar 2024", "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.token)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.token, err)
			}
			if iso := ISO(got); iso != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.token, iso, tt.want)
			}
		})
	}
}

func TestDateParserRejects(t *testing.T) {
	p := newTestDateParser(t)

	tokens := []string{
		"31 FEB",     // impossible date
		"32/01/2024", // impossible day
		"not a date",
		"15.03.2024", // unsupported separator
		"",
	}
	for _, token := range tokens {
		if _, err := p.Parse(token); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", token)
		}
	}
}

func TestDateParserRequiresLayouts(t *testing.T) {
	if _, err := NewDateParser(nil, 0); err == nil {
		t.Error("expected error for empty layout list")
	}
}
