package parser

import (
	"testing"

	"github.com/insightdelivered/statement-ledger/internal/config"
)

func TestAmountParserParse(t *testing.T) {
	tests := []struct {
		name   string
		locale config.Locale
		in     string
		want   string
		ok     bool
	}{
		{"plain", config.LocaleEN, "123.45", "123.45", true},
		{"grouped", config.LocaleEN, "1,234.56", "1234.56", true},
		{"millions", config.LocaleEN, "12,345,678.90", "12345678.90", true},
		{"pound sign", config.LocaleEN, "£1,234.56", "1234.56", true},
		{"dollar sign", config.LocaleEN, "$99.00", "99.00", true},
		{"eu decimal comma", config.LocaleEU, "1.234,56", "1234.56", true},
		{"eu plain", config.LocaleEU, "123,45", "123.45", true},
		{"eu euro sign", config.LocaleEU, "€2.500,00", "2500.00", true},
		{"empty", config.LocaleEN, "", "", false},
		{"words", config.LocaleEN, "abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewAmountParser(tt.locale)
			got, err := p.Parse(tt.in)
			if tt.ok != (err == nil) {
				t.Fatalf("Parse(%q) err = %v, want ok=%v", tt.in, err, tt.ok)
			}
			if tt.ok && got.StringFixed(2) != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got.StringFixed(2), tt.want)
			}
		})
	}
}

func TestAbsent(t *testing.T) {
	for _, s := range []string{"", "  ", "-", "--", "–", "."} {
		if !Absent(s) {
			t.Errorf("Absent(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0.00", "1.00", "x"} {
		if Absent(s) {
			t.Errorf("Absent(%q) = true, want false", s)
		}
	}
}

func TestFindAll(t *testing.T) {
	p := NewAmountParser(config.LocaleEN)

	line := "PAGO RECIBIDO REF 1234 1,500.00 12,847.30"
	matches := p.FindAll(line)
	if len(matches) != 2 {
		t.Fatalf("FindAll returned %d matches, want 2", len(matches))
	}
	if matches[0].Value.StringFixed(2) != "1500.00" {
		t.Errorf("first match = %s, want 1500.00", matches[0].Value.StringFixed(2))
	}
	if matches[1].Value.StringFixed(2) != "12847.30" {
		t.Errorf("second match = %s, want 12847.30", matches[1].Value.StringFixed(2))
	}
	if matches[0].End >= matches[1].Start {
		t.Error("matches out of order")
	}
}

func TestFindAllIgnoresBareIntegers(t *testing.T) {
	p := NewAmountParser(config.LocaleEN)
	if matches := p.FindAll("REF 123456 CHEQUE 789"); len(matches) != 0 {
		t.Errorf("FindAll matched %d bare integers, want 0", len(matches))
	}
}
