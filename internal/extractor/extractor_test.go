package extractor

import (
	"strings"
	"testing"
)

func TestDocumentID(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"statement.pdf", "statement"},
		{"/data/in/march-2024.pdf", "march-2024"},
		{"noext", "noext"},
		{"dir.with.dots/file.name.pdf", "file.name"},
	}
	for _, tt := range tests {
		if got := DocumentID(tt.path); got != tt.want {
			t.Errorf("DocumentID(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDetectColumnHints(t *testing.T) {
	lines := []string{
		"ACME BANK PLC",
		"Statement period 01/03/2024 to 31/03/2024",
		"Date        Description                 Paid out    Paid in     Balance",
		"01/03/2024  OPENING BALANCE                                     1000.00",
	}
	hints := detectColumnHints(lines)
	if hints == nil {
		t.Fatal("no hints detected")
	}
	if len(hints) != 5 {
		t.Fatalf("got %d hints, want 5: %v", len(hints), hints)
	}

	wantOrder := []string{"date", "concept", "withdrawal", "deposit", "balance"}
	for i, label := range wantOrder {
		if hints[i].Label != label {
			t.Errorf("hint %d = %s, want %s", i, hints[i].Label, label)
		}
	}
	for i := 1; i < len(hints); i++ {
		if hints[i].Start <= hints[i-1].Start {
			t.Error("hints must be sorted by offset")
		}
	}
	if hints[0].Start != 0 {
		t.Errorf("date offset = %d, want 0", hints[0].Start)
	}
}

func TestDetectColumnHintsSpanish(t *testing.T) {
	lines := []string{
		"DETALLE DE OPERACIONES",
		"FECHA   CONCEPTO                    RETIROS     DEPOSITOS     SALDO",
	}
	hints := detectColumnHints(lines)
	if len(hints) != 5 {
		t.Fatalf("got %d hints, want 5: %v", len(hints), hints)
	}
	if hints[0].Label != "date" || hints[len(hints)-1].Label != "balance" {
		t.Errorf("unexpected hint order: %v", hints)
	}
}

func TestDetectColumnHintsRequiresFullHeader(t *testing.T) {
	// Too few columns named: not a usable header.
	lines := []string{
		"Date          Balance",
		"Your balance on 01/03/2024",
	}
	if hints := detectColumnHints(lines); hints != nil {
		t.Errorf("hints = %v, want nil", hints)
	}
}

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"statement text", []string{"Statement of account. Opening balance 1,000.00 on 01/03/2024. Total paid out 250.00"}, true},
		{"spanish statement", []string{"ESTADO DE CUENTA. DETALLE DE OPERACIONES. SALDO 12,847.30 RETIRO CAJERO FECHA 12 ENE"}, true},
		{"too short", []string{"balance"}, false},
		{"no known words", []string{strings.Repeat("lorem ipsum dolor sit amet consectetur ", 5)}, false},
		{"binary garbage", []string{strings.Repeat("\x01\x02\xfe\xff", 100)}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadableText(tt.pages); got != tt.want {
				t.Errorf("isReadableText = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildDocument(t *testing.T) {
	pages := []string{
		"Date        Description                 Paid out    Paid in     Balance\n01/03/2024  OPENING BALANCE  1000.00\n\n",
		"Page 2 text",
	}
	doc := buildDocument("/in/march.pdf", pages)

	if doc.ID != "march" {
		t.Errorf("id = %q", doc.ID)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d", len(doc.Pages))
	}
	if doc.Pages[0].Index != 1 || doc.Pages[1].Index != 2 {
		t.Error("page indices must be 1-based")
	}
	// Blank lines are dropped, surviving lines keep their original index.
	if len(doc.Pages[0].Lines) != 2 {
		t.Fatalf("page 1 lines = %d, want 2", len(doc.Pages[0].Lines))
	}
	first := doc.Pages[0].Lines[0]
	if first.PageIndex != 1 || first.LineIndex != 1 {
		t.Errorf("first line span = %d/%d", first.PageIndex, first.LineIndex)
	}
	if len(first.Hints) == 0 {
		t.Error("header page lines must carry column hints")
	}
	if len(doc.Pages[1].Lines[0].Hints) != 0 {
		t.Error("page without a header row must carry no hints")
	}
}
