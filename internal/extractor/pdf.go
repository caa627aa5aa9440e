// Package extractor turns statement PDFs into documents of raw text lines,
// preserving page boundaries and horizontal layout where the source allows.
package extractor

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// AdapterError reports a source that could not be read at all, as opposed to
// one that read fine but parsed badly.
type AdapterError struct {
	Path string
	Err  error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// DocumentID derives the stable document identifier from a file path: the
// base name without its extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Extract reads a PDF file and returns its text as a document. It tries
// multiple extraction methods to handle different PDF encodings, preferring
// the coordinate-based one because it keeps column alignment intact. When
// every in-process method returns garbage it shells out to pdftotext
// (poppler-utils) as a last resort.
func Extract(ctx context.Context, path string) (*models.Document, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && isReadableText(pages) {
		return buildDocument(path, pages), nil
	}

	popplerPages, popplerErr := extractWithPdftotext(ctx, path)
	if popplerErr == nil && isReadableText(popplerPages) {
		return buildDocument(path, popplerPages), nil
	}

	// Never hand garbage text downstream.
	if libErr != nil {
		return nil, &AdapterError{Path: path, Err: fmt.Errorf("text extraction failed: %w; the PDF may use custom fonts or be image-based", libErr)}
	}
	return nil, &AdapterError{Path: path, Err: fmt.Errorf("no readable text could be extracted; the file may be scanned or use font encodings that cannot be decoded")}
}

// buildDocument splits page texts into lines and attaches the column hints
// detected from each page's header row.
func buildDocument(path string, pageTexts []string) *models.Document {
	doc := &models.Document{
		ID:     DocumentID(path),
		Status: models.StatusPending,
	}
	for i, text := range pageTexts {
		page := models.Page{Index: i + 1}
		rawLines := strings.Split(text, "\n")
		hints := detectColumnHints(rawLines)
		for j, line := range rawLines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			page.Lines = append(page.Lines, models.RawLine{
				Text:      line,
				PageIndex: i + 1,
				LineIndex: j + 1,
				Hints:     hints,
			})
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

// extractWithLibrary uses the ledongthuc/pdf library with multiple methods.
func extractWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	// Coordinate reconstruction first: it pads gaps into column separators,
	// which the header hint detector depends on.
	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByPagePlainText(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	plainText := extractByReaderPlainText(r)
	if isReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

// extractByContent reads the page's low-level text objects, groups them by Y
// coordinate into rows, sorts each row by X and pads horizontal gaps with
// spaces in proportion to their width so columns keep their offsets.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		// PDF Y grows bottom-to-top, so rows sort descending.
		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var sb strings.Builder
			var prevEnd float64
			for j, item := range items {
				if j > 0 {
					gap := item.x - prevEnd
					spaces := 1
					if gap > 4 {
						// Roughly one space per 4 points keeps wide gaps wide.
						spaces = int(gap / 4)
					}
					sb.WriteString(strings.Repeat(" ", spaces))
				}
				sb.WriteString(item.s)
				prevEnd = item.x + float64(len(item.s))*4
			}
			line := strings.TrimRight(sb.String(), " ")
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fontNames := page.Fonts()
		fonts := make(map[string]*pdf.Font)
		for _, name := range fontNames {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler-utils for PDFs the library
// cannot decode. Page boundaries are preserved by extracting one page at a
// time.
func extractWithPdftotext(ctx context.Context, path string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := 1
	if out, err := exec.CommandContext(ctx, "pdfinfo", path).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				if n, parseErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); parseErr == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", "-f", pageStr, "-l", pageStr, path, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimRight(string(out), "\n\f "); strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		out, err := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %w", err)
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			return []string{text}, nil
		}
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

// textQuality returns the ratio of plain readable characters to total.
// Strict ASCII plus statement punctuation; unicode.IsLetter is too broad and
// matches the accented garbage produced by identity-encoded fonts.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear in virtually every statement, English or Spanish. Text
// containing none of them is almost certainly garbage.
var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "paid",
	"opening", "closing", "transfer", "page", "period",
	"saldo", "cuenta", "fecha", "deposito", "retiro", "concepto",
	"movimientos", "banco", "cargo", "abono",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires enough text, a high readable-character ratio and
// at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
