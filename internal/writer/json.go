// Package writer renders parse reports to their output formats.
package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// JSONWriter writes a full parse report as JSON. Identical inputs always
// produce identical bytes.
type JSONWriter struct {
	Indent bool
}

func (w *JSONWriter) WriteToFile(path string, rep *models.ParseReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, rep)
}

func (w *JSONWriter) Write(out io.Writer, rep *models.ParseReport) error {
	enc := json.NewEncoder(out)
	if w.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
