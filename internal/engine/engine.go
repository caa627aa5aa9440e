// Package engine drives the full pipeline for a document: extraction,
// line classification, field parsing, continuation merging, reconciliation
// and report assembly.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/parser"
	"github.com/insightdelivered/statement-ledger/internal/reconcile"
	"github.com/insightdelivered/statement-ledger/internal/report"
)

type Engine struct {
	cfg        *config.Config
	classifier *parser.Classifier
	fields     *parser.FieldParser
	reconciler *reconcile.Reconciler
	log        zerolog.Logger

	// extract is swappable for tests.
	extract func(context.Context, string) (*models.Document, error)
}

func New(cfg *config.Config, log zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	dates, err := parser.NewDateParser(cfg.DateFormats, cfg.StatementYear)
	if err != nil {
		return nil, fmt.Errorf("engine dates: %w", err)
	}
	amounts := parser.NewAmountParser(cfg.Locale)
	classifier, err := parser.NewClassifier(*cfg, dates)
	if err != nil {
		return nil, fmt.Errorf("engine classifier: %w", err)
	}
	return &Engine{
		cfg:        cfg,
		classifier: classifier,
		fields:     parser.NewFieldParser(dates, amounts, cfg.Tolerance),
		reconciler: reconcile.New(cfg.Tolerance),
		log:        log,
		extract:    extractor.Extract,
	}, nil
}

// ProcessFile extracts a PDF and runs the pipeline over it. An extraction
// failure still produces a report, with failed status and a truncation
// warning, so batch runs always get one report per input.
func (e *Engine) ProcessFile(ctx context.Context, path string) *models.ParseReport {
	doc, err := e.extract(ctx, path)
	if err != nil {
		e.log.Error().Err(err).Str("path", path).Msg("extraction failed")
		var aerr *extractor.AdapterError
		msg := err.Error()
		if errors.As(err, &aerr) {
			msg = aerr.Err.Error()
		}
		warns := []models.Warning{models.NewWarning(models.WarnTruncatedDocument, msg)}
		return report.Build(extractor.DocumentID(path), false, nil, warns, report.Tally{})
	}
	return e.ProcessDocument(doc)
}

// ProcessDocument walks the document's lines strictly in order, building the
// transaction sequence and its warnings, then reconciles and reports.
func (e *Engine) ProcessDocument(doc *models.Document) *models.ParseReport {
	var (
		txns        []models.Transaction
		warns       []models.Warning
		tally       report.Tally
		cx          parser.Context
		prevBalance *decimal.Decimal
	)

	if len(doc.Pages) == 0 {
		warns = append(warns, models.NewWarning(models.WarnTruncatedDocument, "document contains no pages"))
	}

	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			tally.Line(line.PageIndex)

			label, classWarn := e.classifier.Classify(line, &cx)
			if classWarn != nil {
				warns = append(warns, *classWarn)
			}

			switch label {
			case parser.LabelTransactionStart:
				txn, parseWarns := e.fields.Parse(line, prevBalance)
				warns = append(warns, parseWarns...)
				if txn == nil {
					cx.Open = false
					tally.Discard()
					continue
				}
				txns = append(txns, *txn)
				cx.Open = true
				bal := txn.Balance.Decimal()
				prevBalance = &bal

			case parser.LabelContinuation:
				if len(txns) == 0 || !cx.Open {
					warns = append(warns, models.SpanWarning(models.WarnAmbiguousField,
						fmt.Sprintf("continuation with no open transaction: %q", line.Text),
						line.PageIndex, line.LineIndex))
					tally.Discard()
					continue
				}
				last := &txns[len(txns)-1]
				last.Concept = appendConcept(last.Concept, line.Text)
				if line.PageIndex == last.Page {
					last.LineEnd = line.LineIndex
				}

			case parser.LabelNoise:
				tally.Discard()
			}
		}
	}

	warns = append(warns, e.reconciler.Run(txns)...)

	rep := report.Build(doc.ID, len(doc.Pages) > 0, txns, warns, tally)
	doc.Status = rep.Status
	e.log.Info().
		Str("document", doc.ID).
		Str("status", string(rep.Status)).
		Int("transactions", rep.Summary.TransactionsParsed).
		Int("warnings", len(rep.Warnings)).
		Msg("document processed")
	return rep
}

// appendConcept folds a continuation line into the concept with single
// spacing.
func appendConcept(concept, text string) string {
	extra := strings.Join(strings.Fields(text), " ")
	if extra == "" {
		return concept
	}
	if concept == "" {
		return extra
	}
	return concept + " " + extra
}
