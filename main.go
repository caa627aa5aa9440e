package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-ledger/internal/api"
	"github.com/insightdelivered/statement-ledger/internal/config"
	"github.com/insightdelivered/statement-ledger/internal/engine"
	"github.com/insightdelivered/statement-ledger/internal/logger"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/writer"
)

const version = "1.0.0"

func main() {
	localeFlag := flag.String("locale", "", "Number locale: en (1,234.56) or eu (1.234,56)")
	toleranceFlag := flag.String("tolerance", "", "Balance reconciliation tolerance (default 0.01)")
	yearFlag := flag.Int("year", 0, "Statement year for dates without one (defaults to current year)")
	formatsFlag := flag.String("formats", "", "Comma-separated date layouts in Go reference time notation")
	workersFlag := flag.Int("workers", 0, "Concurrent documents in a batch run")
	outputFlag := flag.String("out", "", "Output file path (single input only; defaults to input name with report suffix)")
	formatFlag := flag.String("format", "json", "Output format: json or csv")
	headerFlag := flag.Bool("header", true, "Include document metadata rows in CSV output")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	addrFlag := flag.String("addr", ":8080", "Listen address for -serve")
	logDirFlag := flag.String("log-dir", "", "Directory for per-run log files (console only if empty)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Ledger
by Insight Delivered (QEA AutoLens)

Parses bank statement PDFs into a structured transaction ledger with
balance reconciliation, as JSON reports or CSV tables.

Usage:
  statement-ledger [flags] <input.pdf> [input2.pdf ...]
  statement-ledger -serve [-addr :8080]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert one statement to a JSON report
  statement-ledger statement.pdf

  # CSV table with European number formatting
  statement-ledger -locale=eu -format=csv statement.pdf

  # Batch run with four workers and per-run log files
  statement-ledger -workers=4 -log-dir=logs jan.pdf feb.pdf mar.pdf

  # Run the HTTP API
  statement-ledger -serve -addr=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-ledger v%s\n", version)
		os.Exit(0)
	}
	if *helpFlag || (flag.NArg() == 0 && !*serveFlag) {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("config: %v\n", err)
	}
	if *localeFlag != "" {
		cfg.Locale = config.Locale(strings.ToLower(*localeFlag))
	}
	if *toleranceFlag != "" {
		tol, err := decimal.NewFromString(*toleranceFlag)
		if err != nil {
			fatalf("invalid -tolerance %q: %v\n", *toleranceFlag, err)
		}
		cfg.Tolerance = tol
	}
	if *yearFlag != 0 {
		cfg.StatementYear = *yearFlag
	}
	if *formatsFlag != "" {
		cfg.DateFormats = strings.Split(*formatsFlag, ",")
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if *logDirFlag != "" {
		cfg.LogDir = *logDirFlag
	}

	log := logger.New()
	if cfg.LogDir != "" {
		runLog, logPath, err := logger.NewRunLogger(cfg.LogDir)
		if err != nil {
			fatalf("log setup: %v\n", err)
		}
		log = runLog
		log.Info().Str("file", logPath).Msg("logging to file")
	}

	eng, err := engine.New(&cfg, log)
	if err != nil {
		fatalf("%v\n", err)
	}

	if *serveFlag {
		srv := api.New(eng, log)
		if err := srv.Listen(*addrFlag); err != nil {
			fatalf("server: %v\n", err)
		}
		return
	}

	if *formatFlag != "json" && *formatFlag != "csv" {
		fatalf("unknown -format %q, use json or csv\n", *formatFlag)
	}

	inputs := flag.Args()
	for _, path := range inputs {
		if strings.ToLower(filepath.Ext(path)) != ".pdf" {
			fatalf("expected .pdf file, got %q\n", path)
		}
	}
	if *outputFlag != "" && len(inputs) > 1 {
		fatalf("-out only applies to a single input file\n")
	}

	reports := eng.ProcessBatch(context.Background(), inputs)

	failed := false
	for i, rep := range reports {
		outPath := outputPathFor(inputs[i], *outputFlag, *formatFlag)
		if err := writeReport(outPath, *formatFlag, *headerFlag, rep); err != nil {
			fatalf("write %s: %v\n", outPath, err)
		}
		fmt.Printf("%s: %s, %d transaction(s), %d warning(s) -> %s\n",
			rep.DocumentID, rep.Status, rep.Summary.TransactionsParsed, len(rep.Warnings), outPath)
		if rep.Status == models.StatusFailed {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func outputPathFor(inputPath, explicit, format string) string {
	if explicit != "" {
		return explicit
	}
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if format == "csv" {
		return base + ".csv"
	}
	return base + ".report.json"
}

func writeReport(path, format string, includeHeader bool, rep *models.ParseReport) error {
	if format == "csv" {
		w := &writer.CSVWriter{IncludeHeader: includeHeader}
		return w.WriteToFile(path, rep)
	}
	w := &writer.JSONWriter{Indent: true}
	return w.WriteToFile(path, rep)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
