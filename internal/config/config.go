// Package config holds the static batch configuration: accepted date formats,
// decimal locale, balance tolerance, and worker settings. Loaded once at
// startup and read-only afterwards; every worker shares the same instance.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Locale selects which mark is decimal and which is grouping.
type Locale string

const (
	LocaleEN Locale = "en" // 1,234.56
	LocaleEU Locale = "eu" // 1.234,56
)

// Config is the full configuration surface. Invalid configuration is fatal to
// the whole run, reported before any document is processed.
type Config struct {
	// DateFormats are Go time layouts tried in order. Layouts without a year
	// component ("2 Jan") resolve against StatementYear.
	DateFormats []string

	// StatementYear anchors year-less dates; 0 means the current year.
	StatementYear int

	Locale    Locale
	Tolerance decimal.Decimal

	// SectionStart/SectionEnd are optional substrings bounding the
	// transaction table (e.g. "DETALLE DE OPERACIONES"). When SectionStart is
	// empty the whole page is considered in-section.
	SectionStart []string
	SectionEnd   []string

	// NoisePatterns are extra regexes marking header/footer boilerplate.
	NoisePatterns []string

	Workers int
	LogDir  string
}

// Default returns the stock configuration: UK and Mexican statement date
// forms, period-decimal amounts, one-cent tolerance.
func Default() Config {
	return Config{
		DateFormats: []string{
			"2/1/2006", "2/1/06",
			"2 Jan 2006", "2 Jan 06",
			"2-Jan-2006", "2-Jan-06",
			"2 Jan", "2/Jan",
		},
		Locale:    LocaleEN,
		Tolerance: decimal.New(1, -2),
		Workers:   4,
	}
}

// Load builds the configuration from the environment, reading a .env file if
// one is present. The result is validated.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env is not an error

	cfg := Default()
	if v := os.Getenv("LEDGER_DATE_FORMATS"); v != "" {
		cfg.DateFormats = splitList(v)
	}
	if v := os.Getenv("LEDGER_LOCALE"); v != "" {
		cfg.Locale = Locale(v)
	}
	if v := os.Getenv("LEDGER_TOLERANCE"); v != "" {
		tol, err := decimal.NewFromString(v)
		if err != nil {
			return Config{}, fmt.Errorf("LEDGER_TOLERANCE: %w", err)
		}
		cfg.Tolerance = tol
	}
	if v := os.Getenv("LEDGER_STATEMENT_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("LEDGER_STATEMENT_YEAR: %w", err)
		}
		cfg.StatementYear = year
	}
	if v := os.Getenv("LEDGER_WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("LEDGER_WORKERS: %w", err)
		}
		cfg.Workers = workers
	}
	if v := os.Getenv("LEDGER_SECTION_START"); v != "" {
		cfg.SectionStart = splitList(v)
	}
	if v := os.Getenv("LEDGER_SECTION_END"); v != "" {
		cfg.SectionEnd = splitList(v)
	}
	if v := os.Getenv("LEDGER_NOISE_PATTERNS"); v != "" {
		cfg.NoisePatterns = splitList(v)
	}
	if v := os.Getenv("LEDGER_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configuration the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.DateFormats) == 0 {
		return fmt.Errorf("config: at least one date format is required")
	}
	for _, layout := range c.DateFormats {
		// The year reference "2006" must not satisfy the day check.
		dayProbe := strings.ReplaceAll(layout, "2006", "")
		if !strings.Contains(dayProbe, "2") {
			return fmt.Errorf("config: date format %q has no day component", layout)
		}
		if !strings.Contains(layout, "1") && !strings.Contains(layout, "Jan") {
			return fmt.Errorf("config: date format %q has no month component", layout)
		}
	}
	if c.Locale != LocaleEN && c.Locale != LocaleEU {
		return fmt.Errorf("config: unknown locale %q (want %q or %q)", c.Locale, LocaleEN, LocaleEU)
	}
	if c.Tolerance.IsNegative() {
		return fmt.Errorf("config: tolerance must not be negative")
	}
	if c.StatementYear != 0 && (c.StatementYear < 1900 || c.StatementYear > 2200) {
		return fmt.Errorf("config: statement year %d out of range", c.StatementYear)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1")
	}
	for _, pat := range c.NoisePatterns {
		if _, err := regexp.Compile(pat); err != nil {
			return fmt.Errorf("config: noise pattern %q: %w", pat, err)
		}
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
