// Command scrub reads a CSV file, normalizes the "good" rows, and prints
// them to standard output. Rows with the wrong number of columns are
// counted, discarded, and optionally saved to a separate file.
//
// Exit code:
//
//	0 on success
//	1 on error
//	2 if more than 10% of rows were bad
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"scrub/internal/cleaner"
	"scrub/internal/config"
	"scrub/internal/datasource"
	"scrub/internal/datasource/file"
	"scrub/internal/datasource/httpds"
	"scrub/internal/metrics"
	"scrub/internal/metrics/prompush"
	pcsv "scrub/internal/parser/csv"
	"scrub/internal/pipeline"
)

// stringList collects repeated flag values; comma-separated values in a
// single occurrence are split.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, strings.Split(v, ",")...)
	return nil
}

var (
	flagDelimiter       = flag.String("delimiter", ",", `Field separator (single ASCII byte, "tab", or "\t")`)
	flagQuote           = flag.String("quote", `"`, `Quote character; "none" disables all quote processing`)
	flagNull            = flag.String("null", "", `Blank values matching this pattern in full; use (?i) for a case-insensitive match`)
	flagReplaceNewlines = flag.Bool("replace-newlines", false, "Replace LF/CR/CRLF sequences inside values with spaces")
	flagTrimWhitespace  = flag.Bool("trim-whitespace", false, "Remove whitespace at the beginning and end of each cell")
	flagCleanNames      = flag.Bool("clean-column-names", false, "Make column names unique, lowercase alphanumeric/underscore")
	flagASCIINames      = flag.Bool("ascii-column-names", false, "Also strip diacritics when cleaning column names")
	flagDedupeRows      = flag.Bool("dedupe-rows", false, "Drop rows identical (after cleaning) to an earlier row")
	flagBadRowsPath     = flag.String("bad-rows-path", "", "Save badly formed rows to this file")
	flagQuiet           = flag.Bool("quiet", false, "Do not print the run summary")
	flagMetricsBackend  = flag.String("metrics-backend", "", "Metrics backend to use (pushgateway, none)")
	flagPushgatewayURL  = flag.String("pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")

	flagDropRowIfNull stringList
)

func init() {
	flag.Var(&flagDropRowIfNull, "drop-row-if-null",
		"Drop rows where this column is empty or NULL; repeatable, uses cleaned column names")

	// Short aliases, xsv-style.
	flag.StringVar(flagDelimiter, "d", ",", "Alias for -delimiter")
	flag.StringVar(flagNull, "n", "", "Alias for -null")
	flag.BoolVar(flagQuiet, "q", false, "Alias for -quiet")
}

func main() {
	flag.Parse()

	if err := run(context.Background()); err != nil {
		var tooMany *pipeline.TooManyBadRowsError
		if errors.As(err, &tooMany) {
			fmt.Fprintln(os.Stderr, tooMany)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			fmt.Fprintf(os.Stderr, "  caused by: %v\n", cause)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	issues := cfg.Validate()
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		return fmt.Errorf("invalid configuration")
	}

	setupMetrics()

	// Select the input source once; everything downstream sees an opaque
	// byte stream.
	var src datasource.Source = datasource.Stdin{}
	switch {
	case strings.HasPrefix(cfg.InputPath, "http://"), strings.HasPrefix(cfg.InputPath, "https://"):
		src = httpds.NewRemote(cfg.InputPath, httpds.Options{})
	case cfg.InputPath != "":
		src = file.NewLocal(cfg.InputPath)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	cln, err := cleaner.New(cfg.NullPattern, cfg.TrimWhitespace, cfg.ReplaceNewlines)
	if err != nil {
		return err
	}

	rdr := pcsv.NewReader(rc, pcsv.ReaderOptions{
		Comma:  cfg.Delimiter,
		Quoted: cfg.Quoting,
	})
	wtr := pcsv.NewWriter(os.Stdout, pcsv.DefaultBufferSize)

	var badWtr pipeline.RecordWriter
	if cfg.BadRowsPath != "" {
		f, err := os.Create(cfg.BadRowsPath)
		if err != nil {
			return fmt.Errorf("create bad rows file: %w", err)
		}
		defer f.Close()
		badWtr = pcsv.NewWriter(f, 0)
	}

	p := pipeline.New(rdr, wtr, badWtr, cln, pipeline.Options{
		CleanColumnNames: cfg.CleanColumnNames,
		ASCIIColumnNames: cfg.ASCIIColumnNames,
		RequiredColumns:  cfg.RequiredColumns,
		DedupeRows:       cfg.DedupeRows,
	})
	sum, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		printSummary(sum, cfg.DedupeRows)
	}

	metrics.RecordRows("total", sum.Rows)
	metrics.RecordRows("bad", sum.BadRows)
	metrics.RecordRows("duplicate", sum.DuplicateRows)
	metrics.RecordRun(sum.Elapsed, sum.BytesRead)
	if err := metrics.Flush(); err != nil {
		// Advisory only; never masks the run outcome.
		log.Printf("metrics: flush error: %v", err)
	}

	return sum.CheckQuality()
}

// buildConfig assembles and partially parses the run configuration from the
// parsed flags. Specifier parse failures are configuration errors.
func buildConfig() (config.Config, error) {
	var cfg config.Config

	delim, delimOK, err := config.ParseCharSpec(*flagDelimiter)
	if err != nil {
		return cfg, fmt.Errorf("bad delimiter: %w", err)
	}
	quote, quoteOK, err := config.ParseCharSpec(*flagQuote)
	if err != nil {
		return cfg, fmt.Errorf("bad quote: %w", err)
	}

	if delimOK {
		cfg.Delimiter = delim
	}
	cfg.Quote = quote
	cfg.Quoting = quoteOK
	cfg.InputPath = flag.Arg(0)
	cfg.NullPattern = *flagNull
	cfg.ReplaceNewlines = *flagReplaceNewlines
	cfg.TrimWhitespace = *flagTrimWhitespace
	cfg.CleanColumnNames = *flagCleanNames
	cfg.ASCIIColumnNames = *flagASCIINames
	cfg.RequiredColumns = flagDropRowIfNull
	cfg.BadRowsPath = *flagBadRowsPath
	cfg.DedupeRows = *flagDedupeRows
	cfg.Quiet = *flagQuiet
	return cfg, nil
}

// setupMetrics decides the metrics backend: flag, then env, then disabled.
func setupMetrics() {
	backendName := *flagMetricsBackend
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		gwURL := *flagPushgatewayURL
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend("scrub", gwURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		metrics.SetBackend(b)
	case "", "none":
		// metrics disabled; nop backend remains
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}
}

// printSummary writes the advisory run report to the diagnostic stream.
func printSummary(sum pipeline.Summary, dedupe bool) {
	seconds := sum.Elapsed.Seconds()
	var bps uint64
	if seconds > 0 {
		bps = uint64(float64(sum.BytesRead) / seconds)
	}
	if dedupe {
		fmt.Fprintf(os.Stderr, "%d rows (%d bad, %d duplicate) in %.2f seconds, %s/sec\n",
			sum.Rows, sum.BadRows, sum.DuplicateRows, seconds, humanize.IBytes(bps))
		return
	}
	fmt.Fprintf(os.Stderr, "%d rows (%d bad) in %.2f seconds, %s/sec\n",
		sum.Rows, sum.BadRows, seconds, humanize.IBytes(bps))
}
