// Package main provides the perangkum-summarize command, which prints an
// extractive summary of text, a file, a web page, a feed or stored documents.
//
// Usage:
//
//	perangkum-summarize [flags] [text...]
//
// Without a source flag or arguments the text is read from stdin.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"perangkum/internal/bootstrap"
	"perangkum/internal/config"
	"perangkum/internal/domain/entity"
	"perangkum/internal/observability/logging"
	summaryUC "perangkum/internal/usecase/summary"
)

const usage = `Usage: perangkum-summarize [flags] [text...]

Sources (at most one; default is the arguments, then stdin):
  -file PATH     summarize a local .txt, .pdf, .docx or .html file
  -url URL       summarize a web page
  -feed URL      summarize every item of an RSS or Atom feed
  -doc NAME      summarize a stored document
  -all           summarize every stored document

Examples:
  echo "Budi pergi ke pasar. Ibu memasak di dapur." | perangkum-summarize
  perangkum-summarize -file laporan.docx -top-k 5
  perangkum-summarize -feed https://example.com/rss.xml -output json

Flags:
`

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	file, url, feed, doc string
	all                  bool

	topK           int
	minTokenLength int
	locale         string
	stopwordsFile  string

	output  string
	scores  bool
	timeout time.Duration
	verbose bool
}

// resultJSON is one entry of the JSON output for feeds and -all.
type resultJSON struct {
	Source  string          `json:"source"`
	Summary *entity.Summary `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	logger := newLogger(stderr, opts.verbose)
	config.LoadDotEnv(logger)

	cfg, err := summarizerConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var store *bootstrap.Store
	if opts.doc != "" || opts.all {
		storeCfg, err := config.LoadStoreConfig()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		store, err = bootstrap.OpenStore(ctx, storeCfg, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		defer func() { _ = store.Close() }()
	}

	tfidf, err := bootstrap.NewSummarizer(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	registry := bootstrap.NewExtractor(0)
	svc := bootstrap.NewSummaryService(store, registry, tfidf, cfg, logger)

	switch {
	case opts.feed != "":
		results, err := svc.SummarizeFeed(ctx, opts.feed)
		return printResults(stdout, stderr, opts, results, err)
	case opts.all:
		results, err := svc.SummarizeAll(ctx)
		return printResults(stdout, stderr, opts, results, err)
	}

	var sum *entity.Summary
	switch {
	case opts.url != "":
		sum, err = svc.SummarizeURL(ctx, opts.url)
	case opts.doc != "":
		sum, err = svc.SummarizeDocument(ctx, opts.doc)
	case opts.file != "":
		sum, err = summarizeFile(ctx, svc, registry, opts.file)
	default:
		var text string
		text, err = inputText(rest, stdin)
		if err == nil {
			sum, err = svc.SummarizeText(ctx, text)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return printSummary(stdout, stderr, opts, sum)
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet("perangkum-summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.file, "file", "", "Local file to summarize")
	fs.StringVar(&opts.url, "url", "", "Web page to summarize")
	fs.StringVar(&opts.feed, "feed", "", "RSS or Atom feed to summarize item by item")
	fs.StringVar(&opts.doc, "doc", "", "Stored document to summarize")
	fs.BoolVar(&opts.all, "all", false, "Summarize every stored document")
	fs.IntVar(&opts.topK, "top-k", 0, "Sentences per summary (default SUMMARY_TOP_K)")
	fs.IntVar(&opts.minTokenLength, "min-token-length", 0, "Minimum token length in runes (default SUMMARY_MIN_TOKEN_LENGTH)")
	fs.StringVar(&opts.locale, "locale", "", "Built-in stop-word list (default SUMMARY_STOPWORDS_LOCALE)")
	fs.StringVar(&opts.stopwordsFile, "stopwords-file", "", "YAML stop-word file (default SUMMARY_STOPWORDS_FILE)")
	fs.StringVar(&opts.output, "output", "text", "Output format: text or json")
	fs.BoolVar(&opts.scores, "scores", false, "Also print each selected sentence with its score")
	fs.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall time limit")
	fs.BoolVar(&opts.verbose, "v", false, "Log progress to stderr")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	sources := 0
	for _, set := range []bool{opts.file != "", opts.url != "", opts.feed != "", opts.doc != "", opts.all} {
		if set {
			sources++
		}
	}
	switch {
	case sources > 1:
		return opts, nil, errors.New("-file, -url, -feed, -doc and -all are mutually exclusive")
	case sources == 1 && fs.NArg() > 0:
		return opts, nil, errors.New("text arguments cannot be combined with a source flag")
	case opts.output != "text" && opts.output != "json":
		return opts, nil, fmt.Errorf("invalid output %q (must be text or json)", opts.output)
	case opts.timeout <= 0:
		return opts, nil, errors.New("-timeout must be positive")
	}
	return opts, fs.Args(), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		return logging.NewTextLogger(w)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// summarizerConfig loads the SUMMARY_* variables and applies flag overrides.
func summarizerConfig(opts options) (*config.SummarizerConfig, error) {
	cfg, err := config.LoadSummarizerConfig()
	if err != nil {
		return nil, err
	}
	if opts.topK != 0 {
		cfg.TopK = opts.topK
	}
	if opts.minTokenLength != 0 {
		cfg.MinTokenLength = opts.minTokenLength
	}
	if opts.locale != "" {
		cfg.StopWordsLocale = opts.locale
		cfg.StopWordsFile = ""
	}
	if opts.stopwordsFile != "" {
		cfg.StopWordsFile = opts.stopwordsFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileExtractor interface {
	Extract(ctx context.Context, name string, r io.Reader) (string, error)
}

func summarizeFile(ctx context.Context, svc *summaryUC.Service, ex fileExtractor, path string) (*entity.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	text, err := ex.Extract(ctx, path, f)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	sum, err := svc.SummarizeText(ctx, text)
	if err != nil {
		return nil, err
	}
	sum.Source = path
	return sum, nil
}

func inputText(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", errors.New("no input text (pass text as arguments, pipe it on stdin or use a source flag)")
	}
	return string(data), nil
}

func printSummary(stdout, stderr io.Writer, opts options, sum *entity.Summary) int {
	if opts.output == "json" {
		return encodeJSON(stdout, stderr, sum)
	}
	fmt.Fprintln(stdout, sum.Text)
	if opts.scores {
		writeScores(stdout, sum)
	}
	return exitOK
}

func printResults(stdout, stderr io.Writer, opts options, results []entity.SummaryResult, err error) int {
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	if opts.output == "json" {
		out := make([]resultJSON, 0, len(results))
		for _, r := range results {
			item := resultJSON{Source: r.Source, Summary: r.Summary}
			if r.Err != nil {
				item.Summary = nil
				item.Error = r.Err.Error()
			}
			out = append(out, item)
		}
		if code := encodeJSON(stdout, stderr, out); code != exitOK {
			return code
		}
	} else {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "== %s ==\n", r.Source)
			if r.Err != nil {
				fmt.Fprintf(stdout, "error: %v\n", r.Err)
				continue
			}
			fmt.Fprintln(stdout, r.Summary.Text)
			if opts.scores {
				writeScores(stdout, r.Summary)
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(stderr, "%d of %d items could not be summarized\n", failed, len(results))
		return exitFailure
	}
	return exitOK
}

func writeScores(w io.Writer, sum *entity.Summary) {
	for i, s := range sum.Sentences {
		fmt.Fprintf(w, "%2d. [%.4f] #%d %s\n", i+1, s.Score, s.Index, s.Text)
	}
}

func encodeJSON(stdout, stderr io.Writer, v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "Error: failed to encode JSON: %v\n", err)
		return exitFailure
	}
	return exitOK
}
