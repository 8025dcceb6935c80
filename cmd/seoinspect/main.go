// Command seoinspect prints the title, meta description and headings of one
// or more web pages as JSON lines.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/Bahjat/seo-analyzer/internal/analyzer"
	"github.com/Bahjat/seo-analyzer/internal/model"
	"github.com/Bahjat/seo-analyzer/internal/pageinsight"
	"github.com/Bahjat/seo-analyzer/internal/platform/logger"
)

var errSomeFailed = errors.New("one or more pages could not be analyzed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Concurrency  int           `short:"c" default:"4" help:"Pages analyzed in parallel"`
	Timeout      time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	AllowPrivate bool          `help:"Allow fetching private and loopback addresses"`
	LogLevel     string        `default:"ERROR" enum:"DEBUG,INFO,WARN,ERROR" help:"Log level for diagnostics on stderr"`
	URLs         []string      `arg:"" name:"url" help:"Page URLs to analyze"`
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// report is one output line.
type report struct {
	URL    string                `json:"url"`
	Result *model.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Run parses args, analyzes every URL and writes one JSON line per URL to
// stdout in argument order.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("seoinspect"),
		kong.Description("Extract title, meta description and headings from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if cli.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", cli.Concurrency)
	}

	log := logger.NewWithWriter(stderr, cli.LogLevel, "text")
	fetcher := pageinsight.NewHTTPClient(
		pageinsight.WithTimeout(cli.Timeout),
		pageinsight.WithPrivateNetworks(cli.AllowPrivate),
	)
	service := analyzer.NewService(pageinsight.NewEngine(fetcher), log)

	reports := analyzeAll(ctx, service, cli.URLs, cli.Concurrency)

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	var failed bool
	for _, r := range reports {
		if r.Error != "" {
			failed = true
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if failed {
		return errSomeFailed
	}
	return nil
}

// analyzeAll runs each URL through the provider independently. A failing
// page never cancels the others.
func analyzeAll(ctx context.Context, provider analyzer.PageInsightProvider, urls []string, concurrency int) []report {
	reports := make([]report, len(urls))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			reports[i].URL = u
			result, err := provider.Analyze(ctx, u)
			if err != nil {
				reports[i].Error = err.Error()
				return nil
			}
			reports[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	return reports
}
