// Command search-probe exercises a running neuroshop server and verifies
// the ranking invariants of its responses.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/okian/neuroshop/internal/probe"
	"github.com/okian/neuroshop/pkg/logger"
)

const (
	defaultRounds      = 2
	defaultTimeout     = 20 * time.Second
	defaultProbeBudget = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		queries = flag.String("queries", strings.Join(probe.DefaultQueries(), ","), "Comma separated queries")
		rounds  = flag.Int("rounds", defaultRounds, "Times each query is searched")
		workers = flag.Int("workers", runtime.NumCPU(), "Concurrent requests")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Log every response")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Named("search-probe")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultProbeBudget)
	defer cancel()

	cfg := &probe.Config{
		BaseURL: strings.TrimRight(*baseURL, "/"),
		Queries: splitQueries(*queries),
		Rounds:  *rounds,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	report, err := probe.Run(ctx, cfg)
	if err != nil {
		log.Error(ctx, "probe failed", logger.Error(err))
		os.Exit(1)
	}
	for _, v := range report.Violations {
		log.Warn(ctx, "violation", logger.String("detail", v))
	}
	if !report.OK() {
		os.Exit(1)
	}
}

func splitQueries(s string) []string {
	var out []string
	for _, q := range strings.Split(s, ",") {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	return out
}
