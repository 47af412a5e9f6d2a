package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"zenboard/internal/fetcher"
	"zenboard/internal/metrics"
	"zenboard/internal/quote"
	"zenboard/internal/zen"
)

// Note is returned with every report to explain the demonstration.
const Note = "Both API calls ran in parallel, so total time is ~1 second, not 2!"

// Report aggregates the outcome of one fan-out invocation. It is built once
// per call and has no persisted lifecycle.
type Report struct {
	GithubMessage string  `json:"github_message"`
	Quote         string  `json:"quote"`
	TotalSeconds  float64 `json:"total_time_seconds"`
	Note          string  `json:"note"`
}

// Coordinator manages concurrent fetchers and aggregates results
type Coordinator struct {
	fetchers []fetcher.Fetcher
	logger   *slog.Logger
}

// New creates a new Coordinator with the given fetchers
func New(fetchers []fetcher.Fetcher, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		fetchers: fetchers,
		logger:   logger,
	}
}

// Run executes all fetchers concurrently, joins them, and builds a Report.
// Each fetcher runs in its own goroutine and sends its result to a shared
// channel; the report is only assembled after every fetcher has completed.
//
// A fetcher's failure never aborts the pair: errors are converted to an
// in-band "Error: ..." string in the result so the fan-out as a whole always
// succeeds. Total elapsed wall time is measured from just before launch to
// just after the join, and is close to the slowest fetcher's duration rather
// than the sum.
func (c *Coordinator) Run(ctx context.Context) (Report, error) {
	if len(c.fetchers) == 0 {
		return Report{}, fmt.Errorf("no fetchers configured")
	}

	c.logger.InfoContext(ctx, "starting parallel fetch", "fetchers", len(c.fetchers))

	// Create a channel for collecting results
	resultChan := make(chan fetcher.Result, len(c.fetchers))

	// WaitGroup to track all worker goroutines
	var wg sync.WaitGroup

	start := time.Now()

	// Launch a goroutine for each fetcher
	for _, f := range c.fetchers {
		wg.Add(1)
		go func(ft fetcher.Fetcher) {
			defer wg.Done()

			fetchStart := time.Now()
			value, err := ft.Fetch(ctx)
			metrics.RecordFetch(ft.Source(), err == nil, time.Since(fetchStart).Seconds())

			resultChan <- fetcher.Result{
				Source: ft.Source(),
				Value:  value,
				Err:    err,
			}
		}(f)
	}

	// Close the result channel when all workers are done
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Join: the range only ends once every fetcher has reported
	values := make(map[string]string, len(c.fetchers))
	for result := range resultChan {
		if result.Err != nil {
			c.logger.ErrorContext(ctx, "fetch failed",
				"source", result.Source,
				"error", result.Err)
			values[result.Source] = fmt.Sprintf("Error: %v", result.Err)
		} else {
			values[result.Source] = result.Value
		}
	}

	elapsed := time.Since(start)

	c.logger.InfoContext(ctx, "completed parallel fetch",
		"duration_seconds", fmt.Sprintf("%.2f", elapsed.Seconds()))

	return Report{
		GithubMessage: values[zen.SourceName],
		Quote:         values[quote.SourceName],
		TotalSeconds:  round2(elapsed.Seconds()),
		Note:          Note,
	}, nil
}

func round2(s float64) float64 {
	return math.Round(s*100) / 100
}
