// Package zen fetches a short piece of wisdom from an upstream plain-text
// endpoint, then simulates some extra processing time so the parallelism of
// the fan-out is observable.
package zen

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"zenboard/internal/fetcher"
	"zenboard/internal/ratelimit"

	"resty.dev/v3"
)

// DefaultBaseURL is the production zen endpoint.
const DefaultBaseURL = "https://api.github.com/zen"

// SourceName keys this fetcher's result in the fan-out report.
const SourceName = "zen"

// Fetcher retrieves the zen text from the configured endpoint.
type Fetcher struct {
	client *resty.Client
	delay  time.Duration
	allow  func() bool
}

// NewFetcher creates a zen text fetcher. timeout bounds the outbound call;
// delay is the simulated processing time added after a successful response.
// The fetcher never retries: one invocation issues at most one request, so
// the demo's wall time stays close to delay plus one network round trip even
// when the upstream is failing.
func NewFetcher(baseURL string, timeout, delay time.Duration) *Fetcher {
	return &Fetcher{
		client: fetcher.NewHTTPClient(baseURL, timeout, 0),
		delay:  delay,
		allow: func() bool {
			return ratelimit.GetLimiter().Allow(ratelimit.APIZen)
		},
	}
}

// Fetch performs the outbound GET and returns the response body.
// The simulated processing delay runs after the response arrives, so the
// task's total duration is network latency plus delay.
//
// A denied rate limit token is reported as an error immediately rather than
// waiting for one; the caller absorbs it in-band like any other failure.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	if !f.allow() {
		return "", fetcher.NewRateLimitError("zen endpoint rate limit reached, try again later")
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get("")

	if err != nil {
		return "", classify(err)
	}

	if !resp.IsSuccess() {
		return "", fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	// Simulate extra processing time. Once the response is in hand the task
	// always runs to completion; the delay is not cancelable.
	time.Sleep(f.delay)

	return strings.TrimSpace(resp.String()), nil
}

// Source returns the result key for this fetcher
func (f *Fetcher) Source() string {
	return SourceName
}

// classify maps transport errors into the fetch error taxonomy
func classify(err error) *fetcher.FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fetcher.NewTimeoutError(err)
	}
	return fetcher.NewNetworkError(err)
}
