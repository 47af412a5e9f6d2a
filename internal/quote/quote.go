// Package quote returns a pseudo-randomly selected quotation after a fixed
// delay, standing in for a second upstream API in the fan-out demonstration.
package quote

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// SourceName keys this fetcher's result in the fan-out report.
const SourceName = "quote"

// Quotes is the fixed set a fetcher selects from.
var Quotes = []string{
	"The only way to do great work is to love what you do. - Steve Jobs",
	"Code is poetry. - WordPress",
	"First, solve the problem. Then, write the code. - John Johnson",
	"Programs must be written for people to read. - Harold Abelson",
}

// Fetcher picks one quote from the fixed set after its configured delay.
type Fetcher struct {
	delay time.Duration

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

// NewFetcher creates a quote fetcher seeded from the current time.
func NewFetcher(delay time.Duration) *Fetcher {
	return NewFetcherWithSeed(delay, time.Now().UnixNano())
}

// NewFetcherWithSeed creates a quote fetcher with a fixed seed so selection
// is deterministic.
func NewFetcherWithSeed(delay time.Duration, seed int64) *Fetcher {
	return &Fetcher{
		delay: delay,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Fetch waits the configured delay, then returns one quote from the set.
// The delay stands in for an upstream API call; like the real call in the
// zen fetcher, it is not cancelable once started.
func (f *Fetcher) Fetch(_ context.Context) (string, error) {
	time.Sleep(f.delay)

	f.mu.Lock()
	q := Quotes[f.rng.Intn(len(Quotes))]
	f.mu.Unlock()

	return q, nil
}

// Source returns the result key for this fetcher
func (f *Fetcher) Source() string {
	return SourceName
}
