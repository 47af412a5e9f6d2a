package fetcher

import "context"

// Fetcher is the core interface implemented by every task the coordinator
// fans out. Each fetcher knows how to produce one string payload and
// identifies itself through a stable source name.
type Fetcher interface {
	// Fetch produces the payload for this source.
	// Returns an error if the fetch operation fails.
	Fetch(ctx context.Context) (string, error)

	// Source returns the stable name of this fetcher, used to key
	// results, log attributes, and metric labels.
	// Examples:
	//   - zen
	//   - quote
	Source() string
}
