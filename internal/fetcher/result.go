package fetcher

// Result represents the outcome of a fetch operation.
// It's designed to be sent through channels from worker goroutines
// to a coordinator that joins and aggregates the results.
type Result struct {
	// Source is the name of the fetcher that produced this result.
	Source string

	// Value is the fetched payload.
	Value string

	// Err contains any error that occurred during the fetch operation.
	// If Err is not nil, Value should be considered invalid.
	Err error
}
