package testutil

import (
	"context"

	"zenboard/internal/fetcher"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchFunc  func(ctx context.Context) (string, error)
	SourceFunc func() string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context) (string, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	return "", nil
}

// Source implements the Fetcher interface
func (m *MockFetcher) Source() string {
	if m.SourceFunc != nil {
		return m.SourceFunc()
	}
	return "mock"
}

// NewMockFetcher creates a simple mock fetcher with predefined values
func NewMockFetcher(source, value string, err error) fetcher.Fetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context) (string, error) {
			return value, err
		},
		SourceFunc: func() string {
			return source
		},
	}
}
