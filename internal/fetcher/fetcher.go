package fetcher

import (
	"context"
)

// Page is a fetched store page.
type Page struct {
	URL        string
	StatusCode int
	Body       string
}

// Fetcher defines the interface for retrieving a single page.
type Fetcher interface {
	// Fetch retrieves the URL and returns its body. Transport failures and
	// non-2xx statuses come back as errors; callers that count them as
	// misses swallow the error.
	Fetch(ctx context.Context, url string) (*Page, error)
}
