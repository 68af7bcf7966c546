// Package fetcher downloads saved portal pages for offline decoding.
package fetcher

import (
	"context"
)

// Fetcher retrieves the raw document at a URL.
type Fetcher interface {
	// Fetch returns the decoded response body.
	Fetch(ctx context.Context, url string) ([]byte, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
