package linkopp

import "context"

// Fetcher retrieves the body of a URL, such as a remotely hosted dataset.
type Fetcher interface {
	// Fetch returns the body of url. Non-200 responses are errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases resources held by the Fetcher.
	Close() error
}
