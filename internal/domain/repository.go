package domain

import "context"

// PageReader defines the interface for fetching a target page's rendered
// text through the external extraction proxy.
type PageReader interface {
	ReadPage(ctx context.Context, targetURL string) (string, error)
}
