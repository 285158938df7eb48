package fetcher

import (
	"context"
	"io"
)

// Remote downloads raw exports from a remote location.
type Remote interface {
	// Fetch returns the body at url. When version is non-empty and the
	// remote copy still matches it, changed is false and body is nil.
	Fetch(ctx context.Context, url, version string) (body io.ReadCloser, newVersion string, changed bool, err error)
}
