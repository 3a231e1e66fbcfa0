package repository

import (
	"context"
	"fmt"
)

type bundleRepository struct {
	http *httpClient
	url  string
}

// NewBundleRepository downloads the script at url.
func NewBundleRepository(url string, opts ClientOptions) BundleRepository {
	return &bundleRepository{http: newHTTPClient(opts), url: url}
}

func (r *bundleRepository) Fetch(ctx context.Context) (string, error) {
	body, err := r.http.get(ctx, r.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to download bundle: %w", err)
	}
	return string(body), nil
}
