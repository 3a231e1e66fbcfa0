// Package repository holds the I/O boundaries of a run: the pretalx REST
// API, the website script bundle and the filesystem.
package repository

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/coscup/sessiongen/internal/source"
)

// FileSystemRepository is the filesystem used for every file read and write.
type FileSystemRepository interface {
	afero.Fs
}

// PretalxRepository reads the event endpoints of a pretalx instance.
type PretalxRepository interface {
	Submissions(ctx context.Context) ([]source.RawRecord, error)
	Speakers(ctx context.Context) (map[string]string, error)
	Rooms(ctx context.Context) (map[source.ID]source.LocalizedText, error)
	Tracks(ctx context.Context) (map[source.ID]source.LocalizedText, error)
}

// BundleRepository downloads the website data script.
type BundleRepository interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPError is a non-success response that was not retried or ran out of
// retries.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPError) Retryable() bool {
	return retryableStatus(e.StatusCode)
}

func retryableStatus(code int) bool {
	return code >= 500 || code == 429 || code == 408
}
