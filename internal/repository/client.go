package repository

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/coscup/sessiongen/pkg/logger"
)

const maxErrorBody = 512

// ClientOptions configures the shared HTTP client.
type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	RetryCount uint64
	RetryDelay time.Duration
	Accept     string
}

// httpClient wraps resty with bounded exponential retries.
type httpClient struct {
	client  *resty.Client
	retries uint64
	delay   time.Duration
}

func newHTTPClient(opts ClientOptions) *httpClient {
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)
	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}
	if opts.Accept != "" {
		client.SetHeader("Accept", opts.Accept)
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &httpClient{client: client, retries: opts.RetryCount, delay: delay}
}

// get performs a GET and returns the body of a 2xx response. Transport
// errors and retryable statuses are retried; anything else fails at once.
func (c *httpClient) get(ctx context.Context, url string, query map[string]string) ([]byte, error) {
	log := logger.FromContext(ctx)
	attempt := 0
	var body []byte
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		req := c.client.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}
		resp, err := req.Get(url)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			log.Warn("Request failed", "url", url, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
			herr := &HTTPError{
				StatusCode: resp.StatusCode(),
				URL:        resp.Request.URL,
				Body:       truncate(resp.String(), maxErrorBody),
			}
			if herr.Retryable() {
				log.Warn("Retryable response", "url", url, "status", herr.StatusCode, "attempt", attempt)
				return retry.RetryableError(herr)
			}
			return herr
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
