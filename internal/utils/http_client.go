package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	userAgent        = "go-course-sync"
	retryWaitTime    = 200 * time.Millisecond
	retryMaxWaitTime = 2 * time.Second
)

// HTTPClient wraps resty.Client with the defaults shared by the web-service
// client, the file pool and the connectivity prober.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client with its own connection pool. A positive
// timeout bounds every request; a failed request is retried up to retries
// times with backoff between 200ms and 2s.
//
//	client := utils.NewHTTPClient(30*time.Second, 2)
//	resp, err := client.R().SetContext(ctx).Get(url)
func NewHTTPClient(timeout time.Duration, retries int) *HTTPClient {
	client := resty.New().SetHeader("User-Agent", userAgent)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if retries > 0 {
		client.
			SetRetryCount(retries).
			SetRetryWaitTime(retryWaitTime).
			SetRetryMaxWaitTime(retryMaxWaitTime)
	}
	return &HTTPClient{Client: client}
}
