// Package httpclient provides shared HTTP client construction for outbound
// calls.
package httpclient

import (
	"net/http"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
	}
}
