package httpclient

import (
	"net/http"
	"time"
)

// Client is the outbound HTTP surface used by the query router client and
// the ingest trigger. Keeping it an interface lets tests swap in fakes.
type Client interface {
	Get(url string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps http.Client with a hard timeout.
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient returns a client with a 30 second timeout.
func NewStandardClient() Client {
	return NewClientWithTimeout(30 * time.Second)
}

// NewClientWithTimeout returns a client with the given timeout.
func NewClientWithTimeout(timeout time.Duration) Client {
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *StandardHTTPClient) Get(url string) (*http.Response, error) {
	return c.client.Get(url)
}

func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
