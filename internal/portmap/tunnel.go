package portmap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
)

// TunnelClient talks to a local tunnel daemon that forwards a source port to
// a live endpoint. Resolved endpoints are cached per port: allocation is the
// expensive half of the call and tunnels stay alive for the daemon's
// lifetime.
type TunnelClient struct {
	resty *resty.Client

	mu    sync.Mutex
	cache map[int]string
}

type tunnelRequest struct {
	Port int `json:"port"`
}

type tunnelResponse struct {
	Endpoint string `json:"endpoint"`
}

// NewTunnelClient creates a client for the daemon at baseURL.
func NewTunnelClient(baseURL string) *TunnelClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("User-Agent", "vellum-webview/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	return &TunnelClient{
		resty: client,
		cache: make(map[int]string),
	}
}

// Resolve returns the live endpoint for sourcePort, allocating a tunnel on
// first use.
func (c *TunnelClient) Resolve(ctx context.Context, sourcePort int) (string, error) {
	c.mu.Lock()
	if endpoint, ok := c.cache[sourcePort]; ok {
		c.mu.Unlock()
		return endpoint, nil
	}
	c.mu.Unlock()

	var out tunnelResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(tunnelRequest{Port: sourcePort}).
		SetResult(&out).
		Post("/tunnels")
	if err != nil {
		return "", fmt.Errorf("allocate tunnel for port %d: %w", sourcePort, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("allocate tunnel for port %d: daemon returned %s", sourcePort, resp.Status())
	}
	if out.Endpoint == "" {
		return "", fmt.Errorf("allocate tunnel for port %d: daemon returned no endpoint", sourcePort)
	}

	c.mu.Lock()
	c.cache[sourcePort] = out.Endpoint
	c.mu.Unlock()
	return out.Endpoint, nil
}
