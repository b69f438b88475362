package mobcash

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Networks(ctx context.Context, tokens *Tokens, kind Kind) ([]Network, error) {
	var out []Network
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/network",
		query:  url.Values{"type": {string(kind)}},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

// Platforms lists betting platforms. The backend spells the path "plateform".
func (c *Client) Platforms(ctx context.Context, tokens *Tokens, kind Kind) ([]Platform, error) {
	var out []Platform
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/plateform",
		query:  url.Values{"type": {string(kind)}},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}
