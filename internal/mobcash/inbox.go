package mobcash

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Notifications(ctx context.Context, tokens *Tokens, page int) (Page[Notification], error) {
	var out Page[Notification]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/notification",
		query:  pageQuery(page),
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) Bonuses(ctx context.Context, tokens *Tokens, page int) (Page[Bonus], error) {
	var out Page[Bonus]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/bonus",
		query:  pageQuery(page),
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) Coupons(ctx context.Context, tokens *Tokens, page int) (Page[Coupon], error) {
	var out Page[Coupon]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/coupon",
		query:  pageQuery(page),
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) Advertisements(ctx context.Context, tokens *Tokens) (Page[Advertisement], error) {
	var out Page[Advertisement]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/ann",
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) Settings(ctx context.Context, tokens *Tokens) (Settings, error) {
	out := Settings{}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/setting",
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) RegisterDevice(ctx context.Context, tokens *Tokens, in DeviceRegistration) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/devices/",
		body:   in,
		tokens: tokens,
	})
}

// DeleteDevice unregisters a push token. The token is part of the path.
func (c *Client) DeleteDevice(ctx context.Context, tokens *Tokens, registrationID string) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/mobcash/fcm-token/" + url.PathEscape(registrationID) + "/",
		route:  "/mobcash/fcm-token/{token}/",
		tokens: tokens,
	})
}
