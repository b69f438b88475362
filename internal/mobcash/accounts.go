package mobcash

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (c *Client) Phones(ctx context.Context, tokens *Tokens) ([]UserPhone, error) {
	var out []UserPhone
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/user-phone/",
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) CreatePhone(ctx context.Context, tokens *Tokens, phone string, network int) (UserPhone, error) {
	var out UserPhone
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/user-phone/",
		body:   map[string]any{"phone": phone, "network": network},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) UpdatePhone(ctx context.Context, tokens *Tokens, id int, phone string, network int) (UserPhone, error) {
	var out UserPhone
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/mobcash/user-phone/%d/", id),
		route:  "/mobcash/user-phone/{id}/",
		body:   map[string]any{"phone": phone, "network": network},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) DeletePhone(ctx context.Context, tokens *Tokens, id int) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/mobcash/user-phone/%d/", id),
		route:  "/mobcash/user-phone/{id}/",
		tokens: tokens,
	})
}

// AppIDs lists saved bet ids, restricted to one platform when platformID is set.
func (c *Client) AppIDs(ctx context.Context, tokens *Tokens, platformID string) ([]UserAppID, error) {
	var query url.Values
	if platformID != "" {
		query = url.Values{"bet_app": {platformID}}
	}
	var out []UserAppID
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/mobcash/user-app-id/",
		query:  query,
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) CreateAppID(ctx context.Context, tokens *Tokens, userAppID, platformID string) (UserAppID, error) {
	var out UserAppID
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/user-app-id/",
		body:   map[string]string{"user_app_id": userAppID, "app": platformID},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) UpdateAppID(ctx context.Context, tokens *Tokens, id int, userAppID, platformID string) (UserAppID, error) {
	var out UserAppID
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/mobcash/user-app-id/%d/", id),
		route:  "/mobcash/user-app-id/{id}/",
		body:   map[string]string{"user_app_id": userAppID, "app": platformID},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) DeleteAppID(ctx context.Context, tokens *Tokens, id int) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/mobcash/user-app-id/%d/", id),
		route:  "/mobcash/user-app-id/{id}/",
		tokens: tokens,
	})
}

// SearchUser looks a bet id up on the platform itself.
func (c *Client) SearchUser(ctx context.Context, tokens *Tokens, platformID, betID string) (SearchUserResult, error) {
	var out SearchUserResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/mobcash/search-user",
		body:   map[string]string{"app_id": platformID, "userid": betID},
		tokens: tokens,
		out:    &out,
	})
	return out, err
}
