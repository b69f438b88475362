package mobcash

import (
	"context"
	"net/http"
)

// Login accepts an email address or a phone number as identifier.
func (c *Client) Login(ctx context.Context, identifier, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body: map[string]string{
			"email_or_phone": identifier,
			"password":       password,
		},
		out: &out,
	})
	return out, err
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/registration",
		body:   in,
	})
}

func (c *Client) Me(ctx context.Context, tokens *Tokens) (User, error) {
	var out User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/me",
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) EditProfile(ctx context.Context, tokens *Tokens, in ProfileUpdate) (User, error) {
	var out User
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/auth/edit",
		body:   in,
		tokens: tokens,
		out:    &out,
	})
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, tokens *Tokens, in ChangePasswordRequest) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/change_password",
		body:   in,
		tokens: tokens,
	})
}

func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/send_otp",
		body:   map[string]string{"email": email},
	})
}

func (c *Client) ResetPassword(ctx context.Context, in ResetPasswordRequest) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/reset_password",
		body:   in,
	})
}
